package model

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// The stock threshold rules treat a dereferenced 0 as empty and skip
// it, so bounded optional ints need explicit checks that only skip nil.

func intRange(min, max int) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, _ := value.(*int)
		if v == nil {
			return nil
		}
		if *v < min || *v > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	})
}

func intMin(min int) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, _ := value.(*int)
		if v == nil {
			return nil
		}
		if *v < min {
			return fmt.Errorf("must be no less than %d", min)
		}
		return nil
	})
}

// ========================================
// CREATE / UPDATE DTOs
// ========================================

type IngredientInput struct {
	Name         string   `json:"name" binding:"required"`
	Quantity     *float64 `json:"quantity"`
	Unit         *string  `json:"unit"`
	DisplayOrder *int     `json:"display_order"`
}

func (i IngredientInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name,
			validation.Required.Error("ingredient name is required"),
			validation.Length(1, 100),
		),
	)
}

type ImageInput struct {
	Caption      *string `json:"caption"`
	DisplayOrder *int    `json:"display_order"`
}

type SourceInput struct {
	Type       SourceType `json:"type" binding:"required"`
	RawContent string     `json:"raw_content"`
}

func (s SourceInput) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Type,
			validation.Required.Error("source type is required"),
			validation.In(SourceTypes()...).Error("invalid source type"),
		),
	)
}

// RecipeCreate is the creation payload for a full recipe aggregate.
type RecipeCreate struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	PrepTimeMinutes *int              `json:"prep_time_minutes"`
	CookTimeMinutes *int              `json:"cook_time_minutes"`
	RestTimeMinutes *int              `json:"rest_time_minutes"`
	Season          *Season           `json:"season"`
	Category        Category          `json:"category" binding:"required"`
	IsVeggie        bool              `json:"is_veggie"`
	Difficulty      *int              `json:"difficulty"`
	NumberOfPeople  *int              `json:"number_of_people"`
	Rate            *int              `json:"rate"`
	Tested          bool              `json:"tested"`
	Tags            []string          `json:"tags"`
	Preparation     []string          `json:"preparation"`
	Ingredients     []IngredientInput `json:"ingredients"`
	Images          []ImageInput      `json:"images"`
	Sources         []SourceInput     `json:"sources"`
}

func (r RecipeCreate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.In(Categories()...).Error("invalid category"),
		),
		validation.Field(&r.Season, validation.In(Seasons()...).Error("invalid season")),
		validation.Field(&r.PrepTimeMinutes, intMin(0)),
		validation.Field(&r.CookTimeMinutes, intMin(0)),
		validation.Field(&r.RestTimeMinutes, intMin(0)),
		validation.Field(&r.Difficulty, intRange(1, 3)),
		validation.Field(&r.NumberOfPeople, intMin(1)),
		validation.Field(&r.Rate, intRange(1, 5)),
		validation.Field(&r.Ingredients),
		validation.Field(&r.Sources),
	)
}

// Normalize fills in the conventions callers may omit: empty season
// becomes NULL, ingredient names are capitalized, and missing display
// orders default to the item's position in the supplied list.
func (r *RecipeCreate) Normalize() {
	if r.Season != nil && *r.Season == "" {
		r.Season = nil
	}
	for idx := range r.Ingredients {
		r.Ingredients[idx].Name = CapitalizeName(r.Ingredients[idx].Name)
		if r.Ingredients[idx].DisplayOrder == nil {
			order := idx
			r.Ingredients[idx].DisplayOrder = &order
		}
	}
	for idx := range r.Images {
		if r.Images[idx].DisplayOrder == nil {
			order := idx
			r.Images[idx].DisplayOrder = &order
		}
	}
}

// RecipeUpdate is a full replacement (PUT). Images are excluded —
// they have a separate upload flow.
type RecipeUpdate struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	PrepTimeMinutes *int              `json:"prep_time_minutes"`
	CookTimeMinutes *int              `json:"cook_time_minutes"`
	RestTimeMinutes *int              `json:"rest_time_minutes"`
	Season          *Season           `json:"season"`
	Category        Category          `json:"category" binding:"required"`
	IsVeggie        bool              `json:"is_veggie"`
	Difficulty      *int              `json:"difficulty"`
	NumberOfPeople  *int              `json:"number_of_people"`
	Rate            *int              `json:"rate"`
	Tested          bool              `json:"tested"`
	Tags            []string          `json:"tags"`
	Preparation     []string          `json:"preparation"`
	Ingredients     []IngredientInput `json:"ingredients"`
	Sources         []SourceInput     `json:"sources"`
}

func (r RecipeUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.In(Categories()...).Error("invalid category"),
		),
		validation.Field(&r.Season, validation.In(Seasons()...).Error("invalid season")),
		validation.Field(&r.PrepTimeMinutes, intMin(0)),
		validation.Field(&r.CookTimeMinutes, intMin(0)),
		validation.Field(&r.RestTimeMinutes, intMin(0)),
		validation.Field(&r.Difficulty, intRange(1, 3)),
		validation.Field(&r.NumberOfPeople, intMin(1)),
		validation.Field(&r.Rate, intRange(1, 5)),
		validation.Field(&r.Ingredients),
		validation.Field(&r.Sources),
	)
}

func (r *RecipeUpdate) Normalize() {
	if r.Season != nil && *r.Season == "" {
		r.Season = nil
	}
	for idx := range r.Ingredients {
		r.Ingredients[idx].Name = CapitalizeName(r.Ingredients[idx].Name)
		if r.Ingredients[idx].DisplayOrder == nil {
			order := idx
			r.Ingredients[idx].DisplayOrder = &order
		}
	}
}

// BatchRecipeCreate wraps N creation payloads persisted in one
// transaction.
type BatchRecipeCreate struct {
	Recipes []RecipeCreate `json:"recipes" binding:"required"`
}

func (b BatchRecipeCreate) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Recipes, validation.Required.Error("recipes is required")),
	)
}

func (b *BatchRecipeCreate) Normalize() {
	for idx := range b.Recipes {
		b.Recipes[idx].Normalize()
	}
}

// ========================================
// SEARCH FILTER
// ========================================

// SearchFilter - every field is independently optional; supplied
// filters combine with AND.
type SearchFilter struct {
	RecipeID *uuid.UUID
	Title    string
	Category string
	IsVeggie *bool
	Season   string
	Limit    *int
	Offset   int
}

// CapitalizeName upper-cases the first letter of an ingredient name,
// leaving the rest untouched.
func CapitalizeName(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
