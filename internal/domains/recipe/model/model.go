package model

import (
	"time"

	"github.com/google/uuid"
)

// Season - seasonal availability of a recipe
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// Category - course category of a recipe
type Category string

const (
	CategoryApero   Category = "apero"
	CategoryEntree  Category = "entree"
	CategoryPlat    Category = "plat"
	CategoryDessert Category = "dessert"
	CategoryBoisson Category = "boisson"
	CategoryGouter  Category = "gouter"
	CategoryPates   Category = "pâtes"
)

// SourceType - origin of a recipe source record
type SourceType string

const (
	SourceManual    SourceType = "manual"
	SourceInstagram SourceType = "instagram"
	SourceURL       SourceType = "url"
	SourcePhoto     SourceType = "photo"
)

func Seasons() []interface{} {
	return []interface{}{SeasonWinter, SeasonSpring, SeasonSummer, SeasonAutumn}
}

func Categories() []interface{} {
	return []interface{}{
		CategoryApero, CategoryEntree, CategoryPlat, CategoryDessert,
		CategoryBoisson, CategoryGouter, CategoryPates,
	}
}

func SourceTypes() []interface{} {
	return []interface{}{SourceManual, SourceInstagram, SourceURL, SourcePhoto}
}

// Recipe is the aggregate root: scalar fields plus the owned
// ingredient links, images, and sources.
type Recipe struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	PrepTimeMinutes *int               `json:"prep_time_minutes"`
	CookTimeMinutes *int               `json:"cook_time_minutes"`
	RestTimeMinutes *int               `json:"rest_time_minutes"`
	Season          *Season            `json:"season"`
	Category        Category           `json:"category"`
	IsVeggie        bool               `json:"is_veggie"`
	Difficulty      *int               `json:"difficulty"`
	NumberOfPeople  *int               `json:"number_of_people"`
	Rate            *int               `json:"rate"`
	Tested          bool               `json:"tested"`
	Tags            []string           `json:"tags"`
	Preparation     []string           `json:"preparation"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Images          []Image            `json:"images"`
	Sources         []Source           `json:"sources"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Ingredient is a canonical row shared across recipes. Names are
// globally unique.
type Ingredient struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeIngredient is the link between a recipe and an ingredient as
// presented in the aggregate, sorted by display order.
type RecipeIngredient struct {
	Name         string   `json:"name"`
	Quantity     *float64 `json:"quantity"`
	Unit         *string  `json:"unit"`
	DisplayOrder int      `json:"display_order"`
}

// Image is the metadata row for a blob stored under the same id.
type Image struct {
	ID           uuid.UUID `json:"id"`
	Caption      *string   `json:"caption"`
	DisplayOrder int       `json:"display_order"`
}

// Source is a provenance record. It outlives the recipe that cites
// it: deleting the recipe clears the link instead of the row.
type Source struct {
	ID         uuid.UUID  `json:"id"`
	Type       SourceType `json:"type"`
	RawContent string     `json:"raw_content"`
}

// ImageBlob pairs image content with its media type for retrieval.
type ImageBlob struct {
	Content   []byte
	MediaType string
}

// PaginatedResult carries one page of recipes plus the total match
// count before the page window was applied.
type PaginatedResult struct {
	Items []Recipe `json:"items"`
	Total int      `json:"total"`
}
