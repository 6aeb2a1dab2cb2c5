package repository

import (
	"context"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for recipe aggregates. Every
// multi-step operation is atomic: it either commits with all of its
// child writes applied or leaves the previous state untouched.
type Repository interface {
	// AddRecipe persists a full aggregate in one transaction and
	// returns it hydrated with generated ids and creation timestamp.
	AddRecipe(ctx context.Context, data *model.RecipeCreate) (*model.Recipe, error)

	// AddRecipes persists N aggregates in a single transaction,
	// resolving ingredient dedup once across the whole batch.
	AddRecipes(ctx context.Context, data []model.RecipeCreate) ([]model.Recipe, error)

	// GetRecipeByID loads the aggregate with all child collections,
	// ingredients sorted by display order. Returns
	// model.ErrRecipeNotFound for an unknown id.
	GetRecipeByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)

	// SearchRecipes applies the supplied filters with AND semantics.
	// Total reflects all matches before the page window.
	SearchRecipes(ctx context.Context, filter *model.SearchFilter) (*model.PaginatedResult, error)

	// UpdateRecipe fully replaces scalar fields, ingredients, and
	// sources. Images are left untouched.
	UpdateRecipe(ctx context.Context, id uuid.UUID, data *model.RecipeUpdate) (*model.Recipe, error)

	// DeleteRecipe removes the recipe and its images; sources are
	// detached, not deleted. False when the id does not exist.
	DeleteRecipe(ctx context.Context, id uuid.UUID) (bool, error)

	// AddImage persists an image metadata row for an existing recipe.
	AddImage(ctx context.Context, recipeID uuid.UUID, caption *string, displayOrder int) (*model.Image, error)

	// DeleteImage removes an image metadata row. False when the id
	// does not exist.
	DeleteImage(ctx context.Context, imageID uuid.UUID) (bool, error)

	// ListRecipeImages returns the image metadata rows of a recipe in
	// display order.
	ListRecipeImages(ctx context.Context, recipeID uuid.UUID) ([]model.Image, error)
}
