package service

import (
	"context"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/google/uuid"
)

// BlobStore is the object storage capability the service needs. Blobs
// are addressed by image id; the storage layer owns key/extension
// resolution.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, imageID string) ([]byte, string, error)
	Delete(ctx context.Context, imageID string) (bool, error)
}

// Service - business logic for the recipe catalog
type Service interface {
	CreateRecipe(ctx context.Context, data *model.RecipeCreate) (*model.Recipe, error)
	CreateRecipes(ctx context.Context, data *model.BatchRecipeCreate) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	SearchRecipes(ctx context.Context, filter *model.SearchFilter) (*model.PaginatedResult, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, data *model.RecipeUpdate) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error

	// AddRecipeImage persists image metadata, then uploads the blob
	// under "{image_id}{ext}". The metadata row is rolled back when
	// the upload fails.
	AddRecipeImage(ctx context.Context, recipeID uuid.UUID, filename string, content []byte, caption *string) (*model.Image, error)

	// GetRecipeImage returns the blob content and its media type.
	GetRecipeImage(ctx context.Context, imageID uuid.UUID) (*model.ImageBlob, error)

	// DeleteRecipeImage removes the blob and then the metadata row.
	// A failed blob delete is logged, the row delete still proceeds.
	DeleteRecipeImage(ctx context.Context, imageID uuid.UUID) error
}
