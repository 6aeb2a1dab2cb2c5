package service

import (
	"context"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/domains/recipe/repository"
	"recipebook-backend/pkg/logger"

	"github.com/google/uuid"
)

type recipeService struct {
	repo repository.Repository
	blob BlobStore
}

func NewRecipeService(repo repository.Repository, blob BlobStore) Service {
	return &recipeService{
		repo: repo,
		blob: blob,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, data *model.RecipeCreate) (*model.Recipe, error) {
	data.Normalize()
	rec, err := s.repo.AddRecipe(ctx, data)
	if err != nil {
		return nil, err
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": rec.ID.String(),
		"title":     rec.Title,
	})
	return rec, nil
}

func (s *recipeService) CreateRecipes(ctx context.Context, data *model.BatchRecipeCreate) ([]model.Recipe, error) {
	for i := range data.Recipes {
		data.Recipes[i].Normalize()
	}
	recipes, err := s.repo.AddRecipes(ctx, data.Recipes)
	if err != nil {
		return nil, err
	}

	logger.Info("Recipe batch created", map[string]interface{}{
		"count": len(recipes),
	})
	return recipes, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return s.repo.GetRecipeByID(ctx, id)
}

func (s *recipeService) SearchRecipes(ctx context.Context, filter *model.SearchFilter) (*model.PaginatedResult, error) {
	return s.repo.SearchRecipes(ctx, filter)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, data *model.RecipeUpdate) (*model.Recipe, error) {
	data.Normalize()
	rec, err := s.repo.UpdateRecipe(ctx, id, data)
	if err != nil {
		return nil, err
	}

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": rec.ID.String(),
	})
	return rec, nil
}

// DeleteRecipe removes the stored blobs of the recipe's images and
// then the aggregate. Blobs go first: a metadata row surviving a
// failed blob delete can be retried, an orphaned blob cannot. Blob
// failures are logged, not surfaced.
func (s *recipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	images, err := s.repo.ListRecipeImages(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range images {
		if _, err := s.blob.Delete(ctx, img.ID.String()); err != nil {
			logger.Warn("Failed to delete image blob", map[string]interface{}{
				"image_id": img.ID.String(),
				"error":    err.Error(),
			})
		}
	}

	deleted, err := s.repo.DeleteRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrRecipeNotFound
	}

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": id.String(),
		"images":    len(images),
	})
	return nil
}
