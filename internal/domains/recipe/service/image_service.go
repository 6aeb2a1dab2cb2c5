package service

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/pkg/logger"

	"github.com/google/uuid"
)

func (s *recipeService) AddRecipeImage(ctx context.Context, recipeID uuid.UUID, filename string, content []byte, caption *string) (*model.Image, error) {
	existing, err := s.repo.ListRecipeImages(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	img, err := s.repo.AddImage(ctx, recipeID, caption, len(existing))
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := img.ID.String() + ext
	if err := s.blob.Put(ctx, key, content, detectMediaType(ext, content)); err != nil {
		// The metadata row must not outlive a failed upload.
		if _, delErr := s.repo.DeleteImage(ctx, img.ID); delErr != nil {
			logger.Warn("Failed to roll back image metadata", map[string]interface{}{
				"image_id": img.ID.String(),
				"error":    delErr.Error(),
			})
		}
		return nil, err
	}

	logger.Info("Image uploaded", map[string]interface{}{
		"recipe_id": recipeID.String(),
		"image_id":  img.ID.String(),
		"key":       key,
		"size":      len(content),
	})
	return img, nil
}

func (s *recipeService) GetRecipeImage(ctx context.Context, imageID uuid.UUID) (*model.ImageBlob, error) {
	content, key, err := s.blob.Get(ctx, imageID.String())
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, model.ErrImageNotFound
	}

	return &model.ImageBlob{
		Content:   content,
		MediaType: detectMediaType(filepath.Ext(key), content),
	}, nil
}

func (s *recipeService) DeleteRecipeImage(ctx context.Context, imageID uuid.UUID) error {
	if _, err := s.blob.Delete(ctx, imageID.String()); err != nil {
		logger.Warn("Failed to delete image blob", map[string]interface{}{
			"image_id": imageID.String(),
			"error":    err.Error(),
		})
	}

	deleted, err := s.repo.DeleteImage(ctx, imageID)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrImageNotFound
	}
	return nil
}

// detectMediaType resolves a media type from the file extension first,
// falling back to content sniffing.
func detectMediaType(ext string, content []byte) string {
	if ext != "" {
		if mt := mime.TypeByExtension(strings.ToLower(ext)); mt != "" {
			return mt
		}
	}
	if len(content) > 0 {
		return http.DetectContentType(content)
	}
	return "application/octet-stream"
}
