package export

import (
	"context"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/domains/recipe/repository"
	recipeservice "recipebook-backend/internal/domains/recipe/service"
	"recipebook-backend/pkg/logger"
)

// Service renders the whole catalog into downloadable documents.
type Service interface {
	ExportMarkdown(ctx context.Context) ([]byte, error)
	ExportWord(ctx context.Context) ([]byte, error)
	ExportExcel(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo      repository.Repository
	blob      recipeservice.BlobStore
	bookTitle string
}

func NewExportService(repo repository.Repository, blob recipeservice.BlobStore, bookTitle string) Service {
	return &exportService{
		repo:      repo,
		blob:      blob,
		bookTitle: bookTitle,
	}
}

func (s *exportService) ExportMarkdown(ctx context.Context) ([]byte, error) {
	recipes, err := s.allRecipes(ctx)
	if err != nil {
		return nil, err
	}
	archive, err := BuildMarkdownArchive(ctx, recipes, s.blob.Get)
	if err != nil {
		return nil, err
	}

	logger.Info("Markdown export built", map[string]interface{}{
		"recipes": len(recipes),
		"bytes":   len(archive),
	})
	return archive, nil
}

func (s *exportService) ExportWord(ctx context.Context) ([]byte, error) {
	recipes, err := s.allRecipes(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := RenderWord(ctx, s.bookTitle, recipes, s.blob.Get)
	if err != nil {
		return nil, err
	}

	logger.Info("Word export built", map[string]interface{}{
		"recipes": len(recipes),
		"bytes":   len(doc),
	})
	return doc, nil
}

func (s *exportService) ExportExcel(ctx context.Context) ([]byte, error) {
	recipes, err := s.allRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return RenderExcel(recipes)
}

func (s *exportService) allRecipes(ctx context.Context) ([]model.Recipe, error) {
	result, err := s.repo.SearchRecipes(ctx, &model.SearchFilter{})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}
