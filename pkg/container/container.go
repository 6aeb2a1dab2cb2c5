package container

import (
	"context"
	"fmt"

	"recipebook-backend/internal/config"
	"recipebook-backend/internal/domains/export"
	recipeHandler "recipebook-backend/internal/domains/recipe/handler"
	recipeRepo "recipebook-backend/internal/domains/recipe/repository"
	recipeService "recipebook-backend/internal/domains/recipe/service"
	"recipebook-backend/internal/infrastructure/database"
	"recipebook-backend/internal/infrastructure/storage"
	"recipebook-backend/pkg/logger"
)

// Container holds every dependency of the application. It is the root
// of the dependency graph; everything in it is a singleton.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config  *config.Config
	DB      *database.PostgresDB
	Storage *storage.MinIOStorage

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	RecipeRepo recipeRepo.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	RecipeService recipeService.Service
	ExportService export.Service

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	RecipeHandler *recipeHandler.RecipeHandler
	ExportHandler *export.Handler
}

// NewContainer initializes the dependency graph bottom-up: config,
// then infrastructure, then repositories, services, and handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)

	ctx := context.Background()

	c.DB = database.NewPostgresDB(&cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := c.DB.EnsureSchema(ctx); err != nil {
		c.DB.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		c.DB.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	c.RecipeRepo = recipeRepo.NewPostgresRepository(c.DB.Pool)

	c.RecipeService = recipeService.NewRecipeService(c.RecipeRepo, c.Storage)
	c.ExportService = export.NewExportService(c.RecipeRepo, c.Storage, cfg.Export.BookTitle)

	c.RecipeHandler = recipeHandler.NewRecipeHandler(c.RecipeService)
	c.ExportHandler = export.NewHandler(c.ExportService)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

// Cleanup releases held resources. Called on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleaned up", nil)
}

// HealthCheck reports the readiness of the backing services.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := c.DB.Ping(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}
	return nil
}
