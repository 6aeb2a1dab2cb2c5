package main

import (
	"context"
	"net/http"
	"time"

	"recipebook-backend/internal/shared/middleware"
	"recipebook-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupRecipeRoutes(v1, c)
		setupImageRoutes(v1, c)
		setupExportRoutes(v1, c)
	}

	return router
}

// ========================================
// RECIPE ROUTES
// ========================================
func setupRecipeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	recipes := v1.Group("/recipes")
	{
		recipes.POST("", c.RecipeHandler.CreateRecipe)
		recipes.POST("/batch", c.RecipeHandler.CreateRecipes)
		recipes.GET("", c.RecipeHandler.SearchRecipes)
		recipes.GET("/:id", c.RecipeHandler.GetRecipe)
		recipes.PUT("/:id", c.RecipeHandler.UpdateRecipe)
		recipes.DELETE("/:id", c.RecipeHandler.DeleteRecipe)
		recipes.POST("/:id/image", c.RecipeHandler.UploadImage)
	}
}

// ========================================
// IMAGE ROUTES
// ========================================
func setupImageRoutes(v1 *gin.RouterGroup, c *container.Container) {
	images := v1.Group("/images")
	{
		images.GET("/:image_id", c.RecipeHandler.GetImage)
		images.DELETE("/:image_id", c.RecipeHandler.DeleteImage)
	}
}

// ========================================
// EXPORT ROUTES
// ========================================
func setupExportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	exports := v1.Group("/export")
	{
		exports.POST("/markdown", c.ExportHandler.ExportMarkdown)
		exports.POST("/word", c.ExportHandler.ExportWord)
		exports.GET("/excel", c.ExportHandler.ExportExcel)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(gc *gin.Context) {
		checkCtx, cancel := context.WithTimeout(gc.Request.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		if err := c.HealthCheck(checkCtx); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = err.Error()
		}

		gc.JSON(status, gin.H{
			"status":   statusLabel(status),
			"version":  c.Config.App.Version,
			"database": dbStatus,
		})
	}
}

func statusLabel(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "unhealthy"
}
