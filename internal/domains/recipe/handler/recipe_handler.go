package handler

import (
	"errors"
	"net/http"
	"strconv"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/domains/recipe/service"
	"recipebook-backend/internal/shared/response"
	"recipebook-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type RecipeHandler struct {
	service service.Service
}

func NewRecipeHandler(service service.Service) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// CreateRecipe - POST /api/v1/recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req model.RecipeCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	rec, err := h.service.CreateRecipe(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// CreateRecipes - POST /api/v1/recipes/batch
func (h *RecipeHandler) CreateRecipes(c *gin.Context) {
	var req model.BatchRecipeCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	recipes, err := h.service.CreateRecipes(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipes)
}

// GetRecipe - GET /api/v1/recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recipe id")
		return
	}

	rec, err := h.service.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// SearchRecipes - GET /api/v1/recipes
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchRecipes(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := &response.Meta{
		Offset: filter.Offset,
		Total:  result.Total,
	}
	if filter.Limit != nil {
		meta.Limit = *filter.Limit
	}
	response.SuccessWithMeta(c, http.StatusOK, result.Items, meta)
}

// UpdateRecipe - PUT /api/v1/recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recipe id")
		return
	}

	var req model.RecipeUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	rec, err := h.service.UpdateRecipe(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// DeleteRecipe - DELETE /api/v1/recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recipe id")
		return
	}

	if err := h.service.DeleteRecipe(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseSearchFilter(c *gin.Context) (*model.SearchFilter, error) {
	filter := &model.SearchFilter{
		Title:    c.Query("title"),
		Category: c.Query("category"),
		Season:   c.Query("season"),
	}

	if raw := c.Query("recipe_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("invalid recipe_id filter")
		}
		filter.RecipeID = &id
	}
	if raw := c.Query("is_veggie"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("invalid is_veggie filter")
		}
		filter.IsVeggie = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, errors.New("invalid limit")
		}
		filter.Limit = &v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, errors.New("invalid offset")
		}
		filter.Offset = v
	}

	return filter, nil
}

func (h *RecipeHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrRecipeNotFound):
		response.NotFound(c, "Recipe not found")
	case errors.Is(err, model.ErrImageNotFound):
		response.NotFound(c, "Image not found")
	case errors.Is(err, model.ErrIngredientConflict):
		response.Conflict(c, "Ingredient registry conflict, please retry")
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", vErrs)
	default:
		logger.Error("Request failed", err)
		response.InternalServerError(c, "Something went wrong")
	}
}
