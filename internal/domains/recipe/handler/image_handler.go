package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipebook-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImageSize caps multipart uploads at 10 MiB.
const maxImageSize = 10 << 20

// UploadImage - POST /api/v1/recipes/:id/image
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recipe id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.BadRequest(c, "Image exceeds the 10MB limit")
		return
	}

	filename, err := uploadFilename(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read image file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Failed to read image file")
		return
	}

	var caption *string
	if v := c.PostForm("caption"); v != "" {
		caption = &v
	}

	img, err := h.service.AddRecipeImage(c.Request.Context(), recipeID, filename, content, caption)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, img)
}

// GetImage - GET /api/v1/images/:image_id
func (h *RecipeHandler) GetImage(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		response.BadRequest(c, "Invalid image id")
		return
	}

	blob, err := h.service.GetRecipeImage(c.Request.Context(), imageID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, blob.MediaType, blob.Content)
}

// DeleteImage - DELETE /api/v1/images/:image_id
func (h *RecipeHandler) DeleteImage(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		response.BadRequest(c, "Invalid image id")
		return
	}

	if err := h.service.DeleteRecipeImage(c.Request.Context(), imageID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// uploadFilename keeps the client's filename when present; otherwise
// one is generated from the declared content type.
func uploadFilename(original, contentType string) (string, error) {
	if original != "" {
		return original, nil
	}
	if contentType == "" {
		return "", fmt.Errorf("cannot determine filename: no filename or content type provided")
	}

	parts := strings.Split(contentType, "/")
	ext := parts[len(parts)-1]
	return fmt.Sprintf("%s.%s", strings.ReplaceAll(uuid.NewString(), "-", ""), ext), nil
}
