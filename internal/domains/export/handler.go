package export

import (
	"net/http"

	"recipebook-backend/internal/shared/response"
	"recipebook-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	zipMediaType  = "application/zip"
	docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ExportMarkdown - POST /api/v1/export/markdown
func (h *Handler) ExportMarkdown(c *gin.Context) {
	archive, err := h.service.ExportMarkdown(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="recipes.zip"`)
	c.Data(http.StatusOK, zipMediaType, archive)
}

// ExportWord - POST /api/v1/export/word
func (h *Handler) ExportWord(c *gin.Context) {
	doc, err := h.service.ExportWord(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="recipes.docx"`)
	c.Data(http.StatusOK, docxMediaType, doc)
}

// ExportExcel - GET /api/v1/export/excel
func (h *Handler) ExportExcel(c *gin.Context) {
	sheet, err := h.service.ExportExcel(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="recipes.xlsx"`)
	c.Data(http.StatusOK, xlsxMediaType, sheet)
}

func (h *Handler) fail(c *gin.Context, err error) {
	logger.Error("Export failed", err)
	response.InternalServerError(c, "Export failed")
}
