package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotely/internal/service"
)

// PreviewHandler prices unsaved documents.
type PreviewHandler struct {
	previewService service.PreviewService
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(previewService service.PreviewService) *PreviewHandler {
	return &PreviewHandler{previewService: previewService}
}

// Preview handles POST /api/v1/documents/preview
// @Summary Preview document totals
// @Description Computes the lines and totals a document would get, without saving it or consuming a number
// @Tags documents
// @Accept json
// @Produce json
// @Param request body service.DocumentInput true "Document lines and discount"
// @Success 200 {object} Response{data=service.PreviewResult} "Priced preview"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Item not found"
// @Security BearerAuth
// @Router /documents/preview [post]
func (h *PreviewHandler) Preview(c *gin.Context) {
	var input service.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.previewService.Preview(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
