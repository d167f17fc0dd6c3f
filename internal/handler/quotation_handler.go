package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotely/internal/domain"
	"quotely/internal/port"
	"quotely/internal/service"
)

// QuotationHandler handles quotation endpoints.
type QuotationHandler struct {
	quotationService service.QuotationService
	exportService    service.ExportService
}

// NewQuotationHandler creates a new QuotationHandler.
func NewQuotationHandler(quotationService service.QuotationService, exportService service.ExportService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService, exportService: exportService}
}

// Create handles POST /api/v1/quotations
// @Summary Create a quotation
// @Description Prices every line from the catalog unless overridden, computes totals and assigns the next QT number. All writes happen in one transaction.
// @Tags quotations
// @Accept json
// @Produce json
// @Param request body service.QuotationInput true "Quotation details"
// @Success 201 {object} Response{data=domain.Quotation} "Quotation created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Client or item not found"
// @Failure 409 {object} ErrorResponseBody "Number conflict, retry"
// @Security BearerAuth
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input service.QuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, quotation)
}

// List handles GET /api/v1/quotations
// @Summary List quotations
// @Tags quotations
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, sent, approved, rejected)
// @Param client_id query string false "Filter by client (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Quotation,meta=PagMeta} "List of quotations"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	filter := port.QuotationFilter{Status: domain.QuotationStatus(c.Query("status"))}
	if filter.Status != "" && !domain.ValidQuotationStatuses[filter.Status] {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid status filter")
		return
	}
	clientID, ok := parseOptionalUUIDQuery(c, "client_id")
	if !ok {
		return
	}
	filter.ClientID = clientID

	offset, limit := parsePagination(c)

	quotations, total, err := h.quotationService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, quotations, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/quotations/:id
// @Summary Get quotation by ID
// @Description Returns the quotation with its client and line items
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID (UUID)"
// @Success 200 {object} Response{data=domain.Quotation} "Quotation details"
// @Failure 404 {object} ErrorResponseBody "Quotation not found"
// @Security BearerAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	quotationID, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), quotationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, quotation)
}

// Update handles PUT /api/v1/quotations/:id
// @Summary Replace a draft quotation
// @Description Replaces client, lines, discount and notes of a draft; the number is kept
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID (UUID)"
// @Param request body service.QuotationInput true "Quotation details"
// @Success 200 {object} Response{data=domain.Quotation} "Quotation updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Quotation not found"
// @Failure 409 {object} ErrorResponseBody "Quotation is not a draft"
// @Security BearerAuth
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	quotationID, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	var input service.QuotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), quotationID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, quotation)
}

// UpdateStatus handles PATCH /api/v1/quotations/:id/status
// @Summary Change quotation status
// @Description draft may move to sent, approved or rejected; sent may move to approved or rejected
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID (UUID)"
// @Param request body service.QuotationStatusInput true "New status"
// @Success 200 {object} Response{data=domain.Quotation} "Status changed"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Quotation not found"
// @Failure 409 {object} ErrorResponseBody "Transition not allowed"
// @Security BearerAuth
// @Router /quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	quotationID, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	var input service.QuotationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	quotation, err := h.quotationService.UpdateStatus(c.Request.Context(), quotationID, input.Status)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, quotation)
}

// Delete handles DELETE /api/v1/quotations/:id
// @Summary Delete a quotation
// @Description Invoiced quotations cannot be deleted
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Quotation deleted"
// @Failure 404 {object} ErrorResponseBody "Quotation not found"
// @Failure 409 {object} ErrorResponseBody "Quotation has been invoiced"
// @Security BearerAuth
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	quotationID, ok := parseID(c, "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), quotationID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "quotation deleted"})
}

// PDF handles GET /api/v1/quotations/:id/pdf
// @Summary Download quotation PDF
// @Tags quotations
// @Produce application/pdf
// @Param id path string true "Quotation ID (UUID)"
// @Success 200 {file} file "PDF document"
// @Failure 404 {object} ErrorResponseBody "Quotation not found"
// @Security BearerAuth
// @Router /quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *gin.Context) {
	renderPDF(c, h.exportService, domain.KindQuotation)
}

// Send handles POST /api/v1/quotations/:id/send
// @Summary Email a quotation to its client
// @Description Renders the PDF, archives it, emails a download link and marks a draft as sent
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID (UUID)"
// @Success 200 {object} Response{data=service.SendResult} "Quotation sent"
// @Failure 404 {object} ErrorResponseBody "Quotation not found"
// @Failure 422 {object} ErrorResponseBody "Client has no email"
// @Failure 502 {object} ErrorResponseBody "Delivery failed"
// @Security BearerAuth
// @Router /quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *gin.Context) {
	sendDocument(c, h.exportService, domain.KindQuotation)
}

// Export handles GET /api/v1/quotations/export
// @Summary Export the quotation register
// @Tags quotations
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Register"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Security BearerAuth
// @Router /quotations/export [get]
func (h *QuotationHandler) Export(c *gin.Context) {
	exportRegister(c, h.exportService, domain.KindQuotation)
}
