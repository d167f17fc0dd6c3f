package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotely/internal/service"
	"quotely/internal/xlsxexport"
)

// maxImportSize bounds an uploaded item workbook.
const maxImportSize = 10 << 20

// ItemHandler handles catalog endpoints.
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create handles POST /api/v1/items
// @Summary Create a catalog item
// @Description Tax rate defaults to 18 and unit to "nos" when omitted
// @Tags items
// @Accept json
// @Produce json
// @Param request body service.ItemInput true "Item details"
// @Success 201 {object} Response{data=domain.Item} "Item created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, item)
}

// List handles GET /api/v1/items
// @Summary List catalog items
// @Tags items
// @Produce json
// @Param search query string false "Case-insensitive match on name or description"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Item,meta=PagMeta} "List of items"
// @Security BearerAuth
// @Router /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	items, total, err := h.itemService.List(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/items/:id
// @Summary Get catalog item by ID
// @Tags items
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Success 200 {object} Response{data=domain.Item} "Item details"
// @Failure 404 {object} ErrorResponseBody "Item not found"
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	itemID, ok := parseID(c, "item")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), itemID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, item)
}

// Update handles PUT /api/v1/items/:id
// @Summary Update a catalog item
// @Description Existing documents keep the prices they were created with
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Param request body service.ItemInput true "Item details"
// @Success 200 {object} Response{data=domain.Item} "Item updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Item not found"
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := parseID(c, "item")
	if !ok {
		return
	}

	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), itemID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, item)
}

// Delete handles DELETE /api/v1/items/:id
// @Summary Delete a catalog item
// @Tags items
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Item deleted"
// @Failure 404 {object} ErrorResponseBody "Item not found"
// @Failure 409 {object} ErrorResponseBody "Item in use"
// @Security BearerAuth
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := parseID(c, "item")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), itemID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "item deleted"})
}

// Import handles POST /api/v1/items/import
// @Summary Import catalog items from a workbook
// @Description Reads the first sheet of an XLSX file. Either every row is imported or none is.
// @Tags items
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Success 201 {object} Response{data=ImportResult} "Items imported"
// @Failure 400 {object} ErrorResponseBody "Unreadable workbook or invalid row"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /items/import [post]
func (h *ItemHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxImportSize {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	rows, err := xlsxexport.ReadItems(file)
	if err != nil {
		log.Printf("ItemHandler.Import: reading %s: %v", header.Filename, err)
		RespondError(c, http.StatusBadRequest, "INVALID_WORKBOOK", err.Error())
		return
	}
	if len(rows) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_WORKBOOK", "workbook contains no item rows")
		return
	}

	inputs := make([]service.ItemInput, len(rows))
	for i := range rows {
		inputs[i] = service.ItemInput{
			Name:        rows[i].Name,
			Description: rows[i].Description,
			UnitPrice:   rows[i].UnitPrice,
			TaxRate:     rows[i].TaxRate,
			Unit:        rows[i].Unit,
		}
	}

	n, err := h.itemService.Import(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, ImportResult{Imported: n})
}
