package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"quotely/internal/domain"
	"quotely/internal/handler"
	"quotely/internal/service"
	"quotely/mocks"
)

// --- Clients ---

func TestClientHandler_Create(t *testing.T) {
	mockSvc := new(mocks.MockClientService)
	h := handler.NewClientHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.ClientInput) bool {
		return in.Name == "Acme Industries" && in.GSTIN == "27aapfu0939f1zv"
	})).Return(&domain.Client{ID: uuid.New(), Name: "Acme Industries", GSTIN: "27AAPFU0939F1ZV"}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/clients", map[string]string{
		"name": "Acme Industries", "email": "buyer@acme.test", "gstin": "27aapfu0939f1zv",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_Create_InvalidGSTIN(t *testing.T) {
	mockSvc := new(mocks.MockClientService)
	h := handler.NewClientHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/api/v1/clients", map[string]string{
		"name": "Acme Industries", "gstin": "GST123",
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClientHandler_List_Search(t *testing.T) {
	mockSvc := new(mocks.MockClientService)
	h := handler.NewClientHandler(mockSvc)
	mockSvc.On("List", mock.Anything, "acme", 10, 5).Return([]domain.Client{{Name: "Acme"}}, 11, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/clients?search=acme&offset=10&limit=5", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 11, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Offset)
	mockSvc.AssertExpectations(t)
}

func TestClientHandler_Delete_InUse(t *testing.T) {
	mockSvc := new(mocks.MockClientService)
	h := handler.NewClientHandler(mockSvc)
	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(domain.ErrClientInUse)

	c, w := newTestContext(http.MethodDelete, "/api/v1/clients/"+id.String(), nil)
	withID(c, id.String())
	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CLIENT_IN_USE", decodeResponse(t, w).Error.Code)
}

func TestClientHandler_GetByID_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockClientService)
	h := handler.NewClientHandler(mockSvc)
	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrClientNotFound)

	c, w := newTestContext(http.MethodGet, "/api/v1/clients/"+id.String(), nil)
	withID(c, id.String())
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Items ---

func TestItemHandler_Create_DecimalStrings(t *testing.T) {
	mockSvc := new(mocks.MockItemService)
	h := handler.NewItemHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.ItemInput) bool {
		return in.UnitPrice.Equal(decimal.RequireFromString("1250.50")) && in.TaxRate == nil
	})).Return(&domain.Item{ID: uuid.New(), Name: "Pump"}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/items", map[string]string{
		"name": "Pump", "unit_price": "1250.50",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestItemHandler_Update_InvalidInput(t *testing.T) {
	mockSvc := new(mocks.MockItemService)
	h := handler.NewItemHandler(mockSvc)
	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.Anything).
		Return(nil, domain.ErrInvalidInput)

	c, w := newTestContext(http.MethodPut, "/api/v1/items/"+id.String(), map[string]string{
		"name": "Pump", "unit_price": "-1",
	})
	withID(c, id.String())
	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itemWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/items/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestItemHandler_Import(t *testing.T) {
	mockSvc := new(mocks.MockItemService)
	h := handler.NewItemHandler(mockSvc)

	data := itemWorkbook(t, [][]interface{}{
		{"Name", "Description", "Unit Price", "GST %", "Unit"},
		{"Grease Pump", "Manual", "1,250.50", "18", "nos"},
		{"Hose", "", "50", "", "m"},
	})
	mockSvc.On("Import", mock.Anything, mock.MatchedBy(func(in []service.ItemInput) bool {
		return len(in) == 2 &&
			in[0].Name == "Grease Pump" && in[0].UnitPrice.Equal(decimal.RequireFromString("1250.50")) &&
			in[0].TaxRate != nil && in[1].TaxRate == nil && in[1].Unit == "m"
	})).Return(2, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "file", "items.xlsx", data)
	h.Import(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, float64(2), resp.Data.(map[string]interface{})["imported"])
	mockSvc.AssertExpectations(t)
}

func TestItemHandler_Import_MissingFile(t *testing.T) {
	h := handler.NewItemHandler(new(mocks.MockItemService))

	c, w := newTestContext(http.MethodPost, "/api/v1/items/import", nil)
	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeResponse(t, w).Error.Code)
}

func TestItemHandler_Import_NotAWorkbook(t *testing.T) {
	mockSvc := new(mocks.MockItemService)
	h := handler.NewItemHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "file", "items.xlsx", []byte("name,price\npump,10\n"))
	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_WORKBOOK", decodeResponse(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
}
