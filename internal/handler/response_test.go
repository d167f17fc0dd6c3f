package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"quotely/internal/domain"
	"quotely/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", fmt.Errorf("%w: items[0].quantity must be positive", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"client not found", domain.ErrClientNotFound, http.StatusNotFound, "CLIENT_NOT_FOUND"},
		{"item not found wrapped", fmt.Errorf("create: %w", domain.ErrItemNotFound), http.StatusNotFound, "ITEM_NOT_FOUND"},
		{"quotation not found", domain.ErrQuotationNotFound, http.StatusNotFound, "QUOTATION_NOT_FOUND"},
		{"invoice not found", domain.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{"generic not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"user inactive", domain.ErrUserInactive, http.StatusForbidden, "USER_INACTIVE"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"number conflict", domain.ErrNumberConflict, http.StatusConflict, "NUMBER_CONFLICT"},
		{"client in use", domain.ErrClientInUse, http.StatusConflict, "CLIENT_IN_USE"},
		{"item in use", domain.ErrItemInUse, http.StatusConflict, "ITEM_IN_USE"},
		{"bad transition", domain.ErrInvalidStatusTransition, http.StatusConflict, "INVALID_STATUS_TRANSITION"},
		{"not editable", domain.ErrQuotationNotEditable, http.StatusConflict, "QUOTATION_NOT_EDITABLE"},
		{"already invoiced", domain.ErrQuotationInvoiced, http.StatusConflict, "QUOTATION_INVOICED"},
		{"rejected", domain.ErrQuotationRejected, http.StatusConflict, "QUOTATION_REJECTED"},
		{"overpayment", domain.ErrPaymentExceedsTotal, http.StatusBadRequest, "PAYMENT_EXCEEDS_TOTAL"},
		{"status mismatch", domain.ErrPaymentStatusMismatch, http.StatusBadRequest, "PAYMENT_STATUS_MISMATCH"},
		{"email missing", domain.ErrClientEmailMissing, http.StatusUnprocessableEntity, "CLIENT_EMAIL_MISSING"},
		{"export failed", fmt.Errorf("%w: %w", domain.ErrExportFailed, errors.New("ses down")), http.StatusBadGateway, "EXPORT_FAILED"},
		{"persistence", fmt.Errorf("%w: insert", domain.ErrPersistenceFailure), http.StatusInternalServerError, "PERSISTENCE_FAILURE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapDomainError_InvalidInputKeepsDetail(t *testing.T) {
	_, _, msg := handler.MapDomainError(fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput))

	assert.Contains(t, msg, "client_id is required")
}

func TestHandleError_NumberConflictSetsRetryAfter(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "/api/v1/quotations", nil)

	handler.HandleError(c, fmt.Errorf("create quotation: %w", domain.ErrNumberConflict))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "NUMBER_CONFLICT", resp.Error.Code)
}

func TestHandleError_OtherErrorsHaveNoRetryAfter(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/api/v1/quotations/x", nil)

	handler.HandleError(c, domain.ErrQuotationNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
}
