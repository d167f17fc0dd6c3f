package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotely/internal/domain"
	"quotely/internal/middleware"
)

// numberConflictRetryAfter is the Retry-After hint, in seconds, sent with a
// document number conflict.
const numberConflictRetryAfter = 1

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Specific not-found errors are checked before the generic ErrNotFound they wrap.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "CLIENT_NOT_FOUND", "client not found"
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "ITEM_NOT_FOUND", "item not found"
	case errors.Is(err, domain.ErrQuotationNotFound):
		return http.StatusNotFound, "QUOTATION_NOT_FOUND", "quotation not found"
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", "insufficient role for this action"
	case errors.Is(err, domain.ErrNumberConflict):
		return http.StatusConflict, "NUMBER_CONFLICT", "document number was taken concurrently; retry the request"
	case errors.Is(err, domain.ErrClientInUse):
		return http.StatusConflict, "CLIENT_IN_USE", "client is referenced by existing documents"
	case errors.Is(err, domain.ErrItemInUse):
		return http.StatusConflict, "ITEM_IN_USE", "item is referenced by existing documents"
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, "INVALID_STATUS_TRANSITION", "quotation status transition is not allowed"
	case errors.Is(err, domain.ErrQuotationNotEditable):
		return http.StatusConflict, "QUOTATION_NOT_EDITABLE", "only draft quotations can be edited"
	case errors.Is(err, domain.ErrQuotationInvoiced):
		return http.StatusConflict, "QUOTATION_INVOICED", "quotation has already been invoiced"
	case errors.Is(err, domain.ErrQuotationRejected):
		return http.StatusConflict, "QUOTATION_REJECTED", "rejected quotations cannot be invoiced"
	case errors.Is(err, domain.ErrPaymentExceedsTotal):
		return http.StatusBadRequest, "PAYMENT_EXCEEDS_TOTAL", "paid amount exceeds invoice total"
	case errors.Is(err, domain.ErrPaymentStatusMismatch):
		return http.StatusBadRequest, "PAYMENT_STATUS_MISMATCH", "payment status does not match paid amount"
	case errors.Is(err, domain.ErrClientEmailMissing):
		return http.StatusUnprocessableEntity, "CLIENT_EMAIL_MISSING", "client has no email address"
	case errors.Is(err, domain.ErrExportFailed):
		return http.StatusBadGateway, "EXPORT_FAILED", "document could not be rendered or delivered"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return http.StatusInternalServerError, "PERSISTENCE_FAILURE", "the change could not be saved"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractUserID reads the signed-in user from the request context.
// Returns false if auth context is missing (error response already written).
func extractUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, false
	}
	return userID, true
}

// parseID parses the :id path parameter. Returns false if it is not a UUID
// (error response already written).
func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUIDQuery parses an optional UUID query parameter.
func parseOptionalUUIDQuery(c *gin.Context, key string) (uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	if errors.Is(err, domain.ErrNumberConflict) {
		c.Header("Retry-After", strconv.Itoa(numberConflictRetryAfter))
	}
	RespondError(c, status, code, msg)
}
