package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInsufficientRole   = errors.New("insufficient role for this action")
)

// Document core errors. Callers wrap ErrInvalidInput with a field-level detail.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNumberConflict     = errors.New("document number conflict")
	ErrPersistenceFailure = errors.New("persistence failure")
)

var (
	ErrClientNotFound          = wrapNotFound("client not found")
	ErrItemNotFound            = wrapNotFound("item not found")
	ErrQuotationNotFound       = wrapNotFound("quotation not found")
	ErrInvoiceNotFound         = wrapNotFound("invoice not found")
	ErrClientInUse             = errors.New("client is referenced by existing documents")
	ErrItemInUse               = errors.New("item is referenced by existing documents")
	ErrInvalidStatusTransition = errors.New("invalid quotation status transition")
	ErrQuotationNotEditable    = errors.New("only draft quotations can be edited")
	ErrQuotationInvoiced       = errors.New("quotation has already been invoiced")
	ErrQuotationRejected       = errors.New("rejected quotations cannot be invoiced")
	ErrPaymentExceedsTotal     = errors.New("paid amount exceeds invoice total")
	ErrPaymentStatusMismatch   = errors.New("payment status does not match paid amount")
	ErrClientEmailMissing      = errors.New("client has no email address")
	ErrExportFailed            = errors.New("document export failed")
)

// notFoundError is a specific not-found error that also matches ErrNotFound.
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

func wrapNotFound(msg string) error {
	return &notFoundError{msg: msg}
}
