package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
)

// QuotationFilter narrows quotation listings. Zero values match everything.
type QuotationFilter struct {
	Status   domain.QuotationStatus
	ClientID uuid.UUID
}

// InvoiceFilter narrows invoice listings. Zero values match everything.
type InvoiceFilter struct {
	PaymentStatus domain.PaymentStatus
	ClientID      uuid.UUID
}

// QuotationRepository provides non-transactional quotation reads and deletes.
type QuotationRepository interface {
	// GetByID returns the header joined with client fields and its line items.
	GetByID(ctx context.Context, quotationID uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, filter QuotationFilter, offset, limit int) ([]domain.Quotation, int, error)
	Delete(ctx context.Context, quotationID uuid.UUID) error
}

// InvoiceRepository provides non-transactional invoice reads and deletes.
type InvoiceRepository interface {
	GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error)
	Delete(ctx context.Context, invoiceID uuid.UUID) error
}

// DocumentStore runs document writes inside one transaction. fn's changes are
// committed only when it returns nil; any error rolls everything back.
type DocumentStore interface {
	WithinTx(ctx context.Context, fn func(tx DocumentTx) error) error
}

// DocumentTx is the set of operations composable within one DocumentStore transaction.
type DocumentTx interface {
	ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error)
	// GetItems returns the referenced catalog items that exist, keyed by ID.
	GetItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error)

	// NextSequence reserves a slot in the kind/year counter and returns how many
	// documents were numbered before it. The counter row stays locked until commit.
	NextSequence(ctx context.Context, kind domain.DocumentKind, year int) (int, error)

	// InsertQuotation and InsertInvoice assign IDs and timestamps. A duplicate
	// document number yields domain.ErrNumberConflict and leaves the transaction usable.
	InsertQuotation(ctx context.Context, q *domain.Quotation) error
	InsertInvoice(ctx context.Context, inv *domain.Invoice) error
	InsertLineItems(ctx context.Context, kind domain.DocumentKind, documentID uuid.UUID, items []domain.LineItem) error
	DeleteLineItems(ctx context.Context, kind domain.DocumentKind, documentID uuid.UUID) error

	GetQuotationForUpdate(ctx context.Context, quotationID uuid.UUID) (*domain.Quotation, error)
	UpdateQuotation(ctx context.Context, q *domain.Quotation) error
	SetQuotationStatus(ctx context.Context, quotationID uuid.UUID, status domain.QuotationStatus) error

	GetInvoiceForUpdate(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error)
	UpdateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, paid decimal.Decimal, status domain.PaymentStatus) error
	InsertPayment(ctx context.Context, payment *domain.Payment) error
}
