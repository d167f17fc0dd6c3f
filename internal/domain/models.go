package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a staff member who can sign in.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Client is a customer that quotations and invoices are addressed to.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	GSTIN     string    `db:"gstin" json:"gstin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Item is a catalog entry. Documents copy its price and tax rate at creation time.
type Item struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Unit        string          `db:"unit" json:"unit"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Discount is the tagged discount descriptor of a document.
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// LineItem is one priced row of a quotation or invoice.
type LineItem struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	ItemID     uuid.UUID       `db:"item_id" json:"item_id"`
	Position   int             `db:"position" json:"position"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	TaxRate    decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`

	// Populated from the catalog on reads.
	ItemName        string `db:"item_name" json:"name,omitempty"`
	ItemDescription string `db:"item_description" json:"description,omitempty"`
	ItemUnit        string `db:"item_unit" json:"unit,omitempty"`
}

// DocumentTotals holds the discount descriptor and the computed money columns
// shared by quotations and invoices.
type DocumentTotals struct {
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountType  DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue decimal.Decimal `db:"discount_value" json:"discount_value"`
	TaxAmount     decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
}

// Discount returns the discount descriptor.
func (t DocumentTotals) Discount() Discount {
	return Discount{Type: t.DiscountType.Normalize(), Value: t.DiscountValue}
}

// DiscountAmount derives the applied discount from the stored totals.
func (t DocumentTotals) DiscountAmount() decimal.Decimal {
	return t.Subtotal.Add(t.TaxAmount).Sub(t.TotalAmount)
}

// PaymentStatusFor maps a paid amount onto the invoice settlement state.
func PaymentStatusFor(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentStatusPaid
	case paid.IsZero():
		return PaymentStatusPending
	default:
		return PaymentStatusPartiallyPaid
	}
}

// Quotation is a priced offer sent to a client.
type Quotation struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Number     string          `db:"quotation_number" json:"quotation_number"`
	ClientID   uuid.UUID       `db:"client_id" json:"client_id"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	Status     QuotationStatus `db:"status" json:"status"`
	Notes      string          `db:"notes" json:"notes"`
	Terms      string          `db:"terms" json:"terms"`
	ValidUntil *time.Time      `db:"valid_until" json:"valid_until"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
	DocumentTotals

	ClientName string     `db:"client_name" json:"client_name,omitempty"`
	Client     *Client    `db:"-" json:"client,omitempty"`
	Items      []LineItem `db:"-" json:"items,omitempty"`
}

// Invoice is a bill issued to a client, optionally derived from a quotation.
type Invoice struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Number        string          `db:"invoice_number" json:"invoice_number"`
	QuotationID   *uuid.UUID      `db:"quotation_id" json:"quotation_id"`
	ClientID      uuid.UUID       `db:"client_id" json:"client_id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	PaidAmount    decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	Notes         string          `db:"notes" json:"notes"`
	Terms         string          `db:"terms" json:"terms"`
	DueDate       *time.Time      `db:"due_date" json:"due_date"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	DocumentTotals

	ClientName string     `db:"client_name" json:"client_name,omitempty"`
	Client     *Client    `db:"-" json:"client,omitempty"`
	Items      []LineItem `db:"-" json:"items,omitempty"`
}

// Outstanding returns the unpaid balance.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// Payment records money received against an invoice.
type Payment struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	InvoiceID       uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	PaymentDate     time.Time       `db:"payment_date" json:"payment_date"`
	ReferenceNumber string          `db:"reference_number" json:"reference_number"`
	Notes           string          `db:"notes" json:"notes"`
	RecordedBy      uuid.UUID       `db:"recorded_by" json:"recorded_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// CompanySettings is the single-row letterhead printed on exports.
type CompanySettings struct {
	CompanyName string    `db:"company_name" json:"company_name"`
	Tagline     string    `db:"tagline" json:"tagline"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Address     string    `db:"address" json:"address"`
	GSTIN       string    `db:"gstin" json:"gstin"`
	Currency    string    `db:"currency" json:"currency"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterEntry is one row of a quotation or invoice register export.
type RegisterEntry struct {
	Kind           DocumentKind
	Number         string
	ClientName     string
	Status         string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	DateLabel      string
	Date           *time.Time
	CreatedAt      time.Time
}

// Stats holds dashboard aggregates.
type Stats struct {
	TotalClients       int             `db:"total_clients" json:"total_clients"`
	TotalItems         int             `db:"total_items" json:"total_items"`
	TotalQuotations    int             `db:"total_quotations" json:"total_quotations"`
	QuotationsDraft    int             `db:"quotations_draft" json:"quotations_draft"`
	QuotationsSent     int             `db:"quotations_sent" json:"quotations_sent"`
	QuotationsApproved int             `db:"quotations_approved" json:"quotations_approved"`
	QuotationsRejected int             `db:"quotations_rejected" json:"quotations_rejected"`
	TotalInvoices      int             `db:"total_invoices" json:"total_invoices"`
	InvoicesPending    int             `db:"invoices_pending" json:"invoices_pending"`
	InvoicesPartial    int             `db:"invoices_partially_paid" json:"invoices_partially_paid"`
	InvoicesPaid       int             `db:"invoices_paid" json:"invoices_paid"`
	TotalInvoiced      decimal.Decimal `db:"total_invoiced" json:"total_invoiced"`
	TotalReceived      decimal.Decimal `db:"total_received" json:"total_received"`
	Outstanding        decimal.Decimal `db:"outstanding" json:"outstanding"`
}
