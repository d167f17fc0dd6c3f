package domain

// UserRole defines what a staff member may do.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// ValidUserRoles contains the accepted role values.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:    true,
	RoleEmployee: true,
}

// DocumentKind distinguishes the two document families that share numbering and totals.
type DocumentKind string

const (
	KindQuotation DocumentKind = "quotation"
	KindInvoice   DocumentKind = "invoice"
)

// Prefix returns the document-number prefix for the kind.
func (k DocumentKind) Prefix() string {
	switch k {
	case KindQuotation:
		return "QT"
	case KindInvoice:
		return "INV"
	default:
		return ""
	}
}

// Title returns the human label printed on exported documents.
func (k DocumentKind) Title() string {
	switch k {
	case KindQuotation:
		return "Quotation"
	case KindInvoice:
		return "Invoice"
	default:
		return "Document"
	}
}

// ValidDocumentKinds contains the accepted document kinds.
var ValidDocumentKinds = map[DocumentKind]bool{
	KindQuotation: true,
	KindInvoice:   true,
}

// QuotationStatus is the lifecycle of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// ValidQuotationStatuses contains the accepted quotation statuses.
var ValidQuotationStatuses = map[QuotationStatus]bool{
	QuotationStatusDraft:    true,
	QuotationStatusSent:     true,
	QuotationStatusApproved: true,
	QuotationStatusRejected: true,
}

// quotationTransitions lists the statuses reachable from each status.
// Approved and rejected are terminal.
var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationStatusDraft: {QuotationStatusSent, QuotationStatusApproved, QuotationStatusRejected},
	QuotationStatusSent:  {QuotationStatusApproved, QuotationStatusRejected},
}

// CanTransitionTo reports whether a quotation may move from s to next.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	for _, allowed := range quotationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
)

// ValidPaymentStatuses contains the accepted payment statuses.
var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusPending:       true,
	PaymentStatusPartiallyPaid: true,
	PaymentStatusPaid:          true,
}

// DiscountType tags how a document discount is computed.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// ValidDiscountTypes contains the accepted discount types.
var ValidDiscountTypes = map[DiscountType]bool{
	DiscountNone:       true,
	DiscountPercentage: true,
	DiscountFixed:      true,
}

// Normalize maps the empty value (JSON null or omitted) to DiscountNone.
func (t DiscountType) Normalize() DiscountType {
	if t == "" {
		return DiscountNone
	}
	return t
}

// NumberingScope controls whether document sequences restart each calendar year.
type NumberingScope string

const (
	NumberingYearly   NumberingScope = "yearly"
	NumberingLifetime NumberingScope = "lifetime"
)

// ExportFormat identifies a register export format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
