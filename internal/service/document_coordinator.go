package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
	"quotely/internal/numbering"
	"quotely/internal/port"
	"quotely/internal/totals"
)

const dateLayout = "2006-01-02"

// LineItemInput is one requested document line. UnitPrice and TaxRate
// override the catalog values when present.
type LineItemInput struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" swaggertype:"string" example:"2"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string" example:"100.00"`
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty" swaggertype:"string" example:"18"`
}

// DocumentInput carries the fields shared by quotation and invoice writes.
type DocumentInput struct {
	ClientID      uuid.UUID           `json:"client_id"`
	Items         []LineItemInput     `json:"items" binding:"dive"`
	DiscountType  domain.DiscountType `json:"discount_type" binding:"omitempty,discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value" swaggertype:"string" example:"0"`
	Notes         string              `json:"notes"`
	Terms         string              `json:"terms"`
}

func (in DocumentInput) discount() domain.Discount {
	return domain.Discount{Type: in.DiscountType.Normalize(), Value: in.DiscountValue}
}

// itemLookup resolves catalog items by ID, returning only those that exist.
type itemLookup func(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error)

// pricedDocument is a validated, priced set of lines ready to persist.
type pricedDocument struct {
	lines    []domain.LineItem
	totals   totals.Totals
	discount domain.Discount
}

// DocumentCoordinator prices, numbers and persists documents atomically.
// Quotation and invoice services share one instance.
type DocumentCoordinator struct {
	store port.DocumentStore
	scope domain.NumberingScope
	now   func() time.Time
}

// NewDocumentCoordinator creates a coordinator. now defaults to time.Now.
func NewDocumentCoordinator(store port.DocumentStore, scope domain.NumberingScope, now func() time.Time) *DocumentCoordinator {
	if now == nil {
		now = time.Now
	}
	if scope == "" {
		scope = domain.NumberingYearly
	}
	return &DocumentCoordinator{store: store, scope: scope, now: now}
}

// checkInput rejects malformed input before any transaction is opened.
func checkInput(authorID uuid.UUID, in DocumentInput) error {
	if authorID == uuid.Nil {
		return fmt.Errorf("%w: author is required", domain.ErrInvalidInput)
	}
	return checkLines(in)
}

func checkLines(in DocumentInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", domain.ErrInvalidInput)
	}
	for i, li := range in.Items {
		if li.ItemID == uuid.Nil {
			return fmt.Errorf("%w: items[%d].item_id is required", domain.ErrInvalidInput, i)
		}
		if !li.Quantity.IsPositive() {
			return fmt.Errorf("%w: items[%d].quantity must be positive", domain.ErrInvalidInput, i)
		}
	}
	return nil
}

// price resolves each line against the catalog and runs the totals calculator.
func price(ctx context.Context, lookup itemLookup, in DocumentInput) (*pricedDocument, error) {
	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, li := range in.Items {
		ids = append(ids, li.ItemID)
	}
	catalog, err := lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.LineItem, len(in.Items))
	calc := make([]totals.Line, len(in.Items))
	for i, li := range in.Items {
		item, ok := catalog[li.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, li.ItemID)
		}
		line := totals.Line{Quantity: li.Quantity, UnitPrice: item.UnitPrice, TaxRate: item.TaxRate}
		if li.UnitPrice != nil {
			line.UnitPrice = *li.UnitPrice
		}
		if li.TaxRate != nil {
			line.TaxRate = *li.TaxRate
		}
		calc[i] = line
		lines[i] = domain.LineItem{
			ItemID:          li.ItemID,
			Position:        i + 1,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			TaxRate:         line.TaxRate,
			Amount:          line.Amount(),
			ItemName:        item.Name,
			ItemDescription: item.Description,
			ItemUnit:        item.Unit,
		}
	}

	discount := in.discount()
	t, err := totals.Calculate(calc, discount)
	if err != nil {
		return nil, err
	}
	return &pricedDocument{lines: lines, totals: t, discount: discount}, nil
}

// priceInTx validates the client and prices the document inside tx.
func priceInTx(ctx context.Context, tx port.DocumentTx, in DocumentInput) (*pricedDocument, error) {
	if in.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput)
	}
	ok, err := tx.ClientExists(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return price(ctx, tx.GetItems, in)
}

// assignNumber numbers a new document and runs insert with it. A conflicting
// number is retried once with the next sequence value before surfacing.
func (c *DocumentCoordinator) assignNumber(ctx context.Context, tx port.DocumentTx, kind domain.DocumentKind, insert func(number string) error) error {
	year := c.now().Year()
	seqYear := numbering.SequenceYear(c.scope, year)
	for attempt := 1; ; attempt++ {
		existing, err := tx.NextSequence(ctx, kind, seqYear)
		if err != nil {
			return err
		}
		number := numbering.Next(kind, year, existing)
		err = insert(number)
		if errors.Is(err, domain.ErrNumberConflict) && attempt == 1 {
			log.Printf("documentCoordinator.assignNumber: %s %s taken, retrying", kind, number)
			continue
		}
		return err
	}
}

// CreateQuotation persists a new draft quotation with its line items.
func (c *DocumentCoordinator) CreateQuotation(ctx context.Context, authorID uuid.UUID, in DocumentInput, validUntil *time.Time) (*domain.Quotation, error) {
	if err := checkInput(authorID, in); err != nil {
		return nil, err
	}

	var created *domain.Quotation
	err := c.store.WithinTx(ctx, func(tx port.DocumentTx) error {
		doc, err := priceInTx(ctx, tx, in)
		if err != nil {
			return err
		}

		q := &domain.Quotation{
			ClientID:   in.ClientID,
			UserID:     authorID,
			Status:     domain.QuotationStatusDraft,
			Notes:      in.Notes,
			Terms:      in.Terms,
			ValidUntil: validUntil,
		}
		doc.totals.Apply(&q.DocumentTotals, doc.discount)

		err = c.assignNumber(ctx, tx, domain.KindQuotation, func(number string) error {
			q.Number = number
			return tx.InsertQuotation(ctx, q)
		})
		if err != nil {
			return err
		}
		if err := tx.InsertLineItems(ctx, domain.KindQuotation, q.ID, doc.lines); err != nil {
			return err
		}
		q.Items = doc.lines
		created = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReplaceQuotation rewrites a draft quotation in place. The number and status are kept.
func (c *DocumentCoordinator) ReplaceQuotation(ctx context.Context, quotationID, authorID uuid.UUID, in DocumentInput, validUntil *time.Time) (*domain.Quotation, error) {
	if err := checkInput(authorID, in); err != nil {
		return nil, err
	}

	var updated *domain.Quotation
	err := c.store.WithinTx(ctx, func(tx port.DocumentTx) error {
		q, err := tx.GetQuotationForUpdate(ctx, quotationID)
		if err != nil {
			return err
		}
		if q.Status != domain.QuotationStatusDraft {
			return domain.ErrQuotationNotEditable
		}

		doc, err := priceInTx(ctx, tx, in)
		if err != nil {
			return err
		}

		q.ClientID = in.ClientID
		q.Notes = in.Notes
		q.Terms = in.Terms
		q.ValidUntil = validUntil
		doc.totals.Apply(&q.DocumentTotals, doc.discount)

		if err := tx.UpdateQuotation(ctx, q); err != nil {
			return err
		}
		if err := tx.DeleteLineItems(ctx, domain.KindQuotation, q.ID); err != nil {
			return err
		}
		if err := tx.InsertLineItems(ctx, domain.KindQuotation, q.ID, doc.lines); err != nil {
			return err
		}
		q.Items = doc.lines
		updated = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TransitionQuotation moves a quotation along its status lifecycle.
func (c *DocumentCoordinator) TransitionQuotation(ctx context.Context, quotationID uuid.UUID, next domain.QuotationStatus) (*domain.Quotation, error) {
	if !domain.ValidQuotationStatuses[next] {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, next)
	}

	var result *domain.Quotation
	err := c.store.WithinTx(ctx, func(tx port.DocumentTx) error {
		q, err := tx.GetQuotationForUpdate(ctx, quotationID)
		if err != nil {
			return err
		}
		if q.Status == next {
			result = q
			return nil
		}
		if !q.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, q.Status, next)
		}
		if err := tx.SetQuotationStatus(ctx, q.ID, next); err != nil {
			return err
		}
		q.Status = next
		result = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateInvoice persists a new invoice. When quotationID is set the client
// defaults to the quotation's, must match it if given, and the quotation is
// approved in the same transaction.
func (c *DocumentCoordinator) CreateInvoice(ctx context.Context, authorID uuid.UUID, in DocumentInput, quotationID *uuid.UUID, dueDate *time.Time) (*domain.Invoice, error) {
	if err := checkInput(authorID, in); err != nil {
		return nil, err
	}

	var created *domain.Invoice
	err := c.store.WithinTx(ctx, func(tx port.DocumentTx) error {
		var origin *domain.Quotation
		if quotationID != nil {
			q, err := tx.GetQuotationForUpdate(ctx, *quotationID)
			if err != nil {
				return err
			}
			if q.Status == domain.QuotationStatusRejected {
				return domain.ErrQuotationRejected
			}
			if in.ClientID == uuid.Nil {
				in.ClientID = q.ClientID
			} else if in.ClientID != q.ClientID {
				return fmt.Errorf("%w: client_id does not match quotation %s", domain.ErrInvalidInput, q.Number)
			}
			origin = q
		}

		doc, err := priceInTx(ctx, tx, in)
		if err != nil {
			return err
		}

		inv := &domain.Invoice{
			QuotationID: quotationID,
			ClientID:    in.ClientID,
			UserID:      authorID,
			PaidAmount:  decimal.Zero,
			Notes:       in.Notes,
			Terms:       in.Terms,
			DueDate:     dueDate,
		}
		doc.totals.Apply(&inv.DocumentTotals, doc.discount)
		inv.PaymentStatus = domain.PaymentStatusFor(inv.PaidAmount, inv.TotalAmount)

		err = c.assignNumber(ctx, tx, domain.KindInvoice, func(number string) error {
			inv.Number = number
			return tx.InsertInvoice(ctx, inv)
		})
		if err != nil {
			return err
		}
		if err := tx.InsertLineItems(ctx, domain.KindInvoice, inv.ID, doc.lines); err != nil {
			return err
		}
		if origin != nil && origin.Status != domain.QuotationStatusApproved {
			if err := tx.SetQuotationStatus(ctx, origin.ID, domain.QuotationStatusApproved); err != nil {
				return err
			}
		}
		inv.Items = doc.lines
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetPaidAmount overwrites an invoice's paid amount. A supplied status must
// agree with the status derived from the amount.
func (c *DocumentCoordinator) SetPaidAmount(ctx context.Context, invoiceID uuid.UUID, paid decimal.Decimal, status domain.PaymentStatus) (*domain.Invoice, error) {
	if paid.IsNegative() {
		return nil, fmt.Errorf("%w: paid_amount must not be negative", domain.ErrInvalidInput)
	}
	if status != "" && !domain.ValidPaymentStatuses[status] {
		return nil, fmt.Errorf("%w: unknown payment_status %q", domain.ErrInvalidInput, status)
	}

	var result *domain.Invoice
	err := c.store.WithinTx(ctx, func(tx port.DocumentTx) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if paid.GreaterThan(inv.TotalAmount) {
			return domain.ErrPaymentExceedsTotal
		}
		derived := domain.PaymentStatusFor(paid, inv.TotalAmount)
		if status != "" && status != derived {
			return fmt.Errorf("%w: %s implies %s", domain.ErrPaymentStatusMismatch, paid.String(), derived)
		}
		if err := tx.UpdateInvoicePayment(ctx, inv.ID, paid, derived); err != nil {
			return err
		}
		inv.PaidAmount = paid
		inv.PaymentStatus = derived
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordPayment stores a payment and adds it to the invoice's paid amount.
func (c *DocumentCoordinator) RecordPayment(ctx context.Context, payment *domain.Payment) (*domain.Invoice, error) {
	if !payment.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidInput)
	}

	var result *domain.Invoice
	err := c.store.WithinTx(ctx, func(tx port.DocumentTx) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, payment.InvoiceID)
		if err != nil {
			return err
		}
		paid := inv.PaidAmount.Add(payment.Amount)
		if paid.GreaterThan(inv.TotalAmount) {
			return fmt.Errorf("%w: outstanding balance is %s", domain.ErrPaymentExceedsTotal, inv.Outstanding().String())
		}
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}
		status := domain.PaymentStatusFor(paid, inv.TotalAmount)
		if err := tx.UpdateInvoicePayment(ctx, inv.ID, paid, status); err != nil {
			return err
		}
		inv.PaidAmount = paid
		inv.PaymentStatus = status
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parseDate parses an optional YYYY-MM-DD field.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return &t, nil
}
