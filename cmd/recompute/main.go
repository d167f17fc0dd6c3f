// Command recompute checks the stored totals of every quotation and invoice
// against their line items and reports documents whose totals disagree.
// With -fix the stored subtotal, tax and total are overwritten with the
// recomputed values and invoice payment status is derived again. Documents
// whose line items or discount no longer produce a valid total, and invoices
// paid beyond the recomputed total, are logged and skipped.
// Usage: go run ./cmd/recompute [-fix]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"quotely/internal/config"
	"quotely/internal/domain"
	"quotely/internal/port"
	"quotely/internal/repository/postgres"
	"quotely/internal/totals"
)

const batchSize = 100

type document struct {
	kind   domain.DocumentKind
	id     uuid.UUID
	number string
	stored domain.DocumentTotals
	items  []domain.LineItem

	// invoices only
	paid   decimal.Decimal
	status domain.PaymentStatus
}

// correction is the state a document should be stored in.
type correction struct {
	totals totals.Totals
	status domain.PaymentStatus
}

// reconcile recomputes doc's totals under the same rules as document creation.
// It reports whether the stored values differ, or an error when the document
// cannot be corrected automatically.
func reconcile(doc document) (correction, bool, error) {
	lines := make([]totals.Line, len(doc.items))
	for i, li := range doc.items {
		lines[i] = totals.Line{Quantity: li.Quantity, UnitPrice: li.UnitPrice, TaxRate: li.TaxRate}
	}
	want, err := totals.Calculate(lines, doc.stored.Discount())
	if err != nil {
		return correction{}, false, err
	}

	fix := correction{totals: want}
	drifted := !want.Subtotal.Equal(doc.stored.Subtotal) ||
		!want.TaxAmount.Equal(doc.stored.TaxAmount) ||
		!want.TotalAmount.Equal(doc.stored.TotalAmount)

	if doc.kind == domain.KindInvoice {
		if doc.paid.GreaterThan(want.TotalAmount) {
			return correction{}, false, fmt.Errorf("paid amount %s exceeds recomputed total %s", doc.paid, want.TotalAmount)
		}
		fix.status = domain.PaymentStatusFor(doc.paid, want.TotalAmount)
		drifted = drifted || fix.status != doc.status
	}
	return fix, drifted, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	apply := flag.Bool("fix", false, "overwrite stored totals that disagree with the line items")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	quotationRepo := postgres.NewQuotationRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)

	checked, drifted, skipped := 0, 0, 0
	visit := func(doc document) error {
		checked++
		fix, changed, err := reconcile(doc)
		if err != nil {
			skipped++
			log.Printf("WARN: %s %s skipped: %v", doc.kind, doc.number, err)
			return nil
		}
		if !changed {
			return nil
		}

		drifted++
		log.Printf("%s %s: stored subtotal=%s tax=%s total=%s, recomputed subtotal=%s tax=%s total=%s",
			doc.kind, doc.number,
			doc.stored.Subtotal, doc.stored.TaxAmount, doc.stored.TotalAmount,
			fix.totals.Subtotal, fix.totals.TaxAmount, fix.totals.TotalAmount)
		if !*apply {
			return nil
		}
		return writeCorrection(ctx, db, doc, fix)
	}

	for offset := 0; ; offset += batchSize {
		page, total, err := quotationRepo.List(ctx, port.QuotationFilter{}, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing quotations at offset %d: %w", offset, err)
		}
		for i := range page {
			q, err := quotationRepo.GetByID(ctx, page[i].ID)
			if err != nil {
				return fmt.Errorf("loading quotation %s: %w", page[i].Number, err)
			}
			if err := visit(document{
				kind: domain.KindQuotation, id: q.ID, number: q.Number,
				stored: q.DocumentTotals, items: q.Items,
			}); err != nil {
				return err
			}
		}
		if offset+batchSize >= total {
			break
		}
	}

	for offset := 0; ; offset += batchSize {
		page, total, err := invoiceRepo.List(ctx, port.InvoiceFilter{}, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing invoices at offset %d: %w", offset, err)
		}
		for i := range page {
			inv, err := invoiceRepo.GetByID(ctx, page[i].ID)
			if err != nil {
				return fmt.Errorf("loading invoice %s: %w", page[i].Number, err)
			}
			if err := visit(document{
				kind: domain.KindInvoice, id: inv.ID, number: inv.Number,
				stored: inv.DocumentTotals, items: inv.Items,
				paid: inv.PaidAmount, status: inv.PaymentStatus,
			}); err != nil {
				return err
			}
		}
		if offset+batchSize >= total {
			break
		}
	}

	log.Printf("Checked %d documents, %d drifted, %d skipped (fix=%v)", checked, drifted, skipped, *apply)
	return nil
}

func writeCorrection(ctx context.Context, db *sqlx.DB, doc document, fix correction) error {
	var err error
	if doc.kind == domain.KindInvoice {
		_, err = db.ExecContext(ctx,
			`UPDATE invoices SET subtotal = $1, tax_amount = $2, total_amount = $3, payment_status = $4, updated_at = NOW() WHERE id = $5`,
			fix.totals.Subtotal, fix.totals.TaxAmount, fix.totals.TotalAmount, fix.status, doc.id)
	} else {
		_, err = db.ExecContext(ctx,
			`UPDATE quotations SET subtotal = $1, tax_amount = $2, total_amount = $3, updated_at = NOW() WHERE id = $4`,
			fix.totals.Subtotal, fix.totals.TaxAmount, fix.totals.TotalAmount, doc.id)
	}
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", doc.kind, doc.number, err)
	}
	return nil
}
