package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
	"quotely/internal/port"
)

type documentStore struct {
	db *sqlx.DB
}

// NewDocumentStore creates a PostgreSQL-backed DocumentStore.
func NewDocumentStore(db *sqlx.DB) port.DocumentStore {
	return &documentStore{db: db}
}

func (s *documentStore) WithinTx(ctx context.Context, fn func(tx port.DocumentTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: documentStore.WithinTx begin: %w", domain.ErrPersistenceFailure, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&documentTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: documentStore.WithinTx commit: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

type documentTx struct {
	tx *sqlx.Tx
}

// failed marks an unexpected database error as a persistence failure.
func failed(op string, err error) error {
	return fmt.Errorf("%w: documentTx.%s: %w", domain.ErrPersistenceFailure, op, err)
}

func (t *documentTx) ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)", clientID)
	if err != nil {
		return false, failed("ClientExists", err)
	}
	return exists, nil
}

func (t *documentTx) GetItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	items, err := selectItemsByIDs(ctx, t.tx, itemIDs)
	if err != nil {
		return nil, failed("GetItems", err)
	}
	return items, nil
}

// NextSequence increments the kind/year counter row. The first use of a row
// seeds it from the documents already numbered under that prefix so that
// existing data keeps its sequence. The row lock serializes concurrent
// creators until commit.
func (t *documentTx) NextSequence(ctx context.Context, kind domain.DocumentKind, year int) (int, error) {
	table, column := "quotations", "quotation_number"
	if kind == domain.KindInvoice {
		table, column = "invoices", "invoice_number"
	}
	pattern := kind.Prefix() + "-%"
	if year > 0 {
		pattern = fmt.Sprintf("%s-%d%%", kind.Prefix(), year)
	}

	query := fmt.Sprintf(`INSERT INTO document_sequences (kind, year, last_value)
		VALUES ($1, $2, (SELECT COUNT(*) FROM %s WHERE %s LIKE $3) + 1)
		ON CONFLICT (kind, year) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value - 1`, table, column)

	var existing int
	if err := t.tx.GetContext(ctx, &existing, query, kind, year, pattern); err != nil {
		return 0, failed("NextSequence", err)
	}
	return existing, nil
}

// insertNumbered runs a header insert under a savepoint so a duplicate
// number can be reported without aborting the transaction.
func (t *documentTx) insertNumbered(ctx context.Context, op, query string, args ...interface{}) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT document_number"); err != nil {
		return failed(op, err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT document_number"); rbErr != nil {
			return failed(op, rbErr)
		}
		switch {
		case isUniqueViolation(err):
			return domain.ErrNumberConflict
		case isForeignKeyViolation(err):
			return foreignKeyError(err)
		}
		return failed(op, err)
	}
	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT document_number"); err != nil {
		return failed(op, err)
	}
	return nil
}

func foreignKeyError(err error) error {
	switch constraintName(err) {
	case "quotations_client_id_fkey", "invoices_client_id_fkey":
		return domain.ErrClientNotFound
	case "invoices_quotation_id_fkey":
		return domain.ErrQuotationNotFound
	case "quotations_user_id_fkey", "invoices_user_id_fkey":
		return fmt.Errorf("%w: unknown author", domain.ErrInvalidInput)
	}
	return domain.ErrNotFound
}

func (t *documentTx) InsertQuotation(ctx context.Context, q *domain.Quotation) error {
	q.ID = uuid.New()
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	return t.insertNumbered(ctx, "InsertQuotation",
		`INSERT INTO quotations (id, quotation_number, client_id, user_id, status,
			subtotal, discount_type, discount_value, tax_amount, total_amount,
			notes, terms, valid_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		q.ID, q.Number, q.ClientID, q.UserID, q.Status,
		q.Subtotal, q.DiscountType, q.DiscountValue, q.TaxAmount, q.TotalAmount,
		q.Notes, q.Terms, q.ValidUntil, q.CreatedAt, q.UpdatedAt)
}

func (t *documentTx) InsertInvoice(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	return t.insertNumbered(ctx, "InsertInvoice",
		`INSERT INTO invoices (id, invoice_number, quotation_id, client_id, user_id,
			subtotal, discount_type, discount_value, tax_amount, total_amount,
			payment_status, paid_amount, notes, terms, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		inv.ID, inv.Number, inv.QuotationID, inv.ClientID, inv.UserID,
		inv.Subtotal, inv.DiscountType, inv.DiscountValue, inv.TaxAmount, inv.TotalAmount,
		inv.PaymentStatus, inv.PaidAmount, inv.Notes, inv.Terms, inv.DueDate, inv.CreatedAt, inv.UpdatedAt)
}

func (t *documentTx) InsertLineItems(ctx context.Context, kind domain.DocumentKind, documentID uuid.UUID, items []domain.LineItem) error {
	if err := insertLineItems(ctx, t.tx, kind, documentID, items); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return failed("InsertLineItems", err)
	}
	return nil
}

func (t *documentTx) DeleteLineItems(ctx context.Context, kind domain.DocumentKind, documentID uuid.UUID) error {
	table, parent := lineItemTable(kind)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, parent)
	if _, err := t.tx.ExecContext(ctx, query, documentID); err != nil {
		return failed("DeleteLineItems", err)
	}
	return nil
}

func (t *documentTx) GetQuotationForUpdate(ctx context.Context, quotationID uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := t.tx.GetContext(ctx, &q, "SELECT * FROM quotations WHERE id = $1 FOR UPDATE", quotationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, failed("GetQuotationForUpdate", err)
	}
	return &q, nil
}

func (t *documentTx) UpdateQuotation(ctx context.Context, q *domain.Quotation) error {
	q.UpdatedAt = time.Now().UTC()
	result, err := t.tx.ExecContext(ctx,
		`UPDATE quotations SET client_id = $1, subtotal = $2, discount_type = $3, discount_value = $4,
			tax_amount = $5, total_amount = $6, notes = $7, terms = $8, valid_until = $9, updated_at = $10
		WHERE id = $11`,
		q.ClientID, q.Subtotal, q.DiscountType, q.DiscountValue, q.TaxAmount, q.TotalAmount,
		q.Notes, q.Terms, q.ValidUntil, q.UpdatedAt, q.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientNotFound
		}
		return failed("UpdateQuotation", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}

func (t *documentTx) SetQuotationStatus(ctx context.Context, quotationID uuid.UUID, status domain.QuotationStatus) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2", status, quotationID)
	if err != nil {
		return failed("SetQuotationStatus", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}

func (t *documentTx) GetInvoiceForUpdate(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := t.tx.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1 FOR UPDATE", invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, failed("GetInvoiceForUpdate", err)
	}
	return &inv, nil
}

func (t *documentTx) UpdateInvoicePayment(ctx context.Context, invoiceID uuid.UUID, paid decimal.Decimal, status domain.PaymentStatus) error {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE invoices SET paid_amount = $1, payment_status = $2, updated_at = NOW() WHERE id = $3",
		paid, status, invoiceID)
	if err != nil {
		return failed("UpdateInvoicePayment", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (t *documentTx) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now().UTC()
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO payments (id, invoice_id, amount, payment_method, payment_date,
			reference_number, notes, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID, payment.InvoiceID, payment.Amount, payment.PaymentMethod, payment.PaymentDate,
		payment.ReferenceNumber, payment.Notes, payment.RecordedBy, payment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvoiceNotFound
		}
		return failed("InsertPayment", err)
	}
	return nil
}
