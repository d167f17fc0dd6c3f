package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quotely/internal/domain"
	"quotely/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceSelect = `SELECT inv.*, c.name AS client_name
	FROM invoices inv
	INNER JOIN clients c ON c.id = inv.client_id`

func (r *invoiceRepo) GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, invoiceSelect+" WHERE inv.id = $1", invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", inv.ClientID); err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID client: %w", err)
	}
	inv.Client = &client

	inv.Items, err = selectLineItems(ctx, r.db, domain.KindInvoice, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	var conds []string
	var args []interface{}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conds = append(conds, fmt.Sprintf("inv.payment_status = $%d", len(args)))
	}
	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		conds = append(conds, fmt.Sprintf("inv.client_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices inv"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY inv.created_at DESC LIMIT $%d OFFSET $%d",
		invoiceSelect, where, len(args)+1, len(args)+2)
	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE invoice_id = $1 ORDER BY payment_date DESC, created_at DESC", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListPayments: %w", err)
	}
	return payments, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}
