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

type quotationRepo struct {
	db *sqlx.DB
}

// NewQuotationRepo creates a new PostgreSQL-backed QuotationRepository.
func NewQuotationRepo(db *sqlx.DB) port.QuotationRepository {
	return &quotationRepo{db: db}
}

const quotationSelect = `SELECT q.*, c.name AS client_name
	FROM quotations q
	INNER JOIN clients c ON c.id = q.client_id`

func (r *quotationRepo) GetByID(ctx context.Context, quotationID uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.GetContext(ctx, &q, quotationSelect+" WHERE q.id = $1", quotationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, fmt.Errorf("quotationRepo.GetByID: %w", err)
	}

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", q.ClientID); err != nil {
		return nil, fmt.Errorf("quotationRepo.GetByID client: %w", err)
	}
	q.Client = &client

	q.Items, err = selectLineItems(ctx, r.db, domain.KindQuotation, q.ID)
	if err != nil {
		return nil, fmt.Errorf("quotationRepo.GetByID: %w", err)
	}
	return &q, nil
}

func (r *quotationRepo) List(ctx context.Context, filter port.QuotationFilter, offset, limit int) ([]domain.Quotation, int, error) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("q.status = $%d", len(args)))
	}
	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		conds = append(conds, fmt.Sprintf("q.client_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM quotations q"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("quotationRepo.List count: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY q.created_at DESC LIMIT $%d OFFSET $%d",
		quotationSelect, where, len(args)+1, len(args)+2)
	var quotations []domain.Quotation
	if err := r.db.SelectContext(ctx, &quotations, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("quotationRepo.List: %w", err)
	}
	return quotations, total, nil
}

func (r *quotationRepo) Delete(ctx context.Context, quotationID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM quotations WHERE id = $1", quotationID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrQuotationInvoiced
		}
		return fmt.Errorf("quotationRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQuotationNotFound
	}
	return nil
}
