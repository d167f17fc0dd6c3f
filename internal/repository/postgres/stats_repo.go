package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quotely/internal/domain"
	"quotely/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const statsQuery = `SELECT
	(SELECT COUNT(*) FROM clients) AS total_clients,
	(SELECT COUNT(*) FROM items) AS total_items,
	q.total_quotations, q.quotations_draft, q.quotations_sent, q.quotations_approved, q.quotations_rejected,
	i.total_invoices, i.invoices_pending, i.invoices_partially_paid, i.invoices_paid,
	i.total_invoiced, i.total_received, i.total_invoiced - i.total_received AS outstanding
FROM (
	SELECT
		COUNT(*) AS total_quotations,
		COUNT(CASE WHEN status = 'draft' THEN 1 END) AS quotations_draft,
		COUNT(CASE WHEN status = 'sent' THEN 1 END) AS quotations_sent,
		COUNT(CASE WHEN status = 'approved' THEN 1 END) AS quotations_approved,
		COUNT(CASE WHEN status = 'rejected' THEN 1 END) AS quotations_rejected
	FROM quotations
) q, (
	SELECT
		COUNT(*) AS total_invoices,
		COUNT(CASE WHEN payment_status = 'pending' THEN 1 END) AS invoices_pending,
		COUNT(CASE WHEN payment_status = 'partially_paid' THEN 1 END) AS invoices_partially_paid,
		COUNT(CASE WHEN payment_status = 'paid' THEN 1 END) AS invoices_paid,
		COALESCE(SUM(total_amount), 0) AS total_invoiced,
		COALESCE(SUM(paid_amount), 0) AS total_received
	FROM invoices
) i`

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, statsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats: %w", err)
	}
	return &stats, nil
}
