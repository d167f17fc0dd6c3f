package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quotely/internal/domain"
	"quotely/internal/port"
)

type companySettingsRepo struct {
	db *sqlx.DB
}

// NewCompanySettingsRepo creates a new PostgreSQL-backed CompanySettingsRepository.
func NewCompanySettingsRepo(db *sqlx.DB) port.CompanySettingsRepository {
	return &companySettingsRepo{db: db}
}

func (r *companySettingsRepo) Get(ctx context.Context) (*domain.CompanySettings, error) {
	var s domain.CompanySettings
	err := r.db.GetContext(ctx, &s,
		`SELECT company_name, tagline, email, phone, address, gstin, currency, updated_at
		FROM company_settings WHERE id = 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("companySettingsRepo.Get: %w", err)
	}
	return &s, nil
}

// Update upserts the single settings row.
func (r *companySettingsRepo) Update(ctx context.Context, s *domain.CompanySettings) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO company_settings (id, company_name, tagline, email, phone, address, gstin, currency, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			tagline = EXCLUDED.tagline,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			gstin = EXCLUDED.gstin,
			currency = EXCLUDED.currency,
			updated_at = EXCLUDED.updated_at`,
		s.CompanyName, s.Tagline, s.Email, s.Phone, s.Address, s.GSTIN, s.Currency, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("companySettingsRepo.Update: %w", err)
	}
	return nil
}
