package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quotely/internal/config"
	"quotely/internal/domain"
	"quotely/internal/port"
)

// CompanySettingsInput is the DTO for replacing the letterhead.
type CompanySettingsInput struct {
	CompanyName string `json:"company_name" binding:"required,max=255"`
	Tagline     string `json:"tagline" binding:"max=255"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address"`
	GSTIN       string `json:"gstin" binding:"omitempty,gstin"`
	Currency    string `json:"currency" binding:"max=10"`
}

// SettingsService manages the company letterhead.
type SettingsService interface {
	Get(ctx context.Context) (*domain.CompanySettings, error)
	Update(ctx context.Context, input CompanySettingsInput) (*domain.CompanySettings, error)
}

type settingsService struct {
	repo     port.CompanySettingsRepository
	defaults config.CompanyConfig
}

// NewSettingsService creates a SettingsService. defaults apply until the
// settings row is first saved.
func NewSettingsService(repo port.CompanySettingsRepository, defaults config.CompanyConfig) SettingsService {
	return &settingsService{repo: repo, defaults: defaults}
}

func (s *settingsService) Get(ctx context.Context) (*domain.CompanySettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.CompanySettings{
			CompanyName: s.defaults.Name,
			Tagline:     s.defaults.Tagline,
			Email:       s.defaults.Email,
			Phone:       s.defaults.Phone,
			Address:     s.defaults.Address,
			GSTIN:       s.defaults.GSTIN,
			Currency:    s.defaults.Currency,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settingsService.Get: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, input CompanySettingsInput) (*domain.CompanySettings, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: company_name is required", domain.ErrInvalidInput)
	}
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = s.defaults.Currency
	}

	settings := &domain.CompanySettings{
		CompanyName: name,
		Tagline:     strings.TrimSpace(input.Tagline),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Address:     strings.TrimSpace(input.Address),
		GSTIN:       strings.ToUpper(strings.TrimSpace(input.GSTIN)),
		Currency:    currency,
	}
	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("settingsService.Update: %w", err)
	}
	return settings, nil
}
