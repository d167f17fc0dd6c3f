package service

import (
	"context"

	"github.com/google/uuid"

	"quotely/internal/domain"
	"quotely/internal/port"
)

// QuotationInput is the DTO for creating or replacing a quotation.
type QuotationInput struct {
	DocumentInput
	ValidUntil string `json:"valid_until" example:"2024-12-31"`
}

// QuotationStatusInput is the DTO for a status change.
type QuotationStatusInput struct {
	Status domain.QuotationStatus `json:"status" binding:"required"`
}

// QuotationService defines the quotation management contract.
type QuotationService interface {
	Create(ctx context.Context, authorID uuid.UUID, input QuotationInput) (*domain.Quotation, error)
	GetByID(ctx context.Context, quotationID uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, filter port.QuotationFilter, offset, limit int) ([]domain.Quotation, int, error)
	Update(ctx context.Context, quotationID, authorID uuid.UUID, input QuotationInput) (*domain.Quotation, error)
	UpdateStatus(ctx context.Context, quotationID uuid.UUID, status domain.QuotationStatus) (*domain.Quotation, error)
	Delete(ctx context.Context, quotationID uuid.UUID) error
}

type quotationService struct {
	repo        port.QuotationRepository
	coordinator *DocumentCoordinator
}

// NewQuotationService creates a new QuotationService implementation.
func NewQuotationService(repo port.QuotationRepository, coordinator *DocumentCoordinator) QuotationService {
	return &quotationService{repo: repo, coordinator: coordinator}
}

func (s *quotationService) Create(ctx context.Context, authorID uuid.UUID, input QuotationInput) (*domain.Quotation, error) {
	validUntil, err := parseDate("valid_until", input.ValidUntil)
	if err != nil {
		return nil, err
	}
	q, err := s.coordinator.CreateQuotation(ctx, authorID, input.DocumentInput, validUntil)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, q.ID)
}

func (s *quotationService) GetByID(ctx context.Context, quotationID uuid.UUID) (*domain.Quotation, error) {
	return s.repo.GetByID(ctx, quotationID)
}

func (s *quotationService) List(ctx context.Context, filter port.QuotationFilter, offset, limit int) ([]domain.Quotation, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *quotationService) Update(ctx context.Context, quotationID, authorID uuid.UUID, input QuotationInput) (*domain.Quotation, error) {
	validUntil, err := parseDate("valid_until", input.ValidUntil)
	if err != nil {
		return nil, err
	}
	if _, err := s.coordinator.ReplaceQuotation(ctx, quotationID, authorID, input.DocumentInput, validUntil); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, quotationID)
}

func (s *quotationService) UpdateStatus(ctx context.Context, quotationID uuid.UUID, status domain.QuotationStatus) (*domain.Quotation, error) {
	if _, err := s.coordinator.TransitionQuotation(ctx, quotationID, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, quotationID)
}

func (s *quotationService) Delete(ctx context.Context, quotationID uuid.UUID) error {
	return s.repo.Delete(ctx, quotationID)
}
