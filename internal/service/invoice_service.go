package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
	"quotely/internal/port"
)

// InvoiceInput is the DTO for creating an invoice.
type InvoiceInput struct {
	DocumentInput
	QuotationID *uuid.UUID `json:"quotation_id"`
	DueDate     string     `json:"due_date" example:"2024-12-31"`
}

// PaymentUpdateInput is the DTO for overwriting an invoice's paid amount.
type PaymentUpdateInput struct {
	PaidAmount    decimal.Decimal      `json:"paid_amount" swaggertype:"string" example:"100.00"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// RecordPaymentInput is the DTO for recording a received payment.
type RecordPaymentInput struct {
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
	PaymentMethod   string          `json:"payment_method" binding:"max=50"`
	PaymentDate     string          `json:"payment_date" example:"2024-06-30"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	Notes           string          `json:"notes"`
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	Create(ctx context.Context, authorID uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	UpdatePayment(ctx context.Context, invoiceID uuid.UUID, input PaymentUpdateInput) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, invoiceID, recordedBy uuid.UUID, input RecordPaymentInput) (*domain.Invoice, error)
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error)
	Delete(ctx context.Context, invoiceID uuid.UUID) error
}

type invoiceService struct {
	repo        port.InvoiceRepository
	coordinator *DocumentCoordinator
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(repo port.InvoiceRepository, coordinator *DocumentCoordinator) InvoiceService {
	return &invoiceService{repo: repo, coordinator: coordinator}
}

func (s *invoiceService) Create(ctx context.Context, authorID uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	dueDate, err := parseDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}
	inv, err := s.coordinator.CreateInvoice(ctx, authorID, input.DocumentInput, input.QuotationID, dueDate)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, inv.ID)
}

func (s *invoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *invoiceService) UpdatePayment(ctx context.Context, invoiceID uuid.UUID, input PaymentUpdateInput) (*domain.Invoice, error) {
	if _, err := s.coordinator.SetPaidAmount(ctx, invoiceID, input.PaidAmount, input.PaymentStatus); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, invoiceID)
}

func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID, recordedBy uuid.UUID, input RecordPaymentInput) (*domain.Invoice, error) {
	paymentDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.PaymentDate != "" {
		d, err := parseDate("payment_date", input.PaymentDate)
		if err != nil {
			return nil, err
		}
		paymentDate = *d
	}

	payment := &domain.Payment{
		InvoiceID:       invoiceID,
		Amount:          input.Amount,
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		PaymentDate:     paymentDate,
		ReferenceNumber: strings.TrimSpace(input.ReferenceNumber),
		Notes:           input.Notes,
		RecordedBy:      recordedBy,
	}
	if _, err := s.coordinator.RecordPayment(ctx, payment); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, invoiceID)
}

func (s *invoiceService) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.repo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.ListPayments: %w", err)
	}
	return payments, nil
}

func (s *invoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	return s.repo.Delete(ctx, invoiceID)
}
