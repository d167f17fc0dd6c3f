package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
	"quotely/internal/port"
)

var defaultTaxRate = decimal.NewFromInt(18)

const defaultUnit = "nos"

// ItemInput is the DTO for creating or replacing a catalog item.
type ItemInput struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description"`
	UnitPrice   decimal.Decimal  `json:"unit_price" swaggertype:"string" example:"100.00"`
	TaxRate     *decimal.Decimal `json:"tax_rate" swaggertype:"string" example:"18"`
	Unit        string           `json:"unit" binding:"max=20"`
}

// ItemService defines the catalog management contract.
type ItemService interface {
	Create(ctx context.Context, input ItemInput) (*domain.Item, error)
	GetByID(ctx context.Context, itemID uuid.UUID) (*domain.Item, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Item, int, error)
	Update(ctx context.Context, itemID uuid.UUID, input ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	// Import validates every row before inserting any of them.
	Import(ctx context.Context, inputs []ItemInput) (int, error)
}

type itemService struct {
	repo port.ItemRepository
}

// NewItemService creates a new ItemService implementation.
func NewItemService(repo port.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

func (s *itemService) Create(ctx context.Context, input ItemInput) (*domain.Item, error) {
	item := &domain.Item{}
	if err := applyItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("itemService.Create: %w", err)
	}
	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

func (s *itemService) List(ctx context.Context, search string, offset, limit int) ([]domain.Item, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), offset, limit)
}

func (s *itemService) Update(ctx context.Context, itemID uuid.UUID, input ItemInput) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := applyItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	return s.repo.Delete(ctx, itemID)
}

func (s *itemService) Import(ctx context.Context, inputs []ItemInput) (int, error) {
	items := make([]domain.Item, len(inputs))
	for i, input := range inputs {
		if err := applyItemInput(&items[i], input); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return 0, fmt.Errorf("itemService.Import: %w", err)
	}
	return len(items), nil
}

func applyItemInput(item *domain.Item, input ItemInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: item name is required", domain.ErrInvalidInput)
	}
	if input.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", domain.ErrInvalidInput)
	}
	taxRate := defaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: tax rate must be between 0 and 100", domain.ErrInvalidInput)
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	item.Name = name
	item.Description = strings.TrimSpace(input.Description)
	item.UnitPrice = input.UnitPrice
	item.TaxRate = taxRate
	item.Unit = unit
	return nil
}
