package service

import (
	"context"

	"github.com/shopspring/decimal"

	"quotely/internal/domain"
	"quotely/internal/port"
	"quotely/internal/totals"
)

// PreviewLine is one priced line of a preview.
type PreviewLine struct {
	domain.LineItem
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// PreviewResult is what a document would total if created from the same input.
type PreviewResult struct {
	Lines         []PreviewLine       `json:"lines"`
	DiscountType  domain.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	totals.Totals
}

// PreviewService prices unsaved documents with the same rules as creation.
type PreviewService interface {
	Preview(ctx context.Context, input DocumentInput) (*PreviewResult, error)
}

type previewService struct {
	itemRepo port.ItemRepository
}

// NewPreviewService creates a new PreviewService implementation.
func NewPreviewService(itemRepo port.ItemRepository) PreviewService {
	return &previewService{itemRepo: itemRepo}
}

func (s *previewService) Preview(ctx context.Context, input DocumentInput) (*PreviewResult, error) {
	if err := checkLines(input); err != nil {
		return nil, err
	}
	doc, err := price(ctx, s.itemRepo.GetByIDs, input)
	if err != nil {
		return nil, err
	}

	lines := make([]PreviewLine, len(doc.lines))
	for i, li := range doc.lines {
		lines[i] = PreviewLine{
			LineItem:  li,
			TaxAmount: totals.Line{Quantity: li.Quantity, UnitPrice: li.UnitPrice, TaxRate: li.TaxRate}.Tax(),
		}
	}

	var applied domain.DocumentTotals
	doc.totals.Apply(&applied, doc.discount)
	return &PreviewResult{
		Lines:         lines,
		DiscountType:  applied.DiscountType,
		DiscountValue: applied.DiscountValue,
		Totals:        doc.totals,
	}, nil
}
