package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quotely/internal/domain"
)

// lineItemTable returns the line item table and its parent key column for kind.
func lineItemTable(kind domain.DocumentKind) (table, parentColumn string) {
	if kind == domain.KindInvoice {
		return "invoice_items", "invoice_id"
	}
	return "quotation_items", "quotation_id"
}

func selectLineItems(ctx context.Context, q sqlx.QueryerContext, kind domain.DocumentKind, documentID uuid.UUID) ([]domain.LineItem, error) {
	table, parent := lineItemTable(kind)
	query := fmt.Sprintf(`SELECT li.id, li.%[2]s AS document_id, li.item_id, li.position,
		li.quantity, li.unit_price, li.tax_rate, li.amount,
		i.name AS item_name, i.description AS item_description, i.unit AS item_unit
		FROM %[1]s li
		INNER JOIN items i ON i.id = li.item_id
		WHERE li.%[2]s = $1
		ORDER BY li.position`, table, parent)

	items := []domain.LineItem{}
	if err := sqlx.SelectContext(ctx, q, &items, query, documentID); err != nil {
		return nil, fmt.Errorf("selectLineItems %s: %w", table, err)
	}
	return items, nil
}

func insertLineItems(ctx context.Context, e sqlx.ExecerContext, kind domain.DocumentKind, documentID uuid.UUID, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	table, parent := lineItemTable(kind)

	valueStrings := make([]string, 0, len(items))
	valueArgs := make([]interface{}, 0, len(items)*8)
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].DocumentID = documentID
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		li := items[i]
		valueArgs = append(valueArgs, li.ID, documentID, li.ItemID, li.Position,
			li.Quantity, li.UnitPrice, li.TaxRate, li.Amount)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, %s, item_id, position, quantity, unit_price, tax_rate, amount) VALUES %s`,
		table, parent, strings.Join(valueStrings, ", "))
	if _, err := e.ExecContext(ctx, query, valueArgs...); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrItemNotFound
		}
		return fmt.Errorf("insertLineItems %s: %w", table, err)
	}
	return nil
}
