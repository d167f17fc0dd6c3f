package xlsxexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ItemRow is one catalog row read from an item sheet. TaxRate is nil when the
// cell is blank.
type ItemRow struct {
	Line        int
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	TaxRate     *decimal.Decimal
	Unit        string
}

// itemHeaders maps accepted header spellings to canonical column keys.
var itemHeaders = map[string]string{
	"name":        "name",
	"item":        "name",
	"item name":   "name",
	"description": "description",
	"unit price":  "unit_price",
	"unit_price":  "unit_price",
	"price":       "unit_price",
	"rate":        "unit_price",
	"tax rate":    "tax_rate",
	"tax_rate":    "tax_rate",
	"gst":         "tax_rate",
	"gst %":       "tax_rate",
	"unit":        "unit",
	"uom":         "unit",
}

// ReadItems reads the first sheet of an XLSX workbook. The first row is a
// header naming at least the name and unit price columns; blank rows are skipped.
func ReadItems(r io.Reader) ([]ItemRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		if key, ok := itemHeaders[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[key]; !dup {
				cols[key] = i
			}
		}
	}
	for _, required := range []string{"name", "unit_price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	var items []ItemRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		get := func(key string) string {
			idx, ok := cols[key]
			if !ok {
				return ""
			}
			return cellVal(row, idx)
		}

		name := get("name")
		if name == "" {
			continue
		}
		item := ItemRow{
			Line:        i + 1,
			Name:        name,
			Description: get("description"),
			Unit:        get("unit"),
		}

		item.UnitPrice, err = parseAmount(get("unit_price"))
		if err != nil {
			return nil, fmt.Errorf("row %d unit price: %w", i+1, err)
		}
		if raw := get("tax_rate"); raw != "" {
			rate, err := parseAmount(strings.TrimSuffix(raw, "%"))
			if err != nil {
				return nil, fmt.Errorf("row %d tax rate: %w", i+1, err)
			}
			item.TaxRate = &rate
		}
		items = append(items, item)
	}
	return items, nil
}

// parseAmount accepts plain and thousands-separated numbers.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// money rounds to two decimals for a numeric cell.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
