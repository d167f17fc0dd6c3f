// Command importitems loads catalog items from an XLSX workbook.
// The first sheet needs a header row naming at least the name and unit price
// columns; tax rate, unit and description are optional.
// Usage: go run ./cmd/importitems path/to/items.xlsx
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"quotely/internal/config"
	"quotely/internal/repository/postgres"
	"quotely/internal/service"
	"quotely/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: importitems <workbook.xlsx>")
	}
	path := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := xlsxexport.ReadItems(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		log.Printf("%s has no item rows, nothing to import", path)
		return nil
	}

	inputs := make([]service.ItemInput, len(rows))
	for i := range rows {
		inputs[i] = service.ItemInput{
			Name:        rows[i].Name,
			Description: rows[i].Description,
			UnitPrice:   rows[i].UnitPrice,
			TaxRate:     rows[i].TaxRate,
			Unit:        rows[i].Unit,
		}
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	itemSvc := service.NewItemService(postgres.NewItemRepo(db))
	n, err := itemSvc.Import(context.Background(), inputs)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	log.Printf("Imported %d items from %s", n, path)
	return nil
}
