package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quotely/internal/domain"
	"quotely/internal/port"
)

type itemRepo struct {
	db *sqlx.DB
}

// NewItemRepo creates a new PostgreSQL-backed ItemRepository.
func NewItemRepo(db *sqlx.DB) port.ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) error {
	item.ID = uuid.New()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, name, description, unit_price, tax_rate, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.Name, item.Description, item.UnitPrice, item.TaxRate, item.Unit,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("itemRepo.Create: %w", err)
	}
	return nil
}

func (r *itemRepo) CreateBatch(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(items))
	valueArgs := make([]interface{}, 0, len(items)*8)

	for i := range items {
		items[i].ID = uuid.New()
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		it := items[i]
		valueArgs = append(valueArgs, it.ID, it.Name, it.Description, it.UnitPrice, it.TaxRate, it.Unit,
			it.CreatedAt, it.UpdatedAt)
	}

	query := fmt.Sprintf(
		`INSERT INTO items (id, name, description, unit_price, tax_rate, unit, created_at, updated_at) VALUES %s`,
		strings.Join(valueStrings, ", "))

	if _, err := r.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("itemRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	err := r.db.GetContext(ctx, &item, "SELECT * FROM items WHERE id = $1", itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("itemRepo.GetByID: %w", err)
	}
	return &item, nil
}

func (r *itemRepo) GetByIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	return selectItemsByIDs(ctx, r.db, itemIDs)
}

func (r *itemRepo) List(ctx context.Context, search string, offset, limit int) ([]domain.Item, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM items WHERE name ILIKE $1 OR description ILIKE $1", pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("itemRepo.List count: %w", err)
	}

	var items []domain.Item
	err = r.db.SelectContext(ctx, &items,
		`SELECT * FROM items WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("itemRepo.List: %w", err)
	}
	return items, total, nil
}

func (r *itemRepo) Update(ctx context.Context, item *domain.Item) error {
	item.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = $1, description = $2, unit_price = $3, tax_rate = $4, unit = $5, updated_at = $6
		WHERE id = $7`,
		item.Name, item.Description, item.UnitPrice, item.TaxRate, item.Unit, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("itemRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", itemID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrItemInUse
		}
		return fmt.Errorf("itemRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// selectItemsByIDs loads the catalog rows that exist among itemIDs.
func selectItemsByIDs(ctx context.Context, q sqlx.QueryerContext, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	found := make(map[uuid.UUID]domain.Item, len(itemIDs))
	if len(itemIDs) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In("SELECT * FROM items WHERE id IN (?)", itemIDs)
	if err != nil {
		return nil, fmt.Errorf("itemRepo.GetByIDs build: %w", err)
	}
	var items []domain.Item
	if err := sqlx.SelectContext(ctx, q, &items, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("itemRepo.GetByIDs: %w", err)
	}
	for _, it := range items {
		found[it.ID] = it
	}
	return found, nil
}
