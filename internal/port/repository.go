package port

import (
	"context"

	"github.com/google/uuid"

	"quotely/internal/domain"
)

// UserRepository defines the contract for staff user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
	CountByRole(ctx context.Context, role domain.UserRole) (int, error)
}

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, clientID uuid.UUID) error
}

// ItemRepository defines the contract for catalog item persistence.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	CreateBatch(ctx context.Context, items []domain.Item) error
	GetByID(ctx context.Context, itemID uuid.UUID) (*domain.Item, error)
	GetByIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Item, int, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, itemID uuid.UUID) error
}

// CompanySettingsRepository reads and writes the single letterhead row.
type CompanySettingsRepository interface {
	Get(ctx context.Context) (*domain.CompanySettings, error)
	Update(ctx context.Context, settings *domain.CompanySettings) error
}
