package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotely/internal/domain"
	"quotely/internal/service"
	"quotely/mocks"
)

func TestClientService_Create_NormalizesFields(t *testing.T) {
	repo := new(mocks.MockClientRepo)
	svc := service.NewClientService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Client")).Return(nil)

	client, err := svc.Create(context.Background(), service.ClientInput{
		Name:  "  Acme Industries ",
		Email: "buyer@acme.test",
		GSTIN: "27abcde1234f1z5",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", client.Name)
	assert.Equal(t, "27ABCDE1234F1Z5", client.GSTIN)
	repo.AssertExpectations(t)
}

func TestClientService_Create_BlankName(t *testing.T) {
	repo := new(mocks.MockClientRepo)
	svc := service.NewClientService(repo)

	_, err := svc.Create(context.Background(), service.ClientInput{Name: "   "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClientService_Delete_InUse(t *testing.T) {
	repo := new(mocks.MockClientRepo)
	svc := service.NewClientService(repo)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(domain.ErrClientInUse)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrClientInUse)
}

func TestClientService_List_TrimsSearch(t *testing.T) {
	repo := new(mocks.MockClientRepo)
	svc := service.NewClientService(repo)

	repo.On("List", mock.Anything, "acme", 0, 20).Return([]domain.Client{{Name: "Acme"}}, 1, nil)

	clients, total, err := svc.List(context.Background(), " acme ", 0, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, clients, 1)
}

func TestItemService_Create_Defaults(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Item")).Return(nil)

	item, err := svc.Create(context.Background(), service.ItemInput{Name: "Grease Pump", UnitPrice: dec("100")})

	require.NoError(t, err)
	assert.True(t, dec("18").Equal(item.TaxRate))
	assert.Equal(t, "nos", item.Unit)
}

func TestItemService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input service.ItemInput
	}{
		{"blank name", service.ItemInput{Name: " ", UnitPrice: dec("1")}},
		{"negative price", service.ItemInput{Name: "Pump", UnitPrice: dec("-5")}},
		{"tax above 100", service.ItemInput{Name: "Pump", UnitPrice: dec("5"), TaxRate: decPtr("120")}},
		{"negative tax", service.ItemInput{Name: "Pump", UnitPrice: dec("5"), TaxRate: decPtr("-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockItemRepo)
			svc := service.NewItemService(repo)

			_, err := svc.Create(context.Background(), tt.input)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestItemService_Update(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)
	existing := &domain.Item{ID: uuid.New(), Name: "Pump", UnitPrice: dec("100"), TaxRate: dec("18"), Unit: "nos"}

	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	item, err := svc.Update(context.Background(), existing.ID, service.ItemInput{
		Name: "Pump v2", UnitPrice: dec("120"), TaxRate: decPtr("12"), Unit: "set",
	})

	require.NoError(t, err)
	assert.Equal(t, "Pump v2", item.Name)
	assert.True(t, dec("120").Equal(item.UnitPrice))
	assert.Equal(t, "set", item.Unit)
}

func TestItemService_Import_AllOrNothing(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	n, err := svc.Import(context.Background(), []service.ItemInput{
		{Name: "Pump", UnitPrice: dec("100")},
		{Name: "", UnitPrice: dec("10")},
	})

	assert.Zero(t, n)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "row 2")
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestItemService_Import_Success(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []domain.Item) bool {
		return len(items) == 2 && items[1].Unit == "m" && items[0].TaxRate.Equal(dec("18"))
	})).Return(nil)

	n, err := svc.Import(context.Background(), []service.ItemInput{
		{Name: "Pump", UnitPrice: dec("100")},
		{Name: "Hose", UnitPrice: dec("50"), TaxRate: decPtr("5"), Unit: "m"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)
}

func TestItemService_Import_RepoError(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Import(context.Background(), []service.ItemInput{{Name: "Pump", UnitPrice: dec("1")}})

	assert.Error(t, err)
}
