package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotely/internal/domain"
	"quotely/internal/port"
	"quotely/internal/service"
	"quotely/mocks"
)

func TestQuotationService_Create_ReloadsFromRepo(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	repo := new(mocks.MockQuotationRepo)
	svc := service.NewQuotationService(repo, f.coord)

	loaded := &domain.Quotation{Number: "QT-20240001", ClientName: "Acme Industries"}
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(loaded, nil)

	q, err := svc.Create(context.Background(), f.authorID, service.QuotationInput{
		DocumentInput: f.standardInput(),
		ValidUntil:    "2024-04-30",
	})

	require.NoError(t, err)
	assert.Same(t, loaded, q)

	stored := f.store.Quotations()
	require.Len(t, stored, 1)
	assert.Equal(t, "QT-20240001", stored[0].Number)
	require.NotNil(t, stored[0].ValidUntil)
	assert.Equal(t, "2024-04-30", stored[0].ValidUntil.Format("2006-01-02"))
	repo.AssertCalled(t, "GetByID", mock.Anything, stored[0].ID)
}

func TestQuotationService_Create_BadDate(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	repo := new(mocks.MockQuotationRepo)
	svc := service.NewQuotationService(repo, f.coord)

	_, err := svc.Create(context.Background(), f.authorID, service.QuotationInput{
		DocumentInput: f.standardInput(),
		ValidUntil:    "30/04/2024",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Quotations())
}

func TestQuotationService_UpdateStatus(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	repo := new(mocks.MockQuotationRepo)
	svc := service.NewQuotationService(repo, f.coord)
	created, err := f.coord.CreateQuotation(context.Background(), f.authorID, f.standardInput(), nil)
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, created.ID).Return(&domain.Quotation{ID: created.ID, Status: domain.QuotationStatusApproved}, nil)

	q, err := svc.UpdateStatus(context.Background(), created.ID, domain.QuotationStatusApproved)

	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusApproved, q.Status)
	stored, _ := f.store.Quotation(created.ID)
	assert.Equal(t, domain.QuotationStatusApproved, stored.Status)
}

func TestQuotationService_List_PassesFilter(t *testing.T) {
	repo := new(mocks.MockQuotationRepo)
	svc := service.NewQuotationService(repo, nil)
	filter := port.QuotationFilter{Status: domain.QuotationStatusSent}

	repo.On("List", mock.Anything, filter, 20, 20).Return([]domain.Quotation{{Number: "QT-20240021"}}, 21, nil)

	list, total, err := svc.List(context.Background(), filter, 20, 20)

	require.NoError(t, err)
	assert.Equal(t, 21, total)
	assert.Len(t, list, 1)
}

func TestQuotationService_Delete_Invoiced(t *testing.T) {
	repo := new(mocks.MockQuotationRepo)
	svc := service.NewQuotationService(repo, nil)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return(domain.ErrQuotationInvoiced)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrQuotationInvoiced)
}

func TestInvoiceService_Create(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, f.coord)

	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&domain.Invoice{Number: "INV-20240001"}, nil)

	_, err := svc.Create(context.Background(), f.authorID, service.InvoiceInput{
		DocumentInput: f.standardInput(),
		DueDate:       "2024-05-15",
	})

	require.NoError(t, err)
	stored := f.store.Invoices()
	require.Len(t, stored, 1)
	assert.Equal(t, "INV-20240001", stored[0].Number)
	assert.Equal(t, domain.PaymentStatusPending, stored[0].PaymentStatus)
	assert.Equal(t, "2024-05-15", stored[0].DueDate.Format("2006-01-02"))
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, f.coord)
	created := createTestInvoice(t, f)
	recorder := uuid.New()

	repo.On("GetByID", mock.Anything, created.ID).Return(&domain.Invoice{ID: created.ID}, nil)

	_, err := svc.RecordPayment(context.Background(), created.ID, recorder, service.RecordPaymentInput{
		Amount:        dec("100"),
		PaymentMethod: " bank_transfer ",
		PaymentDate:   "2024-03-20",
	})

	require.NoError(t, err)
	stored, _ := f.store.Invoice(created.ID)
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, stored.PaymentStatus)
	payments := f.store.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, "bank_transfer", payments[0].PaymentMethod)
	assert.Equal(t, recorder, payments[0].RecordedBy)
	assert.Equal(t, "2024-03-20", payments[0].PaymentDate.Format("2006-01-02"))
}

func TestInvoiceService_UpdatePayment_ExceedsTotal(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, f.coord)
	created := createTestInvoice(t, f)

	_, err := svc.UpdatePayment(context.Background(), created.ID, service.PaymentUpdateInput{PaidAmount: dec("1000")})

	assert.ErrorIs(t, err, domain.ErrPaymentExceedsTotal)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestInvoiceService_ListPayments_UnknownInvoice(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.ListPayments(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "ListPayments", mock.Anything, mock.Anything)
}
