package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotely/internal/domain"
	"quotely/internal/service"
	"quotely/mocks"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.March, 15, 10, 0, 0, 0, time.UTC) }
}

type coordinatorFixture struct {
	store    *mocks.MemoryDocumentStore
	coord    *service.DocumentCoordinator
	clientID uuid.UUID
	pumpID   uuid.UUID
	hoseID   uuid.UUID
	authorID uuid.UUID
}

func newCoordinatorFixture(t *testing.T, scope domain.NumberingScope, year int) *coordinatorFixture {
	t.Helper()
	f := &coordinatorFixture{
		store:    mocks.NewMemoryDocumentStore(),
		clientID: uuid.New(),
		pumpID:   uuid.New(),
		hoseID:   uuid.New(),
		authorID: uuid.New(),
	}
	f.store.AddClient(domain.Client{ID: f.clientID, Name: "Acme Industries", Email: "buyer@acme.test"})
	f.store.AddItem(domain.Item{ID: f.pumpID, Name: "Grease Pump", UnitPrice: dec("100"), TaxRate: dec("18"), Unit: "nos"})
	f.store.AddItem(domain.Item{ID: f.hoseID, Name: "Hose", UnitPrice: dec("50"), TaxRate: dec("5"), Unit: "m"})
	f.coord = service.NewDocumentCoordinator(f.store, scope, fixedClock(year))
	return f
}

// standardInput is two pumps at 18% and one hose at 5%.
func (f *coordinatorFixture) standardInput() service.DocumentInput {
	return service.DocumentInput{
		ClientID: f.clientID,
		Items: []service.LineItemInput{
			{ItemID: f.pumpID, Quantity: dec("2")},
			{ItemID: f.hoseID, Quantity: dec("1")},
		},
	}
}

func TestCoordinator_CreateQuotation_FirstNumberOfYear(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)

	q, err := f.coord.CreateQuotation(context.Background(), f.authorID, f.standardInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, "QT-20240001", q.Number)
	assert.Equal(t, domain.QuotationStatusDraft, q.Status)
	assert.True(t, dec("250").Equal(q.Subtotal))
	assert.True(t, dec("38.5").Equal(q.TaxAmount))
	assert.True(t, dec("288.5").Equal(q.TotalAmount))
	assert.Equal(t, domain.DiscountNone, q.DiscountType)
	assert.Len(t, f.store.LineItems(domain.KindQuotation, q.ID), 2)
}

func TestCoordinator_CreateQuotation_SequentialNumbers(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()

	for _, want := range []string{"QT-20240001", "QT-20240002", "QT-20240003"} {
		q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
		require.NoError(t, err)
		assert.Equal(t, want, q.Number)
	}
}

func TestCoordinator_NumberingScope(t *testing.T) {
	ctx := context.Background()

	t.Run("yearly restarts each year", func(t *testing.T) {
		f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
		_, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
		require.NoError(t, err)

		next := service.NewDocumentCoordinator(f.store, domain.NumberingYearly, fixedClock(2025))
		q, err := next.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)

		require.NoError(t, err)
		assert.Equal(t, "QT-20250001", q.Number)
	})

	t.Run("lifetime keeps counting", func(t *testing.T) {
		f := newCoordinatorFixture(t, domain.NumberingLifetime, 2024)
		_, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
		require.NoError(t, err)

		next := service.NewDocumentCoordinator(f.store, domain.NumberingLifetime, fixedClock(2025))
		q, err := next.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)

		require.NoError(t, err)
		assert.Equal(t, "QT-20250002", q.Number)
	})
}

func TestCoordinator_CreateQuotation_Discounts(t *testing.T) {
	tests := []struct {
		name      string
		discount  domain.DiscountType
		value     string
		wantTotal string
	}{
		{"percentage", domain.DiscountPercentage, "10", "259.65"},
		{"fixed", domain.DiscountFixed, "30", "258.5"},
		{"omitted type", "", "0", "288.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
			in := f.standardInput()
			in.DiscountType = tt.discount
			in.DiscountValue = dec(tt.value)

			q, err := f.coord.CreateQuotation(context.Background(), f.authorID, in, nil)

			require.NoError(t, err)
			assert.True(t, dec(tt.wantTotal).Equal(q.TotalAmount), "total %s", q.TotalAmount)
		})
	}
}

func TestCoordinator_CreateQuotation_PriceOverrides(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	in := service.DocumentInput{
		ClientID: f.clientID,
		Items: []service.LineItemInput{
			{ItemID: f.pumpID, Quantity: dec("1"), UnitPrice: decPtr("80"), TaxRate: decPtr("12")},
		},
	}

	q, err := f.coord.CreateQuotation(context.Background(), f.authorID, in, nil)

	require.NoError(t, err)
	lines := f.store.LineItems(domain.KindQuotation, q.ID)
	require.Len(t, lines, 1)
	assert.True(t, dec("80").Equal(lines[0].UnitPrice))
	assert.True(t, dec("12").Equal(lines[0].TaxRate))
	assert.True(t, dec("89.6").Equal(q.TotalAmount))
}

func TestCoordinator_CreateQuotation_SnapshotsCatalogPrice(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()

	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)

	f.store.AddItem(domain.Item{ID: f.pumpID, Name: "Grease Pump", UnitPrice: dec("999"), TaxRate: dec("28")})

	lines := f.store.LineItems(domain.KindQuotation, q.ID)
	require.Len(t, lines, 2)
	assert.True(t, dec("100").Equal(lines[0].UnitPrice))
	assert.True(t, dec("18").Equal(lines[0].TaxRate))
	assert.Equal(t, 1, lines[0].Position)
}

func TestCoordinator_CreateQuotation_InvalidInput(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)

	tests := []struct {
		name   string
		author uuid.UUID
		mutate func(in *service.DocumentInput)
	}{
		{"no items", f.authorID, func(in *service.DocumentInput) { in.Items = nil }},
		{"missing author", uuid.Nil, func(in *service.DocumentInput) {}},
		{"missing client", f.authorID, func(in *service.DocumentInput) { in.ClientID = uuid.Nil }},
		{"zero quantity", f.authorID, func(in *service.DocumentInput) { in.Items[0].Quantity = decimal.Zero }},
		{"negative price", f.authorID, func(in *service.DocumentInput) { in.Items[0].UnitPrice = decPtr("-1") }},
		{"tax above 100", f.authorID, func(in *service.DocumentInput) { in.Items[0].TaxRate = decPtr("101") }},
		{"unknown discount", f.authorID, func(in *service.DocumentInput) { in.DiscountType = "bogus" }},
		{"negative total", f.authorID, func(in *service.DocumentInput) {
			in.DiscountType = domain.DiscountFixed
			in.DiscountValue = dec("1000")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.standardInput()
			tt.mutate(&in)

			q, err := f.coord.CreateQuotation(context.Background(), tt.author, in, nil)

			assert.Nil(t, q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.Quotations())
}

func TestCoordinator_CreateQuotation_NotFound(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()

	t.Run("item", func(t *testing.T) {
		in := f.standardInput()
		in.Items[1].ItemID = uuid.New()

		_, err := f.coord.CreateQuotation(ctx, f.authorID, in, nil)

		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("client", func(t *testing.T) {
		in := f.standardInput()
		in.ClientID = uuid.New()

		_, err := f.coord.CreateQuotation(ctx, f.authorID, in, nil)

		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	assert.Empty(t, f.store.Quotations())
}

func TestCoordinator_CreateQuotation_LineItemFailureRollsBack(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	f.store.FailOn("InsertLineItems", errors.New("disk full"))

	q, err := f.coord.CreateQuotation(context.Background(), f.authorID, f.standardInput(), nil)

	assert.Nil(t, q)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Empty(t, f.store.Quotations())
	assert.Zero(t, f.store.LineItemCount(domain.KindQuotation))
}

func TestCoordinator_CreateQuotation_RetriesTakenNumber(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	f.store.TakeNumber("QT-20240001")

	q, err := f.coord.CreateQuotation(context.Background(), f.authorID, f.standardInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, "QT-20240002", q.Number)
}

func TestCoordinator_CreateQuotation_SecondConflictSurfaces(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	f.store.TakeNumber("QT-20240001")
	f.store.TakeNumber("QT-20240002")

	q, err := f.coord.CreateQuotation(context.Background(), f.authorID, f.standardInput(), nil)

	assert.Nil(t, q)
	assert.ErrorIs(t, err, domain.ErrNumberConflict)
	assert.Empty(t, f.store.Quotations())
}

// Covers the coordinator's allocate-and-insert path under concurrent callers.
// MemoryDocumentStore serializes transactions, so this does not exercise the
// row locking of the Postgres sequence upsert.
func TestCoordinator_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	const n = 20

	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q, err := f.coord.CreateQuotation(context.Background(), f.authorID, f.standardInput(), nil)
			errs[i] = err
			if err == nil {
				numbers[i] = q.Number
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "duplicate number %s", numbers[i])
		seen[numbers[i]] = true
	}
	assert.Len(t, f.store.Quotations(), n)
}

func TestCoordinator_ReplaceQuotation(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()
	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)

	in := service.DocumentInput{
		ClientID: f.clientID,
		Items:    []service.LineItemInput{{ItemID: f.hoseID, Quantity: dec("4")}},
		Notes:    "revised",
	}
	updated, err := f.coord.ReplaceQuotation(ctx, q.ID, f.authorID, in, nil)

	require.NoError(t, err)
	assert.Equal(t, q.Number, updated.Number)
	assert.Equal(t, "revised", updated.Notes)
	assert.True(t, dec("210").Equal(updated.TotalAmount))
	assert.Len(t, f.store.LineItems(domain.KindQuotation, q.ID), 1)
}

func TestCoordinator_ReplaceQuotation_NotDraft(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()
	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)
	_, err = f.coord.TransitionQuotation(ctx, q.ID, domain.QuotationStatusSent)
	require.NoError(t, err)

	_, err = f.coord.ReplaceQuotation(ctx, q.ID, f.authorID, f.standardInput(), nil)

	assert.ErrorIs(t, err, domain.ErrQuotationNotEditable)
	assert.Len(t, f.store.LineItems(domain.KindQuotation, q.ID), 2)
}

func TestCoordinator_TransitionQuotation(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()
	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)

	sent, err := f.coord.TransitionQuotation(ctx, q.ID, domain.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, sent.Status)

	again, err := f.coord.TransitionQuotation(ctx, q.ID, domain.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, again.Status)

	_, err = f.coord.TransitionQuotation(ctx, q.ID, domain.QuotationStatusDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = f.coord.TransitionQuotation(ctx, q.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.coord.TransitionQuotation(ctx, uuid.New(), domain.QuotationStatusSent)
	assert.ErrorIs(t, err, domain.ErrQuotationNotFound)
}

func TestCoordinator_CreateInvoice_FromQuotationApprovesIt(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()
	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)

	in := f.standardInput()
	in.ClientID = uuid.Nil
	inv, err := f.coord.CreateInvoice(ctx, f.authorID, in, &q.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, "INV-20240001", inv.Number)
	assert.Equal(t, f.clientID, inv.ClientID)
	assert.Equal(t, domain.PaymentStatusPending, inv.PaymentStatus)
	assert.True(t, inv.PaidAmount.IsZero())

	stored, ok := f.store.Quotation(q.ID)
	require.True(t, ok)
	assert.Equal(t, domain.QuotationStatusApproved, stored.Status)
}

func TestCoordinator_CreateInvoice_FailureLeavesQuotationUntouched(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()
	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)
	f.store.FailOn("InsertLineItems", errors.New("connection reset"))

	inv, err := f.coord.CreateInvoice(ctx, f.authorID, f.standardInput(), &q.ID, nil)

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Empty(t, f.store.Invoices())
	stored, _ := f.store.Quotation(q.ID)
	assert.Equal(t, domain.QuotationStatusDraft, stored.Status)
}

func TestCoordinator_CreateInvoice_QuotationChecks(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()

	missing := uuid.New()
	_, err := f.coord.CreateInvoice(ctx, f.authorID, f.standardInput(), &missing, nil)
	assert.ErrorIs(t, err, domain.ErrQuotationNotFound)

	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)
	_, err = f.coord.TransitionQuotation(ctx, q.ID, domain.QuotationStatusRejected)
	require.NoError(t, err)

	_, err = f.coord.CreateInvoice(ctx, f.authorID, f.standardInput(), &q.ID, nil)
	assert.ErrorIs(t, err, domain.ErrQuotationRejected)
	assert.Empty(t, f.store.Invoices())
}

func TestCoordinator_CreateInvoice_ClientMustMatchQuotation(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	ctx := context.Background()
	other := domain.Client{ID: uuid.New(), Name: "Other Traders"}
	f.store.AddClient(other)

	q, err := f.coord.CreateQuotation(ctx, f.authorID, f.standardInput(), nil)
	require.NoError(t, err)

	in := f.standardInput()
	in.ClientID = other.ID
	_, err = f.coord.CreateInvoice(ctx, f.authorID, in, &q.ID, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.store.Invoices())
	stored, _ := f.store.Quotation(q.ID)
	assert.Equal(t, domain.QuotationStatusDraft, stored.Status)
}

func TestCoordinator_CreateInvoice_Standalone(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	due := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)

	inv, err := f.coord.CreateInvoice(context.Background(), f.authorID, f.standardInput(), nil, &due)

	require.NoError(t, err)
	assert.Nil(t, inv.QuotationID)
	assert.Equal(t, &due, inv.DueDate)
	assert.True(t, dec("288.5").Equal(inv.TotalAmount))
	assert.Len(t, f.store.LineItems(domain.KindInvoice, inv.ID), 2)
}

func createTestInvoice(t *testing.T, f *coordinatorFixture) *domain.Invoice {
	t.Helper()
	inv, err := f.coord.CreateInvoice(context.Background(), f.authorID, f.standardInput(), nil, nil)
	require.NoError(t, err)
	return inv
}

func TestCoordinator_SetPaidAmount(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	inv := createTestInvoice(t, f)
	ctx := context.Background()

	tests := []struct {
		name       string
		paid       string
		status     domain.PaymentStatus
		wantStatus domain.PaymentStatus
		wantErr    error
	}{
		{"partial derived", "100", "", domain.PaymentStatusPartiallyPaid, nil},
		{"full with matching status", "288.5", domain.PaymentStatusPaid, domain.PaymentStatusPaid, nil},
		{"reset to zero", "0", domain.PaymentStatusPending, domain.PaymentStatusPending, nil},
		{"mismatched status", "100", domain.PaymentStatusPaid, "", domain.ErrPaymentStatusMismatch},
		{"over total", "300", "", "", domain.ErrPaymentExceedsTotal},
		{"negative", "-1", "", "", domain.ErrInvalidInput},
		{"unknown status", "10", "refunded", "", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.coord.SetPaidAmount(ctx, inv.ID, dec(tt.paid), tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.PaymentStatus)

			stored, _ := f.store.Invoice(inv.ID)
			assert.True(t, dec(tt.paid).Equal(stored.PaidAmount))
		})
	}
}

func TestCoordinator_RecordPayment(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	inv := createTestInvoice(t, f)
	ctx := context.Background()
	recorder := uuid.New()

	got, err := f.coord.RecordPayment(ctx, &domain.Payment{InvoiceID: inv.ID, Amount: dec("88.5"), RecordedBy: recorder})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, got.PaymentStatus)

	got, err = f.coord.RecordPayment(ctx, &domain.Payment{InvoiceID: inv.ID, Amount: dec("200"), RecordedBy: recorder})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
	assert.True(t, dec("288.5").Equal(got.PaidAmount))

	_, err = f.coord.RecordPayment(ctx, &domain.Payment{InvoiceID: inv.ID, Amount: dec("0.01"), RecordedBy: recorder})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsTotal)

	_, err = f.coord.RecordPayment(ctx, &domain.Payment{InvoiceID: inv.ID, Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Len(t, f.store.Payments(), 2)
}

func TestCoordinator_RecordPayment_FailureKeepsBalance(t *testing.T) {
	f := newCoordinatorFixture(t, domain.NumberingYearly, 2024)
	inv := createTestInvoice(t, f)
	f.store.FailOn("UpdateInvoicePayment", errors.New("timeout"))

	_, err := f.coord.RecordPayment(context.Background(), &domain.Payment{InvoiceID: inv.ID, Amount: dec("10")})

	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Empty(t, f.store.Payments())
	stored, _ := f.store.Invoice(inv.ID)
	assert.True(t, stored.PaidAmount.IsZero())
}
