package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
	"quotely/internal/port"
)

type lineKey struct {
	kind domain.DocumentKind
	id   uuid.UUID
}

type sequenceKey struct {
	kind domain.DocumentKind
	year int
}

type memoryState struct {
	clients    map[uuid.UUID]domain.Client
	items      map[uuid.UUID]domain.Item
	quotations map[uuid.UUID]domain.Quotation
	invoices   map[uuid.UUID]domain.Invoice
	lines      map[lineKey][]domain.LineItem
	payments   []domain.Payment
	sequences  map[sequenceKey]int
	numbers    map[string]bool
}

func newMemoryState() *memoryState {
	return &memoryState{
		clients:    map[uuid.UUID]domain.Client{},
		items:      map[uuid.UUID]domain.Item{},
		quotations: map[uuid.UUID]domain.Quotation{},
		invoices:   map[uuid.UUID]domain.Invoice{},
		lines:      map[lineKey][]domain.LineItem{},
		sequences:  map[sequenceKey]int{},
		numbers:    map[string]bool{},
	}
}

func (s *memoryState) clone() *memoryState {
	c := newMemoryState()
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.quotations {
		c.quotations[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]domain.LineItem(nil), v...)
	}
	c.payments = append([]domain.Payment(nil), s.payments...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.numbers {
		c.numbers[k] = v
	}
	return c
}

// MemoryDocumentStore is an in-memory port.DocumentStore. Transactions run one
// at a time against a copy of the state that replaces it only on success.
type MemoryDocumentStore struct {
	mu     sync.Mutex
	state  *memoryState
	faults map[string]error
}

// NewMemoryDocumentStore returns an empty store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{state: newMemoryState(), faults: map[string]error{}}
}

// AddClient seeds a client.
func (s *MemoryDocumentStore) AddClient(c domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.clients[c.ID] = c
}

// AddItem seeds a catalog item.
func (s *MemoryDocumentStore) AddItem(item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.items[item.ID] = item
}

// TakeNumber marks a document number as used without advancing any sequence.
func (s *MemoryDocumentStore) TakeNumber(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.numbers[number] = true
}

// FailOn makes every later call to the named DocumentTx method return err.
func (s *MemoryDocumentStore) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method] = err
}

// Quotations returns committed quotations ordered by number.
func (s *MemoryDocumentStore) Quotations() []domain.Quotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Quotation, 0, len(s.state.quotations))
	for _, q := range s.state.quotations {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Invoices returns committed invoices ordered by number.
func (s *MemoryDocumentStore) Invoices() []domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Invoice, 0, len(s.state.invoices))
	for _, inv := range s.state.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// LineItemCount returns the number of committed line items of kind.
func (s *MemoryDocumentStore) LineItemCount(kind domain.DocumentKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, v := range s.state.lines {
		if k.kind == kind {
			n += len(v)
		}
	}
	return n
}

// LineItems returns the committed line items of one document.
func (s *MemoryDocumentStore) LineItems(kind domain.DocumentKind, documentID uuid.UUID) []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LineItem(nil), s.state.lines[lineKey{kind, documentID}]...)
}

// Payments returns every committed payment.
func (s *MemoryDocumentStore) Payments() []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Payment(nil), s.state.payments...)
}

// Quotation returns one committed quotation.
func (s *MemoryDocumentStore) Quotation(id uuid.UUID) (domain.Quotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.state.quotations[id]
	return q, ok
}

// Invoice returns one committed invoice.
func (s *MemoryDocumentStore) Invoice(id uuid.UUID) (domain.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.state.invoices[id]
	return inv, ok
}

func (s *MemoryDocumentStore) WithinTx(ctx context.Context, fn func(tx port.DocumentTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{state: s.state.clone(), faults: s.faults}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

type memoryTx struct {
	state  *memoryState
	faults map[string]error
}

func (t *memoryTx) fault(method string) error {
	if err, ok := t.faults[method]; ok {
		return fmt.Errorf("%w: memoryTx.%s: %w", domain.ErrPersistenceFailure, method, err)
	}
	return nil
}

func (t *memoryTx) ClientExists(_ context.Context, clientID uuid.UUID) (bool, error) {
	if err := t.fault("ClientExists"); err != nil {
		return false, err
	}
	_, ok := t.state.clients[clientID]
	return ok, nil
}

func (t *memoryTx) GetItems(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	if err := t.fault("GetItems"); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]domain.Item, len(itemIDs))
	for _, id := range itemIDs {
		if item, ok := t.state.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (t *memoryTx) NextSequence(_ context.Context, kind domain.DocumentKind, year int) (int, error) {
	if err := t.fault("NextSequence"); err != nil {
		return 0, err
	}
	key := sequenceKey{kind, year}
	n := t.state.sequences[key]
	t.state.sequences[key] = n + 1
	return n, nil
}

func (t *memoryTx) InsertQuotation(_ context.Context, q *domain.Quotation) error {
	if err := t.fault("InsertQuotation"); err != nil {
		return err
	}
	if t.state.numbers[q.Number] {
		return fmt.Errorf("%w: %s", domain.ErrNumberConflict, q.Number)
	}
	now := time.Now().UTC()
	q.ID = uuid.New()
	q.CreatedAt, q.UpdatedAt = now, now
	t.state.numbers[q.Number] = true
	t.state.quotations[q.ID] = *q
	return nil
}

func (t *memoryTx) InsertInvoice(_ context.Context, inv *domain.Invoice) error {
	if err := t.fault("InsertInvoice"); err != nil {
		return err
	}
	if t.state.numbers[inv.Number] {
		return fmt.Errorf("%w: %s", domain.ErrNumberConflict, inv.Number)
	}
	if inv.QuotationID != nil {
		if _, ok := t.state.quotations[*inv.QuotationID]; !ok {
			return domain.ErrQuotationNotFound
		}
	}
	now := time.Now().UTC()
	inv.ID = uuid.New()
	inv.CreatedAt, inv.UpdatedAt = now, now
	t.state.numbers[inv.Number] = true
	t.state.invoices[inv.ID] = *inv
	return nil
}

func (t *memoryTx) InsertLineItems(_ context.Context, kind domain.DocumentKind, documentID uuid.UUID, items []domain.LineItem) error {
	if err := t.fault("InsertLineItems"); err != nil {
		return err
	}
	stored := make([]domain.LineItem, len(items))
	for i := range items {
		if _, ok := t.state.items[items[i].ItemID]; !ok {
			return domain.ErrItemNotFound
		}
		items[i].ID = uuid.New()
		items[i].DocumentID = documentID
		stored[i] = items[i]
	}
	key := lineKey{kind, documentID}
	t.state.lines[key] = append(t.state.lines[key], stored...)
	return nil
}

func (t *memoryTx) DeleteLineItems(_ context.Context, kind domain.DocumentKind, documentID uuid.UUID) error {
	if err := t.fault("DeleteLineItems"); err != nil {
		return err
	}
	delete(t.state.lines, lineKey{kind, documentID})
	return nil
}

func (t *memoryTx) GetQuotationForUpdate(_ context.Context, quotationID uuid.UUID) (*domain.Quotation, error) {
	if err := t.fault("GetQuotationForUpdate"); err != nil {
		return nil, err
	}
	q, ok := t.state.quotations[quotationID]
	if !ok {
		return nil, domain.ErrQuotationNotFound
	}
	return &q, nil
}

func (t *memoryTx) UpdateQuotation(_ context.Context, q *domain.Quotation) error {
	if err := t.fault("UpdateQuotation"); err != nil {
		return err
	}
	if _, ok := t.state.quotations[q.ID]; !ok {
		return domain.ErrQuotationNotFound
	}
	q.UpdatedAt = time.Now().UTC()
	t.state.quotations[q.ID] = *q
	return nil
}

func (t *memoryTx) SetQuotationStatus(_ context.Context, quotationID uuid.UUID, status domain.QuotationStatus) error {
	if err := t.fault("SetQuotationStatus"); err != nil {
		return err
	}
	q, ok := t.state.quotations[quotationID]
	if !ok {
		return domain.ErrQuotationNotFound
	}
	q.Status = status
	t.state.quotations[quotationID] = q
	return nil
}

func (t *memoryTx) GetInvoiceForUpdate(_ context.Context, invoiceID uuid.UUID) (*domain.Invoice, error) {
	if err := t.fault("GetInvoiceForUpdate"); err != nil {
		return nil, err
	}
	inv, ok := t.state.invoices[invoiceID]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return &inv, nil
}

func (t *memoryTx) UpdateInvoicePayment(_ context.Context, invoiceID uuid.UUID, paid decimal.Decimal, status domain.PaymentStatus) error {
	if err := t.fault("UpdateInvoicePayment"); err != nil {
		return err
	}
	inv, ok := t.state.invoices[invoiceID]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	inv.PaidAmount = paid
	inv.PaymentStatus = status
	t.state.invoices[invoiceID] = inv
	return nil
}

func (t *memoryTx) InsertPayment(_ context.Context, payment *domain.Payment) error {
	if err := t.fault("InsertPayment"); err != nil {
		return err
	}
	if _, ok := t.state.invoices[payment.InvoiceID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now().UTC()
	t.state.payments = append(t.state.payments, *payment)
	return nil
}
