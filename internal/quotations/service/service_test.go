package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Joenll/AND-I-QUOTE/internal/email"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/repository"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/transport"
	"github.com/Joenll/AND-I-QUOTE/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	quotations map[uuid.UUID]*repository.Quotation
	items      map[uuid.UUID][]repository.QuotationItem

	createErr error
	updateErr error

	// beforeUpdate runs once at the start of the next UpdateWithItems call,
	// simulating a concurrent writer that commits between a caller's read
	// and its write.
	beforeUpdate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotations: make(map[uuid.UUID]*repository.Quotation),
		items:      make(map[uuid.UUID][]repository.QuotationItem),
	}
}

func (f *fakeStore) CreateWithItems(_ context.Context, quotation *repository.Quotation, items []repository.QuotationItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	q := *quotation
	f.quotations[q.ID] = &q
	f.items[q.ID] = append([]repository.QuotationItem(nil), items...)
	return nil
}

func (f *fakeStore) UpdateWithItems(_ context.Context, quotation *repository.Quotation, items []repository.QuotationItem, replaceItems bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.beforeUpdate != nil {
		hook := f.beforeUpdate
		f.beforeUpdate = nil
		hook()
	}
	existing, ok := f.quotations[quotation.ID]
	if !ok {
		return apperr.NotFound("quotation not found")
	}
	// Mirrors the repository: the grand total is only written together with
	// the item set that produced it.
	existing.QuotationDate = quotation.QuotationDate
	existing.UpdatedAt = quotation.UpdatedAt
	if replaceItems {
		existing.GrandTotal = quotation.GrandTotal
		f.items[quotation.ID] = append([]repository.QuotationItem(nil), items...)
	}
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Quotation, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, apperr.NotFound("quotation not found")
	}
	copied := *q
	return &copied, nil
}

func (f *fakeStore) GetItemsByQuotationID(_ context.Context, quotationID uuid.UUID) ([]repository.QuotationItem, error) {
	return append([]repository.QuotationItem(nil), f.items[quotationID]...), nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.quotations[id]; !ok {
		return apperr.NotFound("quotation not found")
	}
	delete(f.quotations, id)
	delete(f.items, id)
	return nil
}

func (f *fakeStore) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	var items []repository.Quotation
	for _, q := range f.quotations {
		if params.CustomerID != nil && q.CustomerID != *params.CustomerID {
			continue
		}
		items = append(items, *q)
	}
	return &repository.ListResult{
		Items:      items,
		Total:      len(items),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: 1,
	}, nil
}

type fakeCustomers struct {
	customers map[uuid.UUID]*Customer
}

func (f *fakeCustomers) GetCustomer(_ context.Context, id uuid.UUID) (*Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, apperr.NotFound("customer not found")
	}
	return c, nil
}

type fakeMailer struct {
	sent    []string
	sendErr error
}

func (f *fakeMailer) SendQuotationEmail(_ context.Context, toEmail string, _ email.QuotationEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func newTestService(store *fakeStore, customers *fakeCustomers) *Service {
	return New(store, customers)
}

func seedCustomer(t *testing.T) (*fakeCustomers, uuid.UUID) {
	t.Helper()
	customerID := uuid.New()
	return &fakeCustomers{customers: map[uuid.UUID]*Customer{
		customerID: {ID: customerID, Name: "Juan Dela Cruz", Email: "juan@example.com", Contact: "+639171234567"},
	}}, customerID
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func createRequest(customerID uuid.UUID) transport.CreateQuotationRequest {
	return transport.CreateQuotationRequest{
		CustomerID:    customerID,
		QuotationDate: "2025-06-01",
		Items: []transport.QuotationItemRequest{
			{ProductName: "Widget", Quantity: 2, UnitPrice: decPtr("10.00")},
			{ProductName: "Gadget", Quantity: 3, UnitPrice: decPtr("5.555")},
		},
	}
}

func TestCreate_ComputesTotalsServerSide(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	resp, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.GrandTotal != "36.67" {
		t.Fatalf("expected grand total 36.67, got %s", resp.GrandTotal)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].TotalPrice != "20.00" {
		t.Fatalf("expected first line total 20.00, got %s", resp.Items[0].TotalPrice)
	}
	if resp.Items[1].TotalPrice != "16.67" {
		t.Fatalf("expected second line total 16.67, got %s", resp.Items[1].TotalPrice)
	}
	if resp.TotalItems != 5 {
		t.Fatalf("expected 5 total items, got %d", resp.TotalItems)
	}
	if resp.Items[0].SortOrder != 0 || resp.Items[1].SortOrder != 1 {
		t.Fatalf("expected input order preserved, got %d and %d", resp.Items[0].SortOrder, resp.Items[1].SortOrder)
	}
}

func TestCreate_UnknownCustomerWritesNothing(t *testing.T) {
	store := newFakeStore()
	customers, _ := seedCustomer(t)
	svc := newTestService(store, customers)

	_, err := svc.Create(context.Background(), createRequest(uuid.New()))
	if err == nil {
		t.Fatal("expected error for unknown customer")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", apperr.GetKind(err))
	}
	if len(store.quotations) != 0 {
		t.Fatalf("expected no quotations persisted, got %d", len(store.quotations))
	}
}

func TestCreate_InvalidItemFailsBeforeAnyWrite(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	req := createRequest(customerID)
	req.Items[1].Quantity = 0

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", apperr.GetKind(err))
	}
	if len(store.quotations) != 0 {
		t.Fatalf("expected no quotations persisted, got %d", len(store.quotations))
	}
}

func TestCreate_PersistenceFailureIsInternal(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection reset")
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	_, err := svc.Create(context.Background(), createRequest(customerID))
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", apperr.GetKind(err))
	}
	if len(store.quotations) != 0 {
		t.Fatalf("expected no quotations persisted, got %d", len(store.quotations))
	}
}

func TestCreate_RejectsFutureDate(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	req := createRequest(customerID)
	req.QuotationDate = time.Now().AddDate(0, 0, 2).Format(dateLayout)

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for future date")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", apperr.GetKind(err))
	}
}

func TestCreate_AcceptsTodaysUTCDate(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	req := createRequest(customerID)
	req.QuotationDate = time.Now().UTC().Format(dateLayout)

	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("expected today's date to be accepted, got %v", err)
	}
}

func TestCreate_MissingUnitPriceIsValidation(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	req := createRequest(customerID)
	req.Items[0].UnitPrice = nil

	_, err := svc.Create(context.Background(), req)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.quotations) != 0 {
		t.Fatalf("expected no quotations persisted, got %d", len(store.quotations))
	}
}

func TestUpdate_ReplacesItemSetAndRecomputesTotal(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newItems := []transport.QuotationItemRequest{
		{ProductName: "Replacement", Quantity: 1, UnitPrice: decPtr("99.99")},
	}
	resp, err := svc.Update(context.Background(), created.ID, transport.UpdateQuotationRequest{Items: &newItems})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.GrandTotal != "99.99" {
		t.Fatalf("expected grand total 99.99, got %s", resp.GrandTotal)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item after replacement, got %d", len(resp.Items))
	}
	if got := len(store.items[created.ID]); got != 1 {
		t.Fatalf("expected stored item set replaced, got %d items", got)
	}
}

func TestUpdate_DateOnlyLeavesItemsAndTotalUntouched(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newDate := "2025-05-15"
	resp, err := svc.Update(context.Background(), created.ID, transport.UpdateQuotationRequest{QuotationDate: &newDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.QuotationDate != newDate {
		t.Fatalf("expected date %s, got %s", newDate, resp.QuotationDate)
	}
	if resp.GrandTotal != created.GrandTotal {
		t.Fatalf("expected grand total unchanged (%s), got %s", created.GrandTotal, resp.GrandTotal)
	}
	if len(resp.Items) != len(created.Items) {
		t.Fatalf("expected %d items unchanged, got %d", len(created.Items), len(resp.Items))
	}
}

func TestUpdate_DateOnlyDoesNotClobberConcurrentItemReplacement(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second writer replaces the items after the date-only update has read
	// the quotation but before it writes.
	newItems := []transport.QuotationItemRequest{
		{ProductName: "Replacement", Quantity: 1, UnitPrice: decPtr("99.99")},
	}
	store.beforeUpdate = func() {
		if _, err := svc.Update(context.Background(), created.ID, transport.UpdateQuotationRequest{Items: &newItems}); err != nil {
			t.Fatalf("unexpected error in concurrent replacement: %v", err)
		}
	}

	newDate := "2025-05-15"
	if _, err := svc.Update(context.Background(), created.ID, transport.UpdateQuotationRequest{QuotationDate: &newDate}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.quotations[created.ID]
	if got := stored.GrandTotal.StringFixed(2); got != "99.99" {
		t.Fatalf("expected stored grand total 99.99 to survive the date-only update, got %s", got)
	}
	if got := stored.QuotationDate.Format(dateLayout); got != newDate {
		t.Fatalf("expected date %s, got %s", newDate, got)
	}
	if got := len(store.items[created.ID]); got != 1 {
		t.Fatalf("expected replaced item set to survive, got %d items", got)
	}
}

func TestUpdate_UnknownQuotationIsNotFound(t *testing.T) {
	store := newFakeStore()
	customers, _ := seedCustomer(t)
	svc := newTestService(store, customers)

	newDate := "2025-05-15"
	_, err := svc.Update(context.Background(), uuid.New(), transport.UpdateQuotationRequest{QuotationDate: &newDate})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", apperr.GetKind(err))
	}
}

func TestList_FiltersByCustomer(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	otherID := uuid.New()
	customers.customers[otherID] = &Customer{ID: otherID, Name: "Maria Santos", Email: "maria@example.com"}
	svc := newTestService(store, customers)

	if _, err := svc.Create(context.Background(), createRequest(customerID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	otherReq := createRequest(otherID)
	if _, err := svc.Create(context.Background(), otherReq); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.List(context.Background(), transport.ListQuotationsRequest{CustomerID: customerID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 quotation for customer, got %d", len(resp.Items))
	}
	if resp.Items[0].Customer.ID != customerID {
		t.Fatalf("expected customer %s, got %s", customerID, resp.Items[0].Customer.ID)
	}
}

func TestList_RejectsMalformedCustomerFilter(t *testing.T) {
	store := newFakeStore()
	customers, _ := seedCustomer(t)
	svc := newTestService(store, customers)

	_, err := svc.List(context.Background(), transport.ListQuotationsRequest{CustomerID: "not-a-uuid"})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", apperr.GetKind(err))
	}
}

func TestDelete_RemovesQuotationAndItems(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if len(store.items[created.ID]) != 0 {
		t.Fatal("expected items removed with quotation")
	}
}

func TestSendEmail_DeliversToCustomerAddress(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)
	mailer := &fakeMailer{}
	svc.SetMailer(mailer)

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SendEmail(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "juan@example.com" {
		t.Fatalf("expected one email to juan@example.com, got %v", mailer.sent)
	}
}

func TestSendEmail_MissingCustomerEmailIsValidation(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	customers.customers[customerID].Email = ""
	svc := newTestService(store, customers)
	svc.SetMailer(&fakeMailer{})

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SendEmail(context.Background(), created.ID)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSendEmail_DeliveryFailureLeavesQuotationIntact(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)
	svc.SetMailer(&fakeMailer{sendErr: errors.New("smtp timeout")})

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SendEmail(context.Background(), created.ID)
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); err != nil {
		t.Fatalf("expected quotation still readable, got %v", err)
	}
}

func TestSendEmail_WithoutMailerIsUnavailable(t *testing.T) {
	store := newFakeStore()
	customers, customerID := seedCustomer(t)
	svc := newTestService(store, customers)

	created, err := svc.Create(context.Background(), createRequest(customerID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SendEmail(context.Background(), created.ID)
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
