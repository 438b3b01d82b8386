package console

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finconsole/backend"
	"finconsole/models"
)

// fakeBackend is an in-memory Backend with hooks for failure and blocking.
type fakeBackend struct {
	mu          sync.Mutex
	owners      []models.Owner
	branches    []string
	accounts    map[models.AccountKind]map[string]models.SubAccount
	collections []models.CollectionAccount
	lookupErr   map[string]error
	mutateErr   error
	nextNumber  string
	gate        chan struct{}
	calls       []string
	inFlight    int
	maxInFlight int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		accounts: map[models.AccountKind]map[string]models.SubAccount{
			models.KindSaving:           {},
			models.KindFixedDeposit:     {},
			models.KindRecurringDeposit: {},
		},
		lookupErr:  map[string]error{},
		nextNumber: "SA001",
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) GetAccount(ctx context.Context, kind models.AccountKind, ownerID string) (models.SubAccount, error) {
	f.record("GET " + string(kind) + " " + ownerID)
	if err := f.wait(ctx); err != nil {
		return models.SubAccount{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lookupErr[ownerID]; err != nil {
		return models.SubAccount{}, err
	}
	a, ok := f.accounts[kind][ownerID]
	if !ok {
		return models.SubAccount{}, backend.ErrNotFound
	}
	return a, nil
}

func (f *fakeBackend) CreateAccount(ctx context.Context, kind models.AccountKind, ownerID string, payload models.SubAccount) (models.SubAccount, error) {
	f.record("POST " + string(kind) + " " + ownerID)
	if err := f.wait(ctx); err != nil {
		return models.SubAccount{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.SubAccount{}, f.mutateErr
	}
	payload.AccountNumber = f.nextNumber
	f.accounts[kind][ownerID] = payload
	return models.SubAccount{AccountNumber: f.nextNumber}, nil
}

func (f *fakeBackend) UpdateAccount(ctx context.Context, kind models.AccountKind, ownerID string, payload models.SubAccount) (models.SubAccount, error) {
	f.record("PATCH " + string(kind) + " " + ownerID)
	if err := f.wait(ctx); err != nil {
		return models.SubAccount{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.SubAccount{}, f.mutateErr
	}
	f.accounts[kind][ownerID] = f.accounts[kind][ownerID].Merge(payload)
	return models.SubAccount{}, nil
}

func (f *fakeBackend) DeleteAccount(ctx context.Context, kind models.AccountKind, ownerID string) error {
	f.record("DELETE " + string(kind) + " " + ownerID)
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	delete(f.accounts[kind], ownerID)
	return nil
}

func (f *fakeBackend) ListOwners(ctx context.Context, role string) ([]models.Owner, error) {
	f.record("GET owners " + role)
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Owner(nil), f.owners...), nil
}

func (f *fakeBackend) ListBranches(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.branches...), nil
}

func (f *fakeBackend) RegisterOwner(ctx context.Context, reg models.OwnerRegistration, docs []models.Document) (json.RawMessage, error) {
	f.record("POST register")
	return json.RawMessage(`{}`), nil
}

func (f *fakeBackend) ListCollections(ctx context.Context, branch string) ([]models.CollectionAccount, error) {
	f.record("GET collections " + branch)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollectionAccount
	for _, a := range f.collections {
		if branch == "" || a.Branch == branch {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeBackend) RecordPayment(ctx context.Context, accountNumber string, payment models.PaymentRequest) (models.Transaction, error) {
	f.record("POST pay " + accountNumber)
	if err := f.wait(ctx); err != nil {
		return models.Transaction{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Transaction{}, f.mutateErr
	}
	return models.Transaction{ID: "T-NEW"}, nil
}

func owner(id, name string, created string) models.Owner {
	ts, err := models.ParseTimestamp(created)
	if err != nil {
		panic(err)
	}
	return models.Owner{UserID: models.FlexID(id), FirstName: name, MiddleName: models.NotApplicable, LastName: "Test", Mobile: "98765" + id[len(id)-3:] + "00", AltMobile: models.NotApplicable, CreatedAt: ts}
}

func at(value string) models.Timestamp {
	ts, err := models.ParseTimestamp(value)
	if err != nil {
		panic(err)
	}
	return ts
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
