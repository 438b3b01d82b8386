package console

import (
	"context"
	"sync"

	"finconsole/models"
)

// CollectionLister loads daily collection accounts.
type CollectionLister interface {
	ListCollections(ctx context.Context, branch string) ([]models.CollectionAccount, error)
}

// CollectionBook is the session's copy of the daily collection accounts.
// Account records are replaced whole, never edited in place.
type CollectionBook struct {
	mu       sync.RWMutex
	accounts []models.CollectionAccount
	index    map[string]int
	gen      uint64
	version  uint64
}

func NewCollectionBook() *CollectionBook {
	return &CollectionBook{index: map[string]int{}}
}

// Load fetches the accounts for branch and replaces the book, unless the book
// was reset while the request ran.
func (b *CollectionBook) Load(ctx context.Context, lister CollectionLister, branch string) error {
	b.mu.RLock()
	gen := b.gen
	b.mu.RUnlock()

	accounts, err := lister.ListCollections(ctx, branch)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		return ErrStaleRefresh
	}
	b.replace(accounts)
	return nil
}

func (b *CollectionBook) Replace(accounts []models.CollectionAccount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replace(accounts)
}

func (b *CollectionBook) replace(accounts []models.CollectionAccount) {
	b.accounts = append([]models.CollectionAccount(nil), accounts...)
	b.index = make(map[string]int, len(accounts))
	for i, a := range b.accounts {
		b.index[a.AccountNumber] = i
	}
	b.version++
}

// Reset empties the book and invalidates loads in flight.
func (b *CollectionBook) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.replace(nil)
}

func (b *CollectionBook) Accounts() []models.CollectionAccount {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.CollectionAccount{}, b.accounts...)
}

func (b *CollectionBook) Get(accountNumber string) (models.CollectionAccount, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.index[accountNumber]
	if !ok {
		return models.CollectionAccount{}, false
	}
	return b.accounts[i], true
}

// Append records a new payment: the transaction goes first and the balance grows.
func (b *CollectionBook) Append(accountNumber string, txn models.Transaction) (models.CollectionAccount, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.index[accountNumber]
	if !ok {
		return models.CollectionAccount{}, false
	}
	account := b.accounts[i]
	txns := make([]models.Transaction, 0, len(account.Transactions)+1)
	txns = append(txns, txn)
	account.Transactions = append(txns, account.Transactions...)
	account.Balance = account.Balance.Add(txn.Amount)
	b.accounts[i] = account
	b.version++
	return account, true
}

func (b *CollectionBook) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}
