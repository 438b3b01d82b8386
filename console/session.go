package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"finconsole/models"
)

// Backend is everything a session needs from the REST API.
type Backend interface {
	AccountBackend
	CollectionLister
	PaymentRecorder
	ListOwners(ctx context.Context, role string) ([]models.Owner, error)
	ListBranches(ctx context.Context) ([]string, error)
	RegisterOwner(ctx context.Context, reg models.OwnerRegistration, docs []models.Document) (json.RawMessage, error)
}

// Options configure a new session.
type Options struct {
	OwnerRole           string
	DebounceWait        time.Duration
	PresenceConcurrency int
	Location            *time.Location
	Audit               AuditFunc
}

// Session is the console state of one logged-in admin. It is created at
// login, passed explicitly to every handler and torn down at logout.
type Session struct {
	ID        string
	Admin     models.Admin
	StartedAt time.Time
	Notes     *Notifier

	backend Backend
	opts    Options
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.RWMutex
	branch   string
	branches []string
	owners   []models.Owner
	closed   bool

	customers   *OwnerView
	caches      map[models.AccountKind]*PresenceCache
	views       map[models.AccountKind]*OwnerView
	flows       map[models.AccountKind]*Flow
	collections *CollectionBook
	history     *HistoryView
	payments    *PaymentFlow
}

func NewSession(id string, admin models.Admin, b Backend, opts Options) *Session {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:          id,
		Admin:       admin,
		StartedAt:   time.Now(),
		Notes:       &Notifier{},
		backend:     b,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		branch:      admin.Branch,
		caches:      map[models.AccountKind]*PresenceCache{},
		views:       map[models.AccountKind]*OwnerView{},
		flows:       map[models.AccountKind]*Flow{},
		collections: NewCollectionBook(),
		history:     &HistoryView{},
	}

	audit := s.auditor()
	s.customers = NewOwnerView(nil, opts.DebounceWait)
	for _, kind := range models.AccountKinds {
		cache := NewPresenceCache(kind, b, opts.PresenceConcurrency, s.Notes.Warning)
		cache.Reset(s.branch)
		s.caches[kind] = cache
		s.views[kind] = NewOwnerView(cache, opts.DebounceWait)
		s.flows[kind] = NewFlow(kind, b, cache, s.Notes, audit)
	}
	s.payments = NewPaymentFlow(b, s.collections, s.history, s.Notes, audit)
	return s
}

func (s *Session) auditor() AuditFunc {
	return func(entry models.CommitAudit) {
		if s.opts.Audit == nil {
			return
		}
		entry.SessionID = s.ID
		entry.Admin = s.Admin.Username
		entry.Branch = s.Branch()
		s.opts.Audit(entry)
	}
}

// Bind derives a context that is also cancelled when the session closes.
func (s *Session) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Start loads everything the first screen needs. Only a failure to load the
// owner list is returned; the rest is reported as warnings.
func (s *Session) Start(ctx context.Context) error {
	if _, err := s.LoadBranches(ctx); err != nil {
		s.Notes.Warning("Could not load branch list.")
	}
	if err := s.LoadOwners(ctx); err != nil {
		return err
	}
	if err := s.RefreshAll(ctx); err != nil && !errors.Is(err, ErrStaleRefresh) {
		log.Printf("[SESSION] %s initial refresh: %v", s.ID, err)
	}
	return nil
}

func (s *Session) LoadBranches(ctx context.Context) ([]string, error) {
	ctx, done := s.Bind(ctx)
	defer done()
	branches, err := s.backend.ListBranches(ctx)
	if err != nil {
		log.Printf("[SESSION] %s loading branches: %v", s.ID, err)
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.branches = branches
	return append([]string(nil), branches...), nil
}

func (s *Session) Branches() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.branches...)
}

func (s *Session) Branch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branch
}

// LoadOwners fetches the owner list and feeds every view.
func (s *Session) LoadOwners(ctx context.Context) error {
	ctx, done := s.Bind(ctx)
	defer done()
	owners, err := s.backend.ListOwners(ctx, s.opts.OwnerRole)
	if err != nil {
		log.Printf("[SESSION] %s loading owners: %v", s.ID, err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.owners = owners
	s.syncViews()
	return nil
}

func (s *Session) syncViews() {
	scoped := s.scopedOwners()
	s.customers.SetOwners(scoped)
	for _, v := range s.views {
		v.SetOwners(scoped)
	}
}

func (s *Session) scopedOwners() []models.Owner {
	if s.branch == "" {
		return append([]models.Owner(nil), s.owners...)
	}
	out := make([]models.Owner, 0, len(s.owners))
	for _, o := range s.owners {
		if strings.EqualFold(o.Branch, s.branch) {
			out = append(out, o)
		}
	}
	return out
}

// Owners returns the owners of the selected branch.
func (s *Session) Owners() []models.Owner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scopedOwners()
}

// Owner finds an owner of the selected branch by ID.
func (s *Session) Owner(ownerID string) (models.Owner, bool) {
	for _, o := range s.Owners() {
		if o.UserID.String() == ownerID {
			return o, true
		}
	}
	return models.Owner{}, false
}

// SelectBranch rescopes the session. Every presence cache and the collection
// book are cleared before being rebuilt so no branch sees another's data.
// Open forms and search filters are discarded.
func (s *Session) SelectBranch(ctx context.Context, branch string) error {
	branch = strings.TrimSpace(branch)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.branch = branch
	for _, c := range s.caches {
		c.Reset(branch)
	}
	s.collections.Reset()
	s.history.Close()
	s.syncViews()
	s.mu.Unlock()

	s.customers.ResetQuery()
	for _, kind := range models.AccountKinds {
		s.views[kind].ResetQuery()
		// A commit already running keeps going; its cache patch is dropped.
		_, _ = s.flows[kind].Cancel()
	}
	_, _ = s.payments.Cancel()

	log.Printf("[SESSION] %s switched to branch %q", s.ID, branch)
	return s.RefreshAll(ctx)
}

// RefreshPresence rebuilds one kind's presence cache from the backend.
func (s *Session) RefreshPresence(ctx context.Context, kind models.AccountKind) error {
	cache, ok := s.caches[kind]
	if !ok {
		return fmt.Errorf("unknown account kind %q", kind)
	}
	ctx, done := s.Bind(ctx)
	defer done()
	return cache.Refresh(ctx, s.Owners())
}

// LoadCollections reloads the daily collection accounts of the selected branch.
func (s *Session) LoadCollections(ctx context.Context) error {
	ctx, done := s.Bind(ctx)
	defer done()
	if err := s.collections.Load(ctx, s.backend, s.Branch()); err != nil {
		log.Printf("[SESSION] %s loading collections: %v", s.ID, err)
		return err
	}
	return nil
}

// RefreshAll rebuilds every presence cache and the collection book. It keeps
// going after a failure and returns the first error.
func (s *Session) RefreshAll(ctx context.Context) error {
	var first error
	for _, kind := range models.AccountKinds {
		if err := s.RefreshPresence(ctx, kind); err != nil && first == nil {
			first = err
		}
	}
	if err := s.LoadCollections(ctx); err != nil {
		s.Notes.Warning("Could not load daily collection accounts.")
		if first == nil {
			first = err
		}
	}
	return first
}

// Reconcile re-reads owners and presence so optimistic patches cannot drift
// from the backend indefinitely.
func (s *Session) Reconcile(ctx context.Context) error {
	if err := s.LoadOwners(ctx); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

func (s *Session) Backend() Backend {
	return s.backend
}

func (s *Session) Customers() *OwnerView {
	return s.customers
}

func (s *Session) View(kind models.AccountKind) (*OwnerView, bool) {
	v, ok := s.views[kind]
	return v, ok
}

func (s *Session) Cache(kind models.AccountKind) (*PresenceCache, bool) {
	c, ok := s.caches[kind]
	return c, ok
}

func (s *Session) Flow(kind models.AccountKind) (*Flow, bool) {
	f, ok := s.flows[kind]
	return f, ok
}

func (s *Session) Collections() *CollectionBook {
	return s.collections
}

func (s *Session) Payments() *PaymentFlow {
	return s.payments
}

func (s *Session) History() *HistoryView {
	return s.history
}

// OpenHistory opens the history modal for one collection account with a fresh filter.
func (s *Session) OpenHistory(accountNumber string) (models.CollectionAccount, []models.Transaction, error) {
	account, ok := s.collections.Get(accountNumber)
	if !ok {
		return models.CollectionAccount{}, nil, ErrUnknownAccount
	}
	return account, s.history.Open(account), nil
}

func (s *Session) Location() *time.Location {
	return s.opts.Location
}

func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close tears the session down. Outstanding requests are cancelled and their
// results ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.customers.Close()
	for _, v := range s.views {
		v.Close()
	}
	for _, f := range s.flows {
		f.Close()
	}
	s.payments.Close()
	s.history.Close()
	log.Printf("[SESSION] %s closed for %s", s.ID, s.Admin.Username)
}
