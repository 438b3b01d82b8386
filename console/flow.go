package console

import (
	"context"
	"log"
	"sync"

	"finconsole/backend"
	"finconsole/forms"
	"finconsole/models"
)

// AccountBackend is the part of the REST API a sub-account flow mutates.
type AccountBackend interface {
	AccountFetcher
	CreateAccount(ctx context.Context, kind models.AccountKind, ownerID string, payload models.SubAccount) (models.SubAccount, error)
	UpdateAccount(ctx context.Context, kind models.AccountKind, ownerID string, payload models.SubAccount) (models.SubAccount, error)
	DeleteAccount(ctx context.Context, kind models.AccountKind, ownerID string) error
}

// AuditFunc receives one record per settled commit.
type AuditFunc func(models.CommitAudit)

// Flow is the add / update / delete modal of one account kind:
// Closed → FormOpen → ConfirmOpen → Committing → Closed.
type Flow struct {
	kind    models.AccountKind
	backend AccountBackend
	cache   *PresenceCache
	notes   *Notifier
	audit   AuditFunc

	mu sync.Mutex
	modal
	payload models.SubAccount
	// scopeGen is the cache generation the flow was opened under.
	scopeGen uint64
}

func NewFlow(kind models.AccountKind, backend AccountBackend, cache *PresenceCache, notes *Notifier, audit AuditFunc) *Flow {
	if audit == nil {
		audit = func(models.CommitAudit) {}
	}
	return &Flow{kind: kind, backend: backend, cache: cache, notes: notes, audit: audit}
}

// OpenCreate opens an empty form for an owner without the sub-account.
func (f *Flow) OpenCreate(ownerID string) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.canOpen(ownerID); err != nil {
		return f.snapshot(), err
	}
	if e, _ := f.cache.Lookup(ownerID); e.Present {
		return f.snapshot(), ErrAccountExists
	}
	f.open(StateFormOpen, models.ActionCreate, ownerID, forms.EmptyAccount(f.kind))
	f.payload = models.SubAccount{}
	f.scopeGen = f.cache.Generation()
	return f.snapshot(), nil
}

// OpenUpdate opens the form pre-populated from the cached account.
func (f *Flow) OpenUpdate(ownerID string) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.canOpen(ownerID); err != nil {
		return f.snapshot(), err
	}
	e, _ := f.cache.Lookup(ownerID)
	if !e.Present || e.Account == nil {
		return f.snapshot(), ErrNoAccount
	}
	f.open(StateFormOpen, models.ActionUpdate, ownerID, forms.AccountRaw(f.kind, *e.Account))
	f.payload = models.SubAccount{}
	f.scopeGen = f.cache.Generation()
	return f.snapshot(), nil
}

// OpenDelete skips the form and asks for confirmation directly.
func (f *Flow) OpenDelete(ownerID string) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.canOpen(ownerID); err != nil {
		return f.snapshot(), err
	}
	e, _ := f.cache.Lookup(ownerID)
	if !e.Present || e.Account == nil {
		return f.snapshot(), ErrNoAccount
	}
	f.open(StateConfirmOpen, models.ActionDelete, ownerID, nil)
	f.payload = *e.Account
	f.scopeGen = f.cache.Generation()
	return f.snapshot(), nil
}

// Validate runs the inline checks on the current input without submitting.
func (f *Flow) Validate(raw forms.Raw) (FlowSnapshot, forms.FieldErrors) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFormOpen {
		return f.snapshot(), nil
	}
	_, errs := forms.ValidateAccount(f.kind, raw)
	f.edit(raw, errs)
	return f.snapshot(), errs
}

// Submit validates the form and moves to ConfirmOpen. On validation failure
// the flow stays in FormOpen and no request is made.
func (f *Flow) Submit(raw forms.Raw) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateFormOpen {
		return f.snapshot(), ErrInvalidState
	}
	payload, errs := forms.ValidateAccount(f.kind, raw)
	f.edit(raw, errs)
	if errs != nil {
		return f.snapshot(), errs
	}
	f.payload = payload
	f.state = StateConfirmOpen
	return f.snapshot(), nil
}

// Back returns from the confirmation to the form.
func (f *Flow) Back() (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.back()
	return f.snapshot(), err
}

func (f *Flow) Cancel() (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.cancel()
	return f.snapshot(), err
}

// Confirm issues the single mutation for the owner captured at open time,
// patches the presence cache on success and closes the modal either way.
// Failures are not retried.
func (f *Flow) Confirm(ctx context.Context) (FlowSnapshot, error) {
	f.mu.Lock()
	ownerID, action, err := f.begin()
	if err != nil {
		defer f.mu.Unlock()
		return f.snapshot(), err
	}
	payload, scopeGen := f.payload, f.scopeGen
	f.mu.Unlock()

	prev, _ := f.cache.Lookup(ownerID)

	var result models.SubAccount
	switch action {
	case models.ActionCreate:
		result, err = f.backend.CreateAccount(ctx, f.kind, ownerID, payload)
	case models.ActionUpdate:
		result, err = f.backend.UpdateAccount(ctx, f.kind, ownerID, payload)
	case models.ActionDelete:
		err = f.backend.DeleteAccount(ctx, f.kind, ownerID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.finish(ownerID) {
		log.Printf("[FLOW] Ignoring %s %s result for owner %s: session closed", action, f.kind, ownerID)
		return f.snapshot(), ErrSessionClosed
	}

	entry := models.CommitAudit{Kind: string(f.kind), Action: action, OwnerID: ownerID}
	if err != nil {
		msg := backend.MessageOf(err, failureMessage(action, f.kind.Label()))
		log.Printf("[FLOW] %s %s for owner %s failed: %v", action, f.kind, ownerID, err)
		f.notes.Error(msg)
		entry.Outcome, entry.Message = models.OutcomeFailed, msg
		f.audit(entry)
		return f.settled(msg), &CommitError{Action: action, Message: msg, Err: err}
	}

	var patched Entry
	switch action {
	case models.ActionCreate:
		account := payload.Merge(result)
		patched = Entry{Present: true, Account: &account}
		entry.AccountNumber = account.AccountNumber
	case models.ActionUpdate:
		var base models.SubAccount
		if prev.Account != nil {
			base = *prev.Account
		}
		account := base.Merge(payload).Merge(result)
		patched = Entry{Present: true, Account: &account}
		entry.AccountNumber = account.AccountNumber
	case models.ActionDelete:
		entry.AccountNumber = payload.AccountNumber
	}
	if !f.cache.patchIn(scopeGen, ownerID, patched) {
		log.Printf("[FLOW] %s %s for owner %s settled after a branch switch; cache left to the next refresh", action, f.kind, ownerID)
	}

	msg := successMessage(action, f.kind.Label())
	f.notes.Success(msg)
	entry.Outcome, entry.Message = models.OutcomeSuccess, msg
	f.audit(entry)
	return f.settled(msg), nil
}

// settled is the closed modal carrying the outcome message of the last commit.
func (f *Flow) settled(msg string) FlowSnapshot {
	s := f.snapshot()
	s.Message = msg
	return s
}

// Snapshot returns the modal as the front end should render it.
func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Flow) snapshot() FlowSnapshot {
	s := f.modal.snapshot(string(f.kind))
	if f.state == StateConfirmOpen || f.state == StateCommitting {
		review := f.payload
		s.Review = review
		if maturity := models.MaturityAmount(f.kind, review); maturity.IsPositive() {
			s.Maturity = maturity.StringFixed(2)
		}
	}
	return s
}

// Close ends the flow; a commit still running is ignored when it returns.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdown()
}
