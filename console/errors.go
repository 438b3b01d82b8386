package console

import "errors"

var (
	// ErrCommitInFlight rejects opening a flow on an owner whose commit has not settled.
	ErrCommitInFlight = errors.New("a commit for this customer is already in progress")
	// ErrFlowBusy rejects changes to a modal while its commit runs.
	ErrFlowBusy = errors.New("the form is being submitted")
	// ErrInvalidState rejects a transition the current modal state does not allow.
	ErrInvalidState = errors.New("action not allowed in the current form state")
	// ErrAccountExists rejects a create for an owner the cache shows with a sub-account.
	ErrAccountExists = errors.New("customer already has this account")
	// ErrNoAccount rejects update/delete for an owner without a cached sub-account.
	ErrNoAccount = errors.New("customer has no such account")
	// ErrAccountInactive rejects payments into inactive collection accounts.
	ErrAccountInactive = errors.New("collection account is not active")
	ErrUnknownAccount  = errors.New("unknown collection account")
	ErrHistoryClosed   = errors.New("transaction history is not open")
	ErrSessionClosed   = errors.New("session has ended")
)
