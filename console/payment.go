package console

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"finconsole/backend"
	"finconsole/forms"
	"finconsole/models"
)

// PaymentRecorder posts a daily collection payment.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, accountNumber string, payment models.PaymentRequest) (models.Transaction, error)
}

const paymentSubject = "payment"

// PaymentFlow is the pay modal of the daily collection screen.
type PaymentFlow struct {
	backend PaymentRecorder
	book    *CollectionBook
	history *HistoryView
	notes   *Notifier
	audit   AuditFunc

	mu sync.Mutex
	modal
	payload models.PaymentRequest
}

func NewPaymentFlow(backend PaymentRecorder, book *CollectionBook, history *HistoryView, notes *Notifier, audit AuditFunc) *PaymentFlow {
	if audit == nil {
		audit = func(models.CommitAudit) {}
	}
	return &PaymentFlow{backend: backend, book: book, history: history, notes: notes, audit: audit}
}

// OpenPay opens a blank payment form for an active account.
func (p *PaymentFlow) OpenPay(accountNumber string) (FlowSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.canOpen(accountNumber); err != nil {
		return p.snapshot(), err
	}
	account, ok := p.book.Get(accountNumber)
	if !ok {
		return p.snapshot(), ErrUnknownAccount
	}
	if !account.IsActive() {
		return p.snapshot(), ErrAccountInactive
	}
	p.open(StateFormOpen, models.ActionPay, accountNumber, forms.EmptyPayment())
	p.payload = models.PaymentRequest{}
	return p.snapshot(), nil
}

func (p *PaymentFlow) Validate(raw forms.Raw) (FlowSnapshot, forms.FieldErrors) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateFormOpen {
		return p.snapshot(), nil
	}
	_, errs := forms.ValidatePayment(raw)
	p.edit(raw, errs)
	return p.snapshot(), errs
}

func (p *PaymentFlow) Submit(raw forms.Raw) (FlowSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateFormOpen {
		return p.snapshot(), ErrInvalidState
	}
	payload, errs := forms.ValidatePayment(raw)
	p.edit(raw, errs)
	if errs != nil {
		return p.snapshot(), errs
	}
	p.payload = payload
	p.state = StateConfirmOpen
	return p.snapshot(), nil
}

func (p *PaymentFlow) Back() (FlowSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.back()
	return p.snapshot(), err
}

func (p *PaymentFlow) Cancel() (FlowSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.cancel()
	return p.snapshot(), err
}

// Confirm posts the payment once and, on success, prepends it to the
// account's history and grows the balance before any reload.
func (p *PaymentFlow) Confirm(ctx context.Context) (FlowSnapshot, error) {
	p.mu.Lock()
	accountNumber, action, err := p.begin()
	if err != nil {
		defer p.mu.Unlock()
		return p.snapshot(), err
	}
	payload := p.payload
	p.mu.Unlock()

	txn, err := p.backend.RecordPayment(ctx, accountNumber, payload)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.finish(accountNumber) {
		log.Printf("[FLOW] Ignoring payment result for account %s: session closed", accountNumber)
		return p.snapshot(), ErrSessionClosed
	}

	account, _ := p.book.Get(accountNumber)
	entry := models.CommitAudit{
		Kind:          "collection",
		Action:        action,
		OwnerID:       account.UserID.String(),
		AccountNumber: accountNumber,
	}
	if err != nil {
		msg := backend.MessageOf(err, failureMessage(action, paymentSubject))
		log.Printf("[FLOW] Payment for account %s failed: %v", accountNumber, err)
		p.notes.Error(msg)
		entry.Outcome, entry.Message = models.OutcomeFailed, msg
		p.audit(entry)
		return p.settled(msg), &CommitError{Action: action, Message: msg, Err: err}
	}

	if updated, ok := p.book.Append(accountNumber, completeTransaction(txn, payload)); ok && p.history != nil {
		p.history.Sync(updated)
	}
	msg := successMessage(action, paymentSubject)
	p.notes.Success(msg)
	entry.Outcome, entry.Message = models.OutcomeSuccess, msg
	p.audit(entry)
	return p.settled(msg), nil
}

func (p *PaymentFlow) settled(msg string) FlowSnapshot {
	s := p.snapshot()
	s.Message = msg
	return s
}

// completeTransaction fills what the backend left out of its answer from the request.
func completeTransaction(txn models.Transaction, req models.PaymentRequest) models.Transaction {
	if txn.ID == "" {
		txn.ID = models.FlexID(uuid.NewString())
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = models.NewTimestamp(time.Now())
	}
	if txn.Amount.IsZero() {
		txn.Amount = req.Amount
	}
	if txn.PayMode == "" {
		txn.PayMode = req.PayMode
		txn.UtrNo = req.UtrNo
		txn.Cash = req.Cash
		txn.ChequeNumber = req.ChequeNumber
	}
	if txn.Note == "" {
		txn.Note = req.Note
	}
	return txn
}

func (p *PaymentFlow) Snapshot() FlowSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *PaymentFlow) snapshot() FlowSnapshot {
	s := p.modal.snapshot("collection")
	if p.state == StateConfirmOpen || p.state == StateCommitting {
		s.Review = p.payload
	}
	return s
}

func (p *PaymentFlow) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdown()
}
