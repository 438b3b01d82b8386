package console

import (
	"strings"

	"finconsole/forms"
	"finconsole/models"
)

// FlowState is the state of a two-phase commit modal.
type FlowState string

const (
	StateClosed      FlowState = "closed"
	StateFormOpen    FlowState = "formOpen"
	StateConfirmOpen FlowState = "confirmOpen"
	StateCommitting  FlowState = "committing"
)

// FlowSnapshot is what the front end renders for a modal.
type FlowSnapshot struct {
	Kind     string              `json:"kind"`
	State    FlowState           `json:"state"`
	Action   models.CommitAction `json:"action,omitempty"`
	Target   string              `json:"target,omitempty"`
	Form     forms.Raw           `json:"form,omitempty"`
	Errors   forms.FieldErrors   `json:"errors,omitempty"`
	Message  string              `json:"message,omitempty"`
	Review   interface{}         `json:"review,omitempty"`
	Maturity string              `json:"maturityAmount,omitempty"`
}

// CommitError is a mutation the backend rejected or that never reached it.
// Message is what the admin was shown.
type CommitError struct {
	Action  models.CommitAction
	Message string
	Err     error
}

func (e *CommitError) Error() string {
	return e.Message
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// modal holds the state shared by every form → confirm → commit flow. The
// embedding flow guards it with its own mutex.
type modal struct {
	state    FlowState
	action   models.CommitAction
	target   string
	form     forms.Raw
	errors   forms.FieldErrors
	message  string
	inflight map[string]struct{}
	closed   bool
}

func (m *modal) canOpen(target string) error {
	if m.closed {
		return ErrSessionClosed
	}
	if _, busy := m.inflight[target]; busy {
		return ErrCommitInFlight
	}
	if m.state == StateCommitting {
		return ErrFlowBusy
	}
	return nil
}

func (m *modal) open(state FlowState, action models.CommitAction, target string, form forms.Raw) {
	m.state = state
	m.action = action
	m.target = target
	m.form = form
	m.errors = nil
	m.message = ""
}

func (m *modal) reset() {
	m.open(StateClosed, "", "", nil)
}

// edit records form input and errors without changing state.
func (m *modal) edit(raw forms.Raw, errs forms.FieldErrors) {
	m.form = raw.Clone()
	m.errors = errs
	m.message = ""
	if errs != nil {
		m.message = errs.Summary()
	}
}

// begin moves ConfirmOpen to Committing and captures the target chosen at open time.
func (m *modal) begin() (string, models.CommitAction, error) {
	if m.closed {
		return "", "", ErrSessionClosed
	}
	if m.state != StateConfirmOpen {
		return "", "", ErrInvalidState
	}
	if m.inflight == nil {
		m.inflight = map[string]struct{}{}
	}
	m.state = StateCommitting
	m.inflight[m.target] = struct{}{}
	return m.target, m.action, nil
}

// finish releases target and closes the modal. It reports false when the
// session ended meanwhile and the outcome must be ignored.
func (m *modal) finish(target string) bool {
	delete(m.inflight, target)
	if m.closed {
		return false
	}
	m.reset()
	return true
}

func (m *modal) back() error {
	if m.state != StateConfirmOpen || m.action == models.ActionDelete {
		return ErrInvalidState
	}
	m.state = StateFormOpen
	return nil
}

func (m *modal) cancel() error {
	if m.state == StateCommitting {
		return ErrFlowBusy
	}
	m.reset()
	return nil
}

func (m *modal) shutdown() {
	m.closed = true
	if m.state != StateCommitting {
		m.reset()
	}
}

func (m *modal) snapshot(kind string) FlowSnapshot {
	return FlowSnapshot{
		Kind:    kind,
		State:   m.state,
		Action:  m.action,
		Target:  m.target,
		Form:    m.form,
		Errors:  m.errors,
		Message: m.message,
	}
}

var actionVerbs = map[models.CommitAction][2]string{
	models.ActionCreate: {"create", "created"},
	models.ActionUpdate: {"update", "updated"},
	models.ActionDelete: {"delete", "deleted"},
	models.ActionPay:    {"record", "recorded"},
}

func successMessage(action models.CommitAction, subject string) string {
	return capitalize(subject) + " " + actionVerbs[action][1] + " successfully!"
}

func failureMessage(action models.CommitAction, subject string) string {
	return "Failed to " + actionVerbs[action][0] + " " + subject
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
