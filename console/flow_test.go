package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finconsole/backend"
	"finconsole/forms"
	"finconsole/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// accountServer serves the per-kind account endpoints for one kind.
type accountServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	accounts map[string]string
}

func (s *accountServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/saving/get-by-userId/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		id := r.URL.Path[len("/api/saving/get-by-userId/"):]
		s.mu.Lock()
		number, ok := s.accounts[id]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Saving account not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"accountNumber": number, "interestRate": 4, "minimumBalance": 100})
	})
	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accountNumber":"SA001"}`))
	})
	return mux
}

func (s *accountServer) record(r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
}

func (s *accountServer) mutations() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedRequest
	for _, r := range s.requests {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

func newHTTPFlow(t *testing.T, srv *accountServer) (*Flow, *PresenceCache, *Notifier) {
	ts := httptest.NewServer(srv.handler(t))
	t.Cleanup(ts.Close)
	client := backend.New(ts.URL+"/api", 5*time.Second)
	notes := &Notifier{}
	cache := NewPresenceCache(models.KindSaving, client, 4, notes.Warning)
	return NewFlow(models.KindSaving, client, cache, notes, nil), cache, notes
}

func TestFlowCreateCommitsOnceAndPatchesCache(t *testing.T) {
	srv := &accountServer{accounts: map[string]string{}}
	flow, cache, notes := newHTTPFlow(t, srv)
	require.NoError(t, cache.Refresh(context.Background(), []models.Owner{owner("U001", "John", "2025-05-15T10:00:00")}))

	snap, err := flow.OpenCreate("U001")
	require.NoError(t, err)
	assert.Equal(t, StateFormOpen, snap.State)
	assert.Equal(t, forms.Raw{"interestRate": "", "minimumBalance": "", "initialDeposit": ""}, snap.Form)

	snap, err = flow.Submit(forms.Raw{"interestRate": "4.5", "minimumBalance": "500", "initialDeposit": "1000"})
	require.NoError(t, err)
	assert.Equal(t, StateConfirmOpen, snap.State)
	assert.Empty(t, srv.mutations(), "submitting only moves to confirmation")

	snap, err = flow.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateClosed, snap.State)
	assert.Empty(t, snap.Form)

	muts := srv.mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, http.MethodPost, muts[0].Method)
	assert.Equal(t, "/api/accounts/U001/saving", muts[0].Path)
	assert.Equal(t, 4.5, muts[0].Body["interestRate"])
	assert.Equal(t, float64(500), muts[0].Body["minimumBalance"])
	assert.Equal(t, float64(1000), muts[0].Body["initialDeposit"])

	e, ok := cache.Lookup("U001")
	require.True(t, ok)
	require.True(t, e.Present)
	assert.Equal(t, "SA001", e.Account.AccountNumber)
	assert.Equal(t, "4.5", e.Account.InterestRate.String())
	assert.Equal(t, "500", e.Account.MinimumBalance.String())
	assert.Equal(t, "1000", e.Account.InitialDeposit.String())

	toasts := notes.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, LevelSuccess, toasts[0].Level)
	assert.Equal(t, "Saving account created successfully!", toasts[0].Message)
}

func TestFlowSubmitBlocksOnMissingFields(t *testing.T) {
	fb := newFakeBackend()
	notes := &Notifier{}
	cache := NewPresenceCache(models.KindSaving, fb, 4, nil)
	flow := NewFlow(models.KindSaving, fb, cache, notes, nil)

	_, err := flow.OpenCreate("U001")
	require.NoError(t, err)

	snap, err := flow.Submit(forms.Raw{"interestRate": "", "minimumBalance": "500"})
	var fieldErrs forms.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "interestRate")
	assert.Equal(t, StateFormOpen, snap.State)
	assert.Equal(t, forms.MsgRequiredFields, snap.Message)
	assert.Equal(t, "500", snap.Form["minimumBalance"])
	assert.Empty(t, fb.callLog())
	assert.Empty(t, notes.Peek())

	_, err = flow.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, fb.callLog())
}

func TestPresenceNotFoundOffersAdd(t *testing.T) {
	srv := &accountServer{accounts: map[string]string{"U001": "SA001"}}
	_, cache, notes := newHTTPFlow(t, srv)
	view := NewOwnerView(cache, 0)
	defer view.Close()

	owners := []models.Owner{
		owner("U001", "John", "2025-05-15T10:00:00"),
		owner("U002", "Jane", "2025-05-16T10:00:00"),
	}
	view.SetOwners(owners)
	require.NoError(t, cache.Refresh(context.Background(), owners))

	e, ok := cache.Lookup("U002")
	require.True(t, ok)
	assert.False(t, e.Present)
	assert.Empty(t, notes.Peek())

	rows := view.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "U002", rows[0].UserID.String())
	assert.True(t, rows[0].Checked)
	assert.Equal(t, []string{ActionAdd}, rows[0].Actions)
	assert.Equal(t, []string{ActionUpdate, ActionDelete}, rows[1].Actions)
}

func TestFlowFailureClosesWithBackendMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &backend.APIError{StatusCode: 400, Message: "Saving account already exists for user"}, "Saving account already exists for user"},
		{"no message", &backend.APIError{StatusCode: 500}, "Failed to create saving account"},
		{"transport", &backend.TransportError{Op: "create saving account", Err: errors.New("connection refused")}, "Failed to create saving account"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.mutateErr = tc.err
			notes := &Notifier{}
			cache := NewPresenceCache(models.KindSaving, fb, 4, nil)
			var audits []models.CommitAudit
			flow := NewFlow(models.KindSaving, fb, cache, notes, func(a models.CommitAudit) { audits = append(audits, a) })

			_, err := flow.OpenCreate("U001")
			require.NoError(t, err)
			_, err = flow.Submit(forms.Raw{"interestRate": "4", "minimumBalance": "0"})
			require.NoError(t, err)

			snap, err := flow.Confirm(context.Background())
			var commitErr *CommitError
			require.True(t, errors.As(err, &commitErr))
			assert.Equal(t, tc.want, commitErr.Message)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, StateClosed, snap.State)

			e, _ := cache.Lookup("U001")
			assert.False(t, e.Present)
			toasts := notes.Drain()
			require.Len(t, toasts, 1)
			assert.Equal(t, LevelError, toasts[0].Level)
			assert.Equal(t, tc.want, toasts[0].Message)

			require.Len(t, audits, 1)
			assert.Equal(t, models.OutcomeFailed, audits[0].Outcome)
			assert.Equal(t, 1, countCalls(fb, "POST saving U001"), "failures are not retried")
		})
	}
}

func countCalls(fb *fakeBackend, call string) int {
	n := 0
	for _, c := range fb.callLog() {
		if c == call {
			n++
		}
	}
	return n
}

func TestFlowUpdateMergesIntoCachedAccount(t *testing.T) {
	fb := newFakeBackend()
	fb.accounts[models.KindSaving]["U001"] = models.SubAccount{}
	cache := NewPresenceCache(models.KindSaving, fb, 4, nil)
	flow := NewFlow(models.KindSaving, fb, cache, &Notifier{}, nil)

	rate := decimalPtr("4.5")
	minimum := decimalPtr("500")
	cache.PatchPresent("U001", models.SubAccount{AccountNumber: "SA001", InterestRate: rate, MinimumBalance: minimum})

	_, err := flow.OpenCreate("U001")
	assert.ErrorIs(t, err, ErrAccountExists)

	snap, err := flow.OpenUpdate("U001")
	require.NoError(t, err)
	assert.Equal(t, "4.5", snap.Form["interestRate"])
	assert.Equal(t, "500", snap.Form["minimumBalance"])
	assert.Equal(t, "", snap.Form["initialDeposit"])

	_, err = flow.Submit(forms.Raw{"interestRate": "5.25", "minimumBalance": "500"})
	require.NoError(t, err)
	snap, err = flow.Back()
	require.NoError(t, err)
	assert.Equal(t, StateFormOpen, snap.State)
	_, err = flow.Submit(forms.Raw{"interestRate": "5.25", "minimumBalance": "750"})
	require.NoError(t, err)
	_, err = flow.Confirm(context.Background())
	require.NoError(t, err)

	e, _ := cache.Lookup("U001")
	require.True(t, e.Present)
	assert.Equal(t, "SA001", e.Account.AccountNumber)
	assert.Equal(t, "5.25", e.Account.InterestRate.String())
	assert.Equal(t, "750", e.Account.MinimumBalance.String())
	assert.Equal(t, []string{"PATCH saving U001"}, fb.callLog())
}

func TestFlowDeleteGoesStraightToConfirm(t *testing.T) {
	fb := newFakeBackend()
	fb.accounts[models.KindSaving]["U001"] = models.SubAccount{AccountNumber: "SA001"}
	notes := &Notifier{}
	cache := NewPresenceCache(models.KindSaving, fb, 4, nil)
	flow := NewFlow(models.KindSaving, fb, cache, notes, nil)

	_, err := flow.OpenDelete("U001")
	assert.ErrorIs(t, err, ErrNoAccount)

	cache.PatchPresent("U001", models.SubAccount{AccountNumber: "SA001"})
	snap, err := flow.OpenDelete("U001")
	require.NoError(t, err)
	assert.Equal(t, StateConfirmOpen, snap.State)
	_, err = flow.Back()
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = flow.Confirm(context.Background())
	require.NoError(t, err)
	e, ok := cache.Lookup("U001")
	assert.True(t, ok)
	assert.False(t, e.Present)
	assert.Equal(t, "Saving account deleted successfully!", notes.Drain()[0].Message)
}

func TestFlowRejectsOpenWhileCommitInFlight(t *testing.T) {
	fb := newFakeBackend()
	fb.gate = make(chan struct{})
	cache := NewPresenceCache(models.KindSaving, fb, 4, nil)
	flow := NewFlow(models.KindSaving, fb, cache, &Notifier{}, nil)

	_, err := flow.OpenCreate("U001")
	require.NoError(t, err)
	_, err = flow.Submit(forms.Raw{"interestRate": "4", "minimumBalance": "100"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Confirm(context.Background())
		done <- err
	}()
	require.True(t, waitFor(func() bool { return flow.Snapshot().State == StateCommitting }))

	_, err = flow.OpenCreate("U001")
	assert.ErrorIs(t, err, ErrCommitInFlight)
	_, err = flow.OpenCreate("U002")
	assert.ErrorIs(t, err, ErrFlowBusy)
	_, err = flow.Cancel()
	assert.ErrorIs(t, err, ErrFlowBusy)
	_, err = flow.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)

	close(fb.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, countCalls(fb, "POST saving U001"))

	_, err = flow.OpenCreate("U002")
	assert.NoError(t, err)
	snap, err := flow.Cancel()
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, snap.State)
}

func TestFlowIgnoresResultAfterClose(t *testing.T) {
	fb := newFakeBackend()
	fb.gate = make(chan struct{})
	notes := &Notifier{}
	cache := NewPresenceCache(models.KindSaving, fb, 4, nil)
	flow := NewFlow(models.KindSaving, fb, cache, notes, nil)

	_, err := flow.OpenCreate("U001")
	require.NoError(t, err)
	_, err = flow.Submit(forms.Raw{"interestRate": "4", "minimumBalance": "100"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Confirm(context.Background())
		done <- err
	}()
	require.True(t, waitFor(func() bool { return flow.Snapshot().State == StateCommitting }))

	flow.Close()
	close(fb.gate)
	assert.ErrorIs(t, <-done, ErrSessionClosed)

	_, ok := cache.Lookup("U001")
	assert.False(t, ok)
	assert.Empty(t, notes.Peek())
}

func TestFlowSnapshotShowsMaturityForDeposits(t *testing.T) {
	fb := newFakeBackend()
	cache := NewPresenceCache(models.KindFixedDeposit, fb, 4, nil)
	flow := NewFlow(models.KindFixedDeposit, fb, cache, &Notifier{}, nil)

	_, err := flow.OpenCreate("U001")
	require.NoError(t, err)
	snap, err := flow.Submit(forms.Raw{"principalAmount": "10000", "interestRate": "6", "tenureMonths": "12"})
	require.NoError(t, err)
	assert.Equal(t, "10600.00", snap.Maturity)
}
