package console

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finconsole/backend"
	"finconsole/forms"
	"finconsole/models"
)

func collectionFixture() []models.CollectionAccount {
	return []models.CollectionAccount{
		{
			UserID:        "U001",
			AccountNumber: "DC001",
			Name:          "John Test",
			Branch:        "North",
			AccountStatus: models.AccountStatusActive,
			Balance:       decimal.NewFromInt(500),
			Transactions:  []models.Transaction{txn("T1", "2025-05-01T10:00:00", models.PayModeCash, 500)},
		},
		{
			UserID:        "U002",
			AccountNumber: "DC002",
			Name:          "Jane Test",
			Branch:        "North",
			AccountStatus: "Closed",
			Balance:       decimal.Zero,
		},
	}
}

func newPaymentFixture(fb *fakeBackend) (*PaymentFlow, *CollectionBook, *HistoryView, *Notifier) {
	book := NewCollectionBook()
	book.Replace(collectionFixture())
	history := &HistoryView{}
	notes := &Notifier{}
	return NewPaymentFlow(fb, book, history, notes, nil), book, history, notes
}

func TestPaymentFlowPrependsTransactionAndGrowsBalance(t *testing.T) {
	fb := newFakeBackend()
	pay, book, history, notes := newPaymentFixture(fb)
	account, _ := book.Get("DC001")
	history.Open(account)

	snap, err := pay.OpenPay("DC001")
	require.NoError(t, err)
	assert.Equal(t, "Cash", snap.Form["payMode"])

	_, err = pay.Submit(forms.Raw{"amount": "250", "payMode": "imps", "utrNo": "UTR123", "note": "May instalment"})
	require.NoError(t, err)
	snap, err = pay.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateClosed, snap.State)

	account, ok := book.Get("DC001")
	require.True(t, ok)
	assert.Equal(t, "750", account.Balance.String())
	require.Len(t, account.Transactions, 2)
	first := account.Transactions[0]
	assert.Equal(t, "T-NEW", first.ID.String())
	assert.Equal(t, models.PayModeIMPS, first.PayMode)
	assert.Equal(t, "UTR123", first.Reference())
	assert.Equal(t, "250", first.Amount.String())
	assert.Equal(t, "May instalment", first.Note)
	assert.False(t, first.Timestamp.IsZero())

	_, _, rows, err := history.Rows()
	require.NoError(t, err)
	assert.Len(t, rows, 2, "an open history modal sees the new payment")
	assert.Equal(t, "Payment recorded successfully!", notes.Drain()[0].Message)
	assert.Equal(t, []string{"POST pay DC001"}, fb.callLog())
}

func TestPaymentFlowValidation(t *testing.T) {
	fb := newFakeBackend()
	pay, _, _, _ := newPaymentFixture(fb)
	_, err := pay.OpenPay("DC001")
	require.NoError(t, err)

	cases := []struct {
		raw   forms.Raw
		field string
	}{
		{forms.Raw{"amount": "", "payMode": "Cash"}, "amount"},
		{forms.Raw{"amount": "0", "payMode": "Cash"}, "amount"},
		{forms.Raw{"amount": "100", "payMode": "IMPS"}, "utrNo"},
		{forms.Raw{"amount": "100", "payMode": "Cheque"}, "chequeNumber"},
		{forms.Raw{"amount": "100", "payMode": "Crypto"}, "payMode"},
	}
	for _, tc := range cases {
		snap, err := pay.Submit(tc.raw)
		var fieldErrs forms.FieldErrors
		require.True(t, errors.As(err, &fieldErrs), "%v", tc.raw)
		assert.Contains(t, fieldErrs, tc.field)
		assert.Equal(t, StateFormOpen, snap.State)
	}
	assert.Empty(t, fb.callLog())
}

func TestPaymentFlowRejectsInactiveOrUnknownAccounts(t *testing.T) {
	pay, _, _, _ := newPaymentFixture(newFakeBackend())

	_, err := pay.OpenPay("DC002")
	assert.ErrorIs(t, err, ErrAccountInactive)
	_, err = pay.OpenPay("DC999")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestPaymentFlowFailureLeavesBookUntouched(t *testing.T) {
	fb := newFakeBackend()
	fb.mutateErr = &backend.APIError{StatusCode: 422, Message: "Amount exceeds daily limit"}
	pay, book, _, notes := newPaymentFixture(fb)

	_, err := pay.OpenPay("DC001")
	require.NoError(t, err)
	_, err = pay.Submit(forms.Raw{"amount": "100", "payMode": "Cash"})
	require.NoError(t, err)
	snap, err := pay.Confirm(context.Background())

	var commitErr *CommitError
	require.True(t, errors.As(err, &commitErr))
	assert.Equal(t, "Amount exceeds daily limit", commitErr.Message)
	assert.Equal(t, StateClosed, snap.State)

	account, _ := book.Get("DC001")
	assert.Equal(t, "500", account.Balance.String())
	assert.Len(t, account.Transactions, 1)
	assert.Equal(t, LevelError, notes.Drain()[0].Level)
}

func TestCollectionBookLoadScopesByBranch(t *testing.T) {
	fb := newFakeBackend()
	fb.collections = collectionFixture()
	book := NewCollectionBook()

	require.NoError(t, book.Load(context.Background(), fb, "North"))
	assert.Len(t, book.Accounts(), 2)

	require.NoError(t, book.Load(context.Background(), fb, "South"))
	assert.Empty(t, book.Accounts())
	_, ok := book.Get("DC001")
	assert.False(t, ok)
}
