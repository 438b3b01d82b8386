package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PayMode is how a daily collection payment was received.
type PayMode string

const (
	PayModeCash   PayMode = "Cash"
	PayModeIMPS   PayMode = "IMPS"
	PayModeCheque PayMode = "Cheque"
)

var PayModes = []PayMode{PayModeCash, PayModeIMPS, PayModeCheque}

// ParsePayMode matches case-insensitively and reports whether value is known.
func ParsePayMode(value string) (PayMode, bool) {
	for _, m := range PayModes {
		if strings.EqualFold(string(m), strings.TrimSpace(value)) {
			return m, true
		}
	}
	return "", false
}

// Transaction is an immutable entry in a collection account's history.
type Transaction struct {
	ID           FlexID          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	PayMode      PayMode         `json:"payMode"`
	UtrNo        *string         `json:"utrNo"`
	Cash         *bool           `json:"cash"`
	ChequeNumber *string         `json:"chequeNumber"`
	Note         string          `json:"note"`
	Timestamp    Timestamp       `json:"timestamp"`
}

// Reference returns the mode-specific reference (UTR or cheque number).
func (t Transaction) Reference() string {
	switch {
	case t.UtrNo != nil:
		return *t.UtrNo
	case t.ChequeNumber != nil:
		return *t.ChequeNumber
	}
	return ""
}

// PaymentRequest is the body of POST /collections/{accountNumber}/pay.
type PaymentRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	PayMode      PayMode         `json:"payMode"`
	UtrNo        *string         `json:"utrNo"`
	Cash         *bool           `json:"cash"`
	ChequeNumber *string         `json:"chequeNumber"`
	Note         string          `json:"note"`
}

const AccountStatusActive = "Active"

// CollectionAccount is a daily collection account with its payment history.
type CollectionAccount struct {
	UserID        FlexID          `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	Branch        string          `json:"branch,omitempty"`
	CreatedAt     Timestamp       `json:"createdAt"`
	AccountStatus string          `json:"accountStatus"`
	Balance       decimal.Decimal `json:"balance"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	Transactions  []Transaction   `json:"transactions"`
}

func (a CollectionAccount) IsActive() bool {
	return strings.EqualFold(a.AccountStatus, AccountStatusActive)
}
