package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountKind discriminates the sub-account types an owner can hold.
type AccountKind string

const (
	KindSaving           AccountKind = "saving"
	KindFixedDeposit     AccountKind = "fd"
	KindRecurringDeposit AccountKind = "rd"
)

var AccountKinds = []AccountKind{KindSaving, KindFixedDeposit, KindRecurringDeposit}

func ParseAccountKind(value string) (AccountKind, error) {
	switch AccountKind(strings.ToLower(strings.TrimSpace(value))) {
	case KindSaving, "savings":
		return KindSaving, nil
	case KindFixedDeposit, "fixed-deposit":
		return KindFixedDeposit, nil
	case KindRecurringDeposit, "recurring-deposit":
		return KindRecurringDeposit, nil
	}
	return "", fmt.Errorf("unknown account kind %q", value)
}

// Label is the human name used in notifications.
func (k AccountKind) Label() string {
	switch k {
	case KindSaving:
		return "saving account"
	case KindFixedDeposit:
		return "fixed deposit"
	case KindRecurringDeposit:
		return "recurring deposit"
	}
	return string(k)
}

// SubAccount is the savings / FD / RD record attached to one owner. It doubles
// as the create/update payload, in which case AccountNumber is empty.
type SubAccount struct {
	AccountNumber   string           `json:"accountNumber,omitempty"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	MinimumBalance  *decimal.Decimal `json:"minimumBalance,omitempty"`
	InitialDeposit  *decimal.Decimal `json:"initialDeposit,omitempty"`
	PrincipalAmount *decimal.Decimal `json:"principalAmount,omitempty"`
	DepositAmount   *decimal.Decimal `json:"depositAmount,omitempty"`
	TenureMonths    int              `json:"tenureMonths,omitempty"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	Status          string           `json:"status,omitempty"`
	CreatedAt       *Timestamp       `json:"createdAt,omitempty"`
}

// Merge overlays the non-empty fields of other onto a copy of a.
func (a SubAccount) Merge(other SubAccount) SubAccount {
	out := a
	if other.AccountNumber != "" {
		out.AccountNumber = other.AccountNumber
	}
	if other.InterestRate != nil {
		out.InterestRate = other.InterestRate
	}
	if other.MinimumBalance != nil {
		out.MinimumBalance = other.MinimumBalance
	}
	if other.InitialDeposit != nil {
		out.InitialDeposit = other.InitialDeposit
	}
	if other.PrincipalAmount != nil {
		out.PrincipalAmount = other.PrincipalAmount
	}
	if other.DepositAmount != nil {
		out.DepositAmount = other.DepositAmount
	}
	if other.TenureMonths != 0 {
		out.TenureMonths = other.TenureMonths
	}
	if other.Balance != nil {
		out.Balance = other.Balance
	}
	if other.Status != "" {
		out.Status = other.Status
	}
	if other.CreatedAt != nil {
		out.CreatedAt = other.CreatedAt
	}
	return out
}

// Principal is the amount the account currently holds for reporting.
func (a SubAccount) Principal() decimal.Decimal {
	switch {
	case a.Balance != nil:
		return *a.Balance
	case a.PrincipalAmount != nil:
		return *a.PrincipalAmount
	case a.DepositAmount != nil && a.TenureMonths > 0:
		return a.DepositAmount.Mul(decimal.NewFromInt(int64(a.TenureMonths)))
	case a.InitialDeposit != nil:
		return *a.InitialDeposit
	}
	return decimal.Zero
}

// MaturityAmount estimates the payout with simple interest. Fixed deposits
// accrue on the principal, recurring deposits on the total instalments.
func MaturityAmount(kind AccountKind, a SubAccount) decimal.Decimal {
	if a.InterestRate == nil || a.TenureMonths <= 0 {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(a.TenureMonths))
	var principal decimal.Decimal
	switch kind {
	case KindFixedDeposit:
		if a.PrincipalAmount == nil {
			return decimal.Zero
		}
		principal = *a.PrincipalAmount
	case KindRecurringDeposit:
		if a.DepositAmount == nil {
			return decimal.Zero
		}
		principal = a.DepositAmount.Mul(months)
	default:
		return decimal.Zero
	}
	interest := principal.Mul(*a.InterestRate).Mul(months).Div(decimal.NewFromInt(1200))
	return principal.Add(interest).Round(2)
}
