package forms

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"finconsole/models"
)

var maxInterestRate = decimal.NewFromInt(100)

type savingInput struct {
	InterestRate   string `json:"interestRate" validate:"required,numeric"`
	MinimumBalance string `json:"minimumBalance" validate:"required,numeric"`
	InitialDeposit string `json:"initialDeposit" validate:"omitempty,numeric"`
}

type fixedDepositInput struct {
	PrincipalAmount string `json:"principalAmount" validate:"required,numeric"`
	InterestRate    string `json:"interestRate" validate:"required,numeric"`
	TenureMonths    string `json:"tenureMonths" validate:"required,number"`
}

type recurringDepositInput struct {
	DepositAmount string `json:"depositAmount" validate:"required,numeric"`
	InterestRate  string `json:"interestRate" validate:"required,numeric"`
	TenureMonths  string `json:"tenureMonths" validate:"required,number"`
}

// AccountFields lists the form fields of each account kind in display order.
var AccountFields = map[models.AccountKind][]string{
	models.KindSaving:           {"interestRate", "minimumBalance", "initialDeposit"},
	models.KindFixedDeposit:     {"principalAmount", "interestRate", "tenureMonths"},
	models.KindRecurringDeposit: {"depositAmount", "interestRate", "tenureMonths"},
}

// EmptyAccount is the blank create form for kind.
func EmptyAccount(kind models.AccountKind) Raw {
	raw := Raw{}
	for _, f := range AccountFields[kind] {
		raw[f] = ""
	}
	return raw
}

// AccountRaw pre-populates an update form from cached account data.
func AccountRaw(kind models.AccountKind, a models.SubAccount) Raw {
	raw := EmptyAccount(kind)
	values := map[string]string{
		"interestRate":    decimalString(a.InterestRate),
		"minimumBalance":  decimalString(a.MinimumBalance),
		"initialDeposit":  decimalString(a.InitialDeposit),
		"principalAmount": decimalString(a.PrincipalAmount),
		"depositAmount":   decimalString(a.DepositAmount),
	}
	if a.TenureMonths > 0 {
		values["tenureMonths"] = strconv.Itoa(a.TenureMonths)
	}
	for f := range raw {
		raw[f] = values[f]
	}
	return raw
}

// ValidateAccount checks a sub-account form and builds the create/update payload.
func ValidateAccount(kind models.AccountKind, raw Raw) (models.SubAccount, FieldErrors) {
	var payload models.SubAccount
	switch kind {
	case models.KindSaving:
		in := savingInput{
			InterestRate:   raw.Get("interestRate"),
			MinimumBalance: raw.Get("minimumBalance"),
			InitialDeposit: raw.Get("initialDeposit"),
		}
		errs := check(in)
		payload.InterestRate = decimalField(errs, "interestRate", in.InterestRate, false, &maxInterestRate)
		payload.MinimumBalance = decimalField(errs, "minimumBalance", in.MinimumBalance, false, nil)
		payload.InitialDeposit = decimalField(errs, "initialDeposit", in.InitialDeposit, false, nil)
		return payload, ok(errs)

	case models.KindFixedDeposit:
		in := fixedDepositInput{
			PrincipalAmount: raw.Get("principalAmount"),
			InterestRate:    raw.Get("interestRate"),
			TenureMonths:    raw.Get("tenureMonths"),
		}
		errs := check(in)
		payload.PrincipalAmount = decimalField(errs, "principalAmount", in.PrincipalAmount, false, nil)
		payload.InterestRate = decimalField(errs, "interestRate", in.InterestRate, false, &maxInterestRate)
		payload.TenureMonths = tenure(errs, in.TenureMonths)
		return payload, ok(errs)

	case models.KindRecurringDeposit:
		in := recurringDepositInput{
			DepositAmount: raw.Get("depositAmount"),
			InterestRate:  raw.Get("interestRate"),
			TenureMonths:  raw.Get("tenureMonths"),
		}
		errs := check(in)
		payload.DepositAmount = decimalField(errs, "depositAmount", in.DepositAmount, false, nil)
		payload.InterestRate = decimalField(errs, "interestRate", in.InterestRate, false, &maxInterestRate)
		payload.TenureMonths = tenure(errs, in.TenureMonths)
		return payload, ok(errs)
	}
	return payload, FieldErrors{"kind": fmt.Sprintf("Unknown account type %q!", kind)}
}

func tenure(errs FieldErrors, value string) int {
	if _, failed := errs["tenureMonths"]; failed || value == "" {
		return 0
	}
	months, err := strconv.Atoi(value)
	if err != nil || months < 1 {
		errs["tenureMonths"] = "Tenure must be at least 1 month!"
		return 0
	}
	return months
}
