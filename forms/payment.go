package forms

import (
	"finconsole/models"
)

type paymentInput struct {
	Amount       string `json:"amount" validate:"required,numeric"`
	PayMode      string `json:"payMode" validate:"required,oneof=Cash IMPS Cheque"`
	UtrNo        string `json:"utrNo" validate:"required_if=PayMode IMPS"`
	ChequeNumber string `json:"chequeNumber" validate:"required_if=PayMode Cheque"`
	Note         string `json:"note" validate:"max=500"`
}

// EmptyPayment is the blank payment form; Cash is preselected.
func EmptyPayment() Raw {
	return Raw{
		"amount":       "",
		"payMode":      string(models.PayModeCash),
		"utrNo":        "",
		"chequeNumber": "",
		"note":         "",
	}
}

// ValidatePayment checks a daily collection payment. Only the reference field
// belonging to the chosen mode is carried into the request.
func ValidatePayment(raw Raw) (models.PaymentRequest, FieldErrors) {
	in := paymentInput{
		Amount:       raw.Get("amount"),
		PayMode:      raw.Get("payMode"),
		UtrNo:        raw.Get("utrNo"),
		ChequeNumber: raw.Get("chequeNumber"),
		Note:         raw.Get("note"),
	}
	if mode, known := models.ParsePayMode(in.PayMode); known {
		in.PayMode = string(mode)
	}

	errs := check(in)
	var req models.PaymentRequest
	if amount := decimalField(errs, "amount", in.Amount, true, nil); amount != nil {
		req.Amount = *amount
	}
	req.PayMode = models.PayMode(in.PayMode)
	req.Note = in.Note

	switch req.PayMode {
	case models.PayModeCash:
		cash := true
		req.Cash = &cash
	case models.PayModeIMPS:
		utr := in.UtrNo
		req.UtrNo = &utr
	case models.PayModeCheque:
		cheque := in.ChequeNumber
		req.ChequeNumber = &cheque
	}
	return req, ok(errs)
}
