// Package forms holds the console's form schemas. Each entity type has one
// validation entry point returning either a typed payload or field errors, and
// the same function serves inline validation and pre-submit checks.
package forms

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Raw is a form exactly as typed into the browser.
type Raw map[string]string

// Get returns the trimmed value of field.
func (r Raw) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Clone copies r so callers can keep it past further edits.
func (r Raw) Clone() Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

const (
	MsgRequiredFields = "Please fill all required fields!"
	MsgInvalidFields  = "Please correct the highlighted fields!"
)

// FieldErrors maps a form field to its inline message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Summary is the form-level message shown above the fields.
func (e FieldErrors) Summary() string {
	for _, msg := range e {
		if strings.HasSuffix(msg, " is required!") {
			return MsgRequiredFields
		}
	}
	return MsgInvalidFields
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var labels = map[string]string{
	"interestRate":    "Interest rate",
	"minimumBalance":  "Minimum balance",
	"initialDeposit":  "Initial deposit",
	"principalAmount": "Principal amount",
	"depositAmount":   "Deposit amount",
	"tenureMonths":    "Tenure",
	"amount":          "Amount",
	"payMode":         "Payment mode",
	"utrNo":           "UTR number",
	"chequeNumber":    "Cheque number",
	"note":            "Note",
	"firstName":       "First name",
	"lastName":        "Last name",
	"email":           "Email",
	"mobile":          "Mobile number",
	"altMobile":       "Alternate mobile number",
	"gender":          "Gender",
	"dob":             "Date of birth",
	"address":         "Address",
	"pincode":         "Pincode",
	"branch":          "Branch",
	"fullName":        "Full name",
	"username":        "Username",
	"phone":           "Phone number",
	"password":        "Password",
	"confirmPassword": "Confirm password",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func messageFor(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required", "required_if":
		return name + " is required!"
	case "numeric", "number":
		return name + " must be a number!"
	case "email":
		return "Invalid email!"
	case "len":
		return name + " must be " + fe.Param() + " digits long!"
	case "min":
		return name + " must be at least " + fe.Param() + " characters long!"
	case "max":
		return name + " must be at most " + fe.Param() + " characters long!"
	case "oneof":
		return name + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ") + "!"
	case "eqfield":
		return "Passwords do not match!"
	case "datetime":
		return name + " must be a date (YYYY-MM-DD)!"
	}
	return name + " is invalid!"
}

// check runs struct validation and converts the outcome to FieldErrors.
func check(input interface{}) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(input)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			errs[fe.Field()] = messageFor(fe)
		}
	}
	return errs
}

// decimalField parses a value that already passed the numeric tag and enforces bounds.
func decimalField(errs FieldErrors, field, value string, positive bool, max *decimal.Decimal) *decimal.Decimal {
	if value == "" {
		return nil
	}
	if _, failed := errs[field]; failed {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		errs[field] = label(field) + " must be a number!"
		return nil
	}
	switch {
	case positive && !d.IsPositive():
		errs[field] = label(field) + " must be greater than 0!"
		return nil
	case d.IsNegative():
		errs[field] = label(field) + " cannot be negative!"
		return nil
	case max != nil && d.GreaterThan(*max):
		errs[field] = label(field) + " cannot exceed " + max.String() + "!"
		return nil
	}
	return &d
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func ok(errs FieldErrors) FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
