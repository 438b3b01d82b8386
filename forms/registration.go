package forms

import (
	"regexp"
	"strings"

	"finconsole/models"
)

var passwordPattern = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{8,}$`)

// NormalizeOwner fills the backend placeholders for optional fields.
func NormalizeOwner(reg models.OwnerRegistration) models.OwnerRegistration {
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.MiddleName = strings.TrimSpace(reg.MiddleName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Mobile = strings.TrimSpace(reg.Mobile)
	reg.AltMobile = strings.TrimSpace(reg.AltMobile)
	if reg.MiddleName == "" {
		reg.MiddleName = models.NotApplicable
	}
	if reg.AltMobile == "" {
		reg.AltMobile = models.NotApplicable
	}
	return reg
}

// ValidateOwner checks a customer registration after normalisation.
func ValidateOwner(reg models.OwnerRegistration) FieldErrors {
	return ok(check(reg))
}

// ValidateAdmin checks an admin sign-up. The password needs a letter, a digit
// and one of @$!%*#?&.
func ValidateAdmin(reg models.AdminRegistration) FieldErrors {
	errs := check(reg)
	if _, failed := errs["password"]; !failed && !strongPassword(reg.Password) {
		errs["password"] = "Password must be at least 8 characters and include a letter, a number and a special character!"
	}
	return ok(errs)
}

func strongPassword(p string) bool {
	return passwordPattern.MatchString(p) &&
		strings.ContainsAny(p, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
		strings.ContainsAny(p, "0123456789") &&
		strings.ContainsAny(p, "@$!%*#?&")
}
