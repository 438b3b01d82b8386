package models

import "strings"

// Owner is a registered customer as returned by /users/get-all-users.
type Owner struct {
	UserID     FlexID    `json:"userId"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Mobile     string    `json:"mobile"`
	AltMobile  string    `json:"altMobile"`
	Gender     string    `json:"gender"`
	DOB        string    `json:"dob"`
	Address    string    `json:"address"`
	Pincode    string    `json:"pincode"`
	Branch     string    `json:"branch"`
	CreatedAt  Timestamp `json:"createdAt"`
}

// NotApplicable is the placeholder the backend stores for optional name and phone fields.
const NotApplicable = "NA"

// FullName joins the name parts, skipping a placeholder middle name.
func (o Owner) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{o.FirstName, o.MiddleName, o.LastName} {
		p = strings.TrimSpace(p)
		if p == "" || p == NotApplicable {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// OwnerRegistration is the userData part of the multipart /users/register call.
type OwnerRegistration struct {
	FirstName  string `json:"firstName" form:"firstName" validate:"required"`
	MiddleName string `json:"middleName" form:"middleName"`
	LastName   string `json:"lastName" form:"lastName" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required,email"`
	Mobile     string `json:"mobile" form:"mobile" validate:"required,len=10,numeric"`
	AltMobile  string `json:"altMobile" form:"altMobile" validate:"omitempty,eq=NA|len=10"`
	Gender     string `json:"gender" form:"gender" validate:"required"`
	DOB        string `json:"dob" form:"dob" validate:"required,datetime=2006-01-02"`
	Address    string `json:"address" form:"address" validate:"required"`
	Pincode    string `json:"pincode" form:"pincode" validate:"required,len=6,numeric"`
	Branch     string `json:"branch" form:"branch" validate:"required"`
}

// Document is an uploaded identity document forwarded to the backend.
type Document struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// Document fields accepted by /users/register.
var DocumentFields = []string{"aadharCard", "panCard", "voterIdImg", "passPortImg"}
