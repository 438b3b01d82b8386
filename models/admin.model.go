package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is the authenticated console operator as returned by /admins/login.
type Admin struct {
	ID       FlexID `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Branch   string `json:"branch"`
	Token    string `json:"token,omitempty"`
}

// AdminCredentials is the body of a console login.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminRegistration is the body of POST /admins/register.
type AdminRegistration struct {
	FullName        string `json:"fullName" validate:"required"`
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,len=10,numeric"`
	Gender          string `json:"gender" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role,omitempty"`
	Branch          string `json:"branch,omitempty"`
}

// AdminLogin tracks console login attempts.
type AdminLogin struct {
	gorm.Model
	Username  string    `gorm:"type:varchar(100);index" json:"username"`
	SessionID string    `gorm:"type:varchar(64)" json:"sessionId"`
	IPAddress string    `json:"ipAddress"`
	Device    string    `json:"device"`
	Success   bool      `gorm:"default:false" json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

func (AdminLogin) TableName() string {
	return "admin_logins"
}
