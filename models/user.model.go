package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold. Registration always assigns RoleCustomer;
// only an admin can hand out the other two.
const (
	RoleAdmin    = "admin"
	RoleSeller   = "seller"
	RoleCustomer = "customer"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string `gorm:"not null;size:255" json:"name"`
	Email    string `gorm:"unique;not null;size:255" json:"email"`
	Password string `gorm:"not null" json:"-"`

	ShippingAddress *string `gorm:"type:text" json:"shipping_address"`
	BillingAddress  *string `gorm:"type:text" json:"billing_address"`

	Role string `gorm:"default:'customer';size:20" json:"role"` // admin, seller, customer

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSeller || role == RoleCustomer
}
