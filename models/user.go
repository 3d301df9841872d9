package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a storefront customer. Customers are created implicitly
// at checkout, keyed by their normalized email address.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	Phone     string         `gorm:"not null" json:"phone"`
	Orders    []Order        `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Address represents a shipping address. A fresh row is created for every
// order; addresses are never reused across orders.
type Address struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Phone        string    `gorm:"not null" json:"phone"`
	AddressLine1 string    `gorm:"not null" json:"address_line1"`
	AddressLine2 *string   `json:"address_line2"`
	City         string    `gorm:"not null" json:"city"`
	State        string    `gorm:"not null" json:"state"`
	Pincode      string    `gorm:"not null" json:"pincode"`
	Country      string    `gorm:"not null" json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}
