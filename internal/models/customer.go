package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles stored on the customer document. Role gating happens in middleware;
// the driver role additionally requires an active delivery_drivers row.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleDriver   = "driver"
)

// Address is a single address entry embedded in the customer document.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	FullName  string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	City      string `bson:"city" json:"city"`
	Detail    string `bson:"detail" json:"detail"`
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// PaymentMethod is a stored reference only. No card data beyond the label and
// last four digits ever reaches this service.
type PaymentMethod struct {
	ID        string `bson:"id" json:"id"`
	Type      string `bson:"type" json:"type"`
	Label     string `bson:"label" json:"label"`
	Last4     string `bson:"last4,omitempty" json:"last4,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// NotificationPrefs controls which best-effort emails the customer receives.
type NotificationPrefs struct {
	OrderUpdates bool `bson:"orderUpdates" json:"orderUpdates"`
	Promotions   bool `bson:"promotions" json:"promotions"`
	Newsletter   bool `bson:"newsletter" json:"newsletter"`
}

type Customer struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email          string               `bson:"email" json:"email"`
	PasswordHash   string               `bson:"passwordHash" json:"-"`
	FullName       string               `bson:"fullName" json:"fullName"`
	Phone          string               `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarPath     string               `bson:"avatarPath,omitempty" json:"avatarPath,omitempty"`
	Role           string               `bson:"role" json:"role"`
	IsActive       bool                 `bson:"isActive" json:"isActive"`
	Addresses      []Address            `bson:"addresses" json:"addresses"`
	PaymentMethods []PaymentMethod      `bson:"paymentMethods" json:"paymentMethods"`
	Wishlist       []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	Notifications  NotificationPrefs    `bson:"notifications" json:"notifications"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
