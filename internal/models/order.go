package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses mutated only through the admin API.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is a denormalized product snapshot. Items are written together
// with the order and never mutated afterwards.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Brand     string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// ShippingAddress captures the destination as entered at checkout.
type ShippingAddress struct {
	FullName string `bson:"fullName" json:"fullName"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	City     string `bson:"city" json:"city"`
	Detail   string `bson:"detail" json:"detail"`
	Note     string `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber     string              `bson:"orderNumber" json:"orderNumber"`
	UserID          *primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem         `bson:"items" json:"items"`
	ShippingAddress ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	Subtotal        float64             `bson:"subtotal" json:"subtotal"`
	Tax             float64             `bson:"tax" json:"tax"`
	Shipping        float64             `bson:"shipping" json:"shipping"`
	Discount        float64             `bson:"discount" json:"discount"`
	Total           float64             `bson:"total" json:"total"`
	CouponCode      string              `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	PaymentMethod   string              `bson:"paymentMethod" json:"paymentMethod"`
	Status          string              `bson:"status" json:"status"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
