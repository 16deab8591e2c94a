package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingConfig is an admin-managed flat shipping price for one city.
type ShippingConfig struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	City          string             `bson:"city" json:"city"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// StoreSettings is a singleton document holding storewide rates.
type StoreSettings struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoreName          string             `bson:"storeName" json:"storeName"`
	TaxRate            float64            `bson:"taxRate" json:"taxRate"`
	DriverCommission   float64            `bson:"driverCommission" json:"driverCommission"`
	OrderEmailsEnabled bool               `bson:"orderEmailsEnabled" json:"orderEmailsEnabled"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
