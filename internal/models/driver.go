package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment statuses. Transitions are strictly forward:
// assigned -> picked_up -> delivered. There is no revert path.
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusPickedUp  = "picked_up"
	AssignmentStatusDelivered = "delivered"
	AssignmentStatusCancelled = "cancelled"
)

type DeliveryDriver struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	VehicleType  string             `bson:"vehicleType,omitempty" json:"vehicleType,omitempty"`
	VehiclePlate string             `bson:"vehiclePlate,omitempty" json:"vehiclePlate,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type DeliveryAssignment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID      primitive.ObjectID `bson:"driverId" json:"driverId"`
	OrderID       primitive.ObjectID `bson:"orderId" json:"orderId"`
	Status        string             `bson:"status" json:"status"`
	AssignedAt    time.Time          `bson:"assignedAt" json:"assignedAt"`
	PickedUpAt    *time.Time         `bson:"pickedUpAt,omitempty" json:"pickedUpAt,omitempty"`
	DeliveredAt   *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CashCollected *float64           `bson:"cashCollected,omitempty" json:"cashCollected,omitempty"`
}

// AssignmentPrecondition returns the status an assignment must currently hold
// for it to move into next. Unknown or terminal targets return false.
func AssignmentPrecondition(next string) (string, bool) {
	switch next {
	case AssignmentStatusPickedUp:
		return AssignmentStatusAssigned, true
	case AssignmentStatusDelivered:
		return AssignmentStatusPickedUp, true
	}
	return "", false
}
