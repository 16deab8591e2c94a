package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"essence-backend/internal/models"
)

type driverPaymentRow struct {
	DriverID   primitive.ObjectID `json:"driverId"`
	DriverName string             `json:"driverName"`
	IsActive   bool               `json:"isActive"`
	Summary    paymentSummary     `json:"summary"`
}

/*
GET /admin/api/payments
- settlement view: every driver with delivered totals and commission
*/
func GetDriverPayments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		settings := loadStoreSettings(ctx, db)

		cursor, err := db.Collection("delivery_drivers").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		var drivers []models.DeliveryDriver
		if err := cursor.All(ctx, &drivers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		deliveredByDriver, err := deliveredAssignmentsByDriver(ctx, db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		rows := make([]driverPaymentRow, 0, len(drivers))
		for _, driver := range drivers {
			rows = append(rows, driverPaymentRow{
				DriverID:   driver.ID,
				DriverName: driver.FullName,
				IsActive:   driver.IsActive,
				Summary:    driverPaymentSummary(deliveredByDriver[driver.ID], settings.DriverCommission),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"data":           rows,
			"commissionRate": settings.DriverCommission,
		})
	}
}

func deliveredAssignmentsByDriver(ctx context.Context, db *mongo.Database) (map[primitive.ObjectID][]models.DeliveryAssignment, error) {
	cursor, err := db.Collection("delivery_assignments").Find(ctx, bson.M{
		"status": models.AssignmentStatusDelivered,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.DeliveryAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}

	byDriver := make(map[primitive.ObjectID][]models.DeliveryAssignment)
	for _, a := range assignments {
		byDriver[a.DriverID] = append(byDriver[a.DriverID], a)
	}
	return byDriver, nil
}
