package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"essence-backend/internal/models"
)

type deliverRequest struct {
	CashCollected *float64 `json:"cashCollected"`
}

// validateDeliverRequest gates the delivered transition. The cash amount must
// be present and non-negative before any database write happens.
func validateDeliverRequest(cash *float64) error {
	if cash == nil {
		return errors.New("cashCollected is required")
	}
	if *cash < 0 {
		return errors.New("cashCollected cannot be negative")
	}
	return nil
}

// driverForUser resolves the caller's active driver record.
func driverForUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.DeliveryDriver, error) {
	var driver models.DeliveryDriver
	err := db.Collection("delivery_drivers").FindOne(ctx, bson.M{
		"userId":   userID,
		"isActive": true,
	}).Decode(&driver)
	return driver, err
}

// GET /driver/api/assignments
func GetMyAssignments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		driver, err := driverForUser(ctx, db, userID)
		if err != nil {
			log.Println("[DRIVER] [ERROR] driver lookup failed:", err)
			c.JSON(http.StatusForbidden, gin.H{"error": "no active driver record"})
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})
		cursor, err := db.Collection("delivery_assignments").Find(ctx, bson.M{"driverId": driver.ID}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		assignments := make([]models.DeliveryAssignment, 0)
		if err := cursor.All(ctx, &assignments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		orderIDs := make([]primitive.ObjectID, 0, len(assignments))
		for _, a := range assignments {
			orderIDs = append(orderIDs, a.OrderID)
		}

		ordersByID := make(map[primitive.ObjectID]models.Order, len(orderIDs))
		if len(orderIDs) > 0 {
			orderCursor, err := db.Collection("orders").Find(ctx, bson.M{"_id": bson.M{"$in": orderIDs}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			defer orderCursor.Close(ctx)

			var orders []models.Order
			if err := orderCursor.All(ctx, &orders); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
				return
			}
			for _, order := range orders {
				ordersByID[order.ID] = order
			}
		}

		type assignmentWithOrder struct {
			models.DeliveryAssignment
			Order *models.Order `json:"order,omitempty"`
		}

		out := make([]assignmentWithOrder, 0, len(assignments))
		for _, a := range assignments {
			entry := assignmentWithOrder{DeliveryAssignment: a}
			if order, ok := ordersByID[a.OrderID]; ok {
				entry.Order = &order
			}
			out = append(out, entry)
		}

		c.JSON(http.StatusOK, gin.H{"data": out})
	}
}

/*
PUT /driver/api/assignments/:id/pickup

The update filter carries the required current status and the caller's own
driver id, so a repeated click, a foreign assignment, or an out-of-order
transition all fall out as matched-count zero.
*/
func MarkPickedUp(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		advanceAssignment(c, db, models.AssignmentStatusPickedUp, nil)
	}
}

// PUT /driver/api/assignments/:id/deliver
func MarkDelivered(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deliverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if err := validateDeliverRequest(req.CashCollected); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		advanceAssignment(c, db, models.AssignmentStatusDelivered, req.CashCollected)
	}
}

func advanceAssignment(c *gin.Context, db *mongo.Database, next string, cashCollected *float64) {
	userID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	required, ok := models.AssignmentPrecondition(next)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transition"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	driver, err := driverForUser(ctx, db, userID)
	if err != nil {
		log.Println("[DRIVER] [ERROR] driver lookup failed:", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "no active driver record"})
		return
	}

	now := time.Now()
	set := bson.M{"status": next}
	switch next {
	case models.AssignmentStatusPickedUp:
		set["pickedUpAt"] = now
	case models.AssignmentStatusDelivered:
		set["deliveredAt"] = now
		set["cashCollected"] = *cashCollected
	}

	res, err := db.Collection("delivery_assignments").UpdateOne(ctx, bson.M{
		"_id":      assignmentID,
		"driverId": driver.ID,
		"status":   required,
	}, bson.M{"$set": set})
	if err != nil {
		log.Println("[DRIVER] [ERROR] assignment update failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "assignment not in expected state"})
		return
	}

	log.Printf("[DRIVER] [INFO] assignment %s moved to %s", assignmentID.Hex(), next)
	c.JSON(http.StatusOK, gin.H{"message": "assignment updated", "status": next})
}

/*
GET /driver/api/payments

Payment summary is computed live from delivered assignments. Commission uses
the storewide rate; payable is cash collected minus commission.
*/
func GetMyPayments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		driver, err := driverForUser(ctx, db, userID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "no active driver record"})
			return
		}

		cursor, err := db.Collection("delivery_assignments").Find(ctx, bson.M{
			"driverId": driver.ID,
			"status":   models.AssignmentStatusDelivered,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var delivered []models.DeliveryAssignment
		if err := cursor.All(ctx, &delivered); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		settings := loadStoreSettings(ctx, db)
		summary := driverPaymentSummary(delivered, settings.DriverCommission)

		c.JSON(http.StatusOK, gin.H{
			"deliveries":     summary.Deliveries,
			"cashCollected":  summary.CashCollected,
			"commissionRate": settings.DriverCommission,
			"commission":     summary.Commission,
			"payable":        summary.Payable,
		})
	}
}

type paymentSummary struct {
	Deliveries    int     `json:"deliveries"`
	CashCollected float64 `json:"cashCollected"`
	Commission    float64 `json:"commission"`
	Payable       float64 `json:"payable"`
}

func driverPaymentSummary(delivered []models.DeliveryAssignment, commissionRate float64) paymentSummary {
	summary := paymentSummary{Deliveries: len(delivered)}
	for _, a := range delivered {
		if a.CashCollected != nil {
			summary.CashCollected += *a.CashCollected
		}
	}
	summary.Commission = roundMoney(summary.CashCollected * commissionRate / 100)
	summary.Payable = roundMoney(summary.CashCollected - summary.Commission)
	summary.CashCollected = roundMoney(summary.CashCollected)
	return summary
}
