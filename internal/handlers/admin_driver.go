package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"essence-backend/internal/models"
)

type DriverCreateRequest struct {
	UserID       string `json:"userId" binding:"required"`
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicleType"`
	VehiclePlate string `json:"vehiclePlate"`
}

type DriverUpdateRequest struct {
	FullName     *string `json:"fullName"`
	Phone        *string `json:"phone"`
	VehicleType  *string `json:"vehicleType"`
	VehiclePlate *string `json:"vehiclePlate"`
	IsActive     *bool   `json:"isActive"`
}

// GET /admin/api/drivers
func GetAllDrivers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if v := strings.TrimSpace(c.Query("isActive")); v != "" {
			filter["isActive"] = v == "true"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("delivery_drivers").Find(
			ctx,
			filter,
			options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var drivers []models.DeliveryDriver
		if err := cursor.All(ctx, &drivers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": drivers})
	}
}

/*
POST /admin/api/drivers
- promotes an existing customer account to driver
*/
func CreateDriver(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DriverCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("customers").CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}

		existing, err := db.Collection("delivery_drivers").CountDocuments(ctx, bson.M{"userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "driver already exists for this account"})
			return
		}

		driver := models.DeliveryDriver{
			UserID:       userID,
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        strings.TrimSpace(req.Phone),
			VehicleType:  strings.TrimSpace(req.VehicleType),
			VehiclePlate: strings.TrimSpace(req.VehiclePlate),
			IsActive:     true,
			CreatedAt:    time.Now(),
		}

		result, err := db.Collection("delivery_drivers").InsertOne(ctx, driver)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		driver.ID = result.InsertedID.(primitive.ObjectID)

		log.Println("[DRIVER] [INFO] driver created:", driver.ID.Hex())
		c.JSON(http.StatusCreated, driver)
	}
}

// PUT /admin/api/drivers/:id
func UpdateDriver(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req DriverUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.FullName != nil {
			name := strings.TrimSpace(*req.FullName)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "fullName cannot be empty"})
				return
			}
			update["fullName"] = name
		}
		if req.Phone != nil {
			update["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.VehicleType != nil {
			update["vehicleType"] = strings.TrimSpace(*req.VehicleType)
		}
		if req.VehiclePlate != nil {
			update["vehiclePlate"] = strings.TrimSpace(*req.VehiclePlate)
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.DeliveryDriver
		err = db.Collection("delivery_drivers").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

type AssignOrderRequest struct {
	DriverID string `json:"driverId" binding:"required"`
}

/*
POST /admin/api/orders/:id/assign
- one assignment per order; re-assign requires deleting the old one
*/
func AssignOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req AssignOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "driverId is required"})
			return
		}

		driverID, err := primitive.ObjectIDFromHex(req.DriverID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driverId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var driver models.DeliveryDriver
		err = db.Collection("delivery_drivers").
			FindOne(ctx, bson.M{"_id": driverID, "isActive": true}).
			Decode(&driver)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
			c.JSON(http.StatusConflict, gin.H{"error": "order is closed"})
			return
		}

		assignment := models.DeliveryAssignment{
			DriverID:   driverID,
			OrderID:    orderID,
			Status:     models.AssignmentStatusAssigned,
			AssignedAt: time.Now(),
		}

		result, err := db.Collection("delivery_assignments").InsertOne(ctx, assignment)
		if err != nil {
			// the unique index on orderId rejects double assignment
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "order already assigned"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		assignment.ID = result.InsertedID.(primitive.ObjectID)

		if _, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": orderID},
			bson.M{"$set": bson.M{"status": models.OrderStatusProcessing, "updatedAt": time.Now()}},
		); err != nil {
			log.Println("[DRIVER] [ERROR] order status update failed:", err)
		}

		log.Println("[DRIVER] [INFO] order assigned:", orderID.Hex(), "->", driver.FullName)
		c.JSON(http.StatusCreated, assignment)
	}
}

// DELETE /admin/api/assignments/:id
func DeleteAssignment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("delivery_assignments").DeleteOne(ctx, bson.M{
			"_id":    id,
			"status": bson.M{"$ne": models.AssignmentStatusDelivered},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found or already delivered"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
