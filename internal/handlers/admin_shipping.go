package handlers

import (
	"context"
	"errors"
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

type ShippingCreateRequest struct {
	City          string   `json:"city" binding:"required"`
	ShippingPrice *float64 `json:"shippingPrice" binding:"required"`
	IsActive      *bool    `json:"isActive"`
}

type ShippingUpdateRequest struct {
	City          *string  `json:"city"`
	ShippingPrice *float64 `json:"shippingPrice"`
	IsActive      *bool    `json:"isActive"`
}

// GET /admin/api/shipping
func GetAllShippingConfigs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("shipping_configs").Find(
			ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "city", Value: 1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var configs []models.ShippingConfig
		if err := cursor.All(ctx, &configs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": configs})
	}
}

// POST /admin/api/shipping
func CreateShippingConfig(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShippingCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "city and shippingPrice are required"})
			return
		}

		city := strings.TrimSpace(req.City)
		if city == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "city required"})
			return
		}
		if *req.ShippingPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shippingPrice cannot be negative"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("shipping_configs").CountDocuments(ctx, bson.M{"city": city})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "city already configured"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		config := models.ShippingConfig{
			City:          city,
			ShippingPrice: *req.ShippingPrice,
			IsActive:      isActive,
		}

		result, err := db.Collection("shipping_configs").InsertOne(ctx, config)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		config.ID = result.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, config)
	}
}

// PUT /admin/api/shipping/:id
func UpdateShippingConfig(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ShippingUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.City != nil {
			city := strings.TrimSpace(*req.City)
			if city == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "city cannot be empty"})
				return
			}
			update["city"] = city
		}
		if req.ShippingPrice != nil {
			if *req.ShippingPrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "shippingPrice cannot be negative"})
				return
			}
			update["shippingPrice"] = *req.ShippingPrice
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

		var updated models.ShippingConfig
		err = db.Collection("shipping_configs").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "shipping config not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /admin/api/shipping/:id
func DeleteShippingConfig(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("shipping_configs").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "shipping config not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

type SettingsUpdateRequest struct {
	StoreName          *string  `json:"storeName"`
	TaxRate            *float64 `json:"taxRate"`
	DriverCommission   *float64 `json:"driverCommission"`
	OrderEmailsEnabled *bool    `json:"orderEmailsEnabled"`
}

// GET /admin/api/settings
func GetSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.JSON(http.StatusOK, loadStoreSettings(ctx, db))
	}
}

// settingsUpdateDocument builds the $set document for the settings singleton.
// Rates are whole percentages (8 means 8%), matching how the pricing and
// commission math consumes them.
func settingsUpdateDocument(req SettingsUpdateRequest, now time.Time) (bson.M, error) {
	update := bson.M{}
	if req.StoreName != nil {
		update["storeName"] = strings.TrimSpace(*req.StoreName)
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 || *req.TaxRate > 100 {
			return nil, errors.New("taxRate must be between 0 and 100")
		}
		update["taxRate"] = *req.TaxRate
	}
	if req.DriverCommission != nil {
		if *req.DriverCommission < 0 || *req.DriverCommission > 100 {
			return nil, errors.New("driverCommission must be between 0 and 100")
		}
		update["driverCommission"] = *req.DriverCommission
	}
	if req.OrderEmailsEnabled != nil {
		update["orderEmailsEnabled"] = *req.OrderEmailsEnabled
	}

	if len(update) == 0 {
		return nil, errors.New("no fields to update")
	}

	update["updatedAt"] = now
	return update, nil
}

/*
PUT /admin/api/settings
- single settings document, created on first write
*/
func UpdateSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettingsUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update, err := settingsUpdateDocument(req, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.StoreSettings
		err = db.Collection("settings").
			FindOneAndUpdate(
				ctx,
				bson.M{},
				bson.M{"$set": update},
				options.FindOneAndUpdate().
					SetUpsert(true).
					SetReturnDocument(options.After),
			).
			Decode(&updated)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
