package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"essence-backend/internal/models"
)

type paymentMethodRequest struct {
	Type      string `json:"type" binding:"required,oneof=card cash"`
	Label     string `json:"label" binding:"required"`
	Last4     string `json:"last4"`
	IsDefault bool   `json:"isDefault"`
}

func GetPaymentMethods(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		if err := db.Collection("customers").FindOne(ctx, bson.M{"_id": userID}).Decode(&customer); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"paymentMethods": customer.PaymentMethods})
	}
}

func CreatePaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req paymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		if err := db.Collection("customers").FindOne(ctx, bson.M{"_id": userID}).Decode(&customer); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		if req.IsDefault {
			for i := range customer.PaymentMethods {
				customer.PaymentMethods[i].IsDefault = false
			}
		}

		method := models.PaymentMethod{
			ID:        uuid.NewString(),
			Type:      req.Type,
			Label:     strings.TrimSpace(req.Label),
			Last4:     strings.TrimSpace(req.Last4),
			IsDefault: req.IsDefault,
		}
		customer.PaymentMethods = append(customer.PaymentMethods, method)

		_, err := db.Collection("customers").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"paymentMethods": customer.PaymentMethods,
				"updatedAt":      time.Now(),
			},
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] create payment method failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"paymentMethod": method})
	}
}

func DeletePaymentMethod(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		methodID := strings.TrimSpace(c.Param("id"))
		if methodID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		if err := db.Collection("customers").FindOne(ctx, bson.M{"_id": userID}).Decode(&customer); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		updated := make([]models.PaymentMethod, 0, len(customer.PaymentMethods))
		found := false
		for _, method := range customer.PaymentMethods {
			if method.ID == methodID {
				found = true
				continue
			}
			updated = append(updated, method)
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}

		_, err := db.Collection("customers").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"paymentMethods": updated,
				"updatedAt":      time.Now(),
			},
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] delete payment method failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "payment method deleted"})
	}
}
