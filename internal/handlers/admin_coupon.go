package handlers

import (
	"context"
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

type CouponCreateRequest struct {
	Code          string     `json:"code" binding:"required"`
	DiscountType  string     `json:"discountType" binding:"required,oneof=percent fixed"`
	Value         *float64   `json:"value" binding:"required"`
	MinOrderTotal float64    `json:"minOrderTotal"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

type CouponUpdateRequest struct {
	Value         *float64   `json:"value"`
	MinOrderTotal *float64   `json:"minOrderTotal"`
	IsActive      *bool      `json:"isActive"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// GET /admin/api/coupons
func GetAllCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("coupons").Find(
			ctx,
			bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var coupons []models.Coupon
		if err := cursor.All(ctx, &coupons); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": coupons})
	}
}

/*
POST /admin/api/coupons
- codes are stored uppercase; the unique index rejects duplicates
*/
func CreateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CouponCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
			return
		}
		if *req.Value <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value must be greater than 0"})
			return
		}
		if req.DiscountType == models.CouponTypePercent && *req.Value > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percent value cannot exceed 100"})
			return
		}

		coupon := models.Coupon{
			Code:          code,
			DiscountType:  req.DiscountType,
			Value:         *req.Value,
			MinOrderTotal: req.MinOrderTotal,
			IsActive:      true,
			ExpiresAt:     req.ExpiresAt,
			CreatedAt:     time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("coupons").InsertOne(ctx, coupon)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		coupon.ID = result.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, coupon)
	}
}

// PUT /admin/api/coupons/:id
func UpdateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CouponUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Value != nil {
			if *req.Value <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "value must be greater than 0"})
				return
			}
			update["value"] = *req.Value
		}
		if req.MinOrderTotal != nil {
			update["minOrderTotal"] = *req.MinOrderTotal
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}
		if req.ExpiresAt != nil {
			update["expiresAt"] = *req.ExpiresAt
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Coupon
		err = db.Collection("coupons").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /admin/api/coupons/:id
func DeleteCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("coupons").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"isActive": false}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
