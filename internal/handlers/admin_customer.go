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

type adminCustomerRow struct {
	ID        primitive.ObjectID `json:"id"`
	FullName  string             `json:"fullName"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone,omitempty"`
	Role      string             `json:"role"`
	IsActive  bool               `json:"isActive"`
	CreatedAt time.Time          `json:"createdAt"`
}

/*
GET /admin/api/customers
- paginated list with optional text search on name/email
*/
func GetAllCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"fullName": bson.M{"$regex": search, "$options": "i"}},
				{"email": bson.M{"$regex": search, "$options": "i"}},
			}
		}
		if v := strings.TrimSpace(c.Query("isActive")); v != "" {
			filter["isActive"] = v == "true"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("customers").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("customers").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var customers []models.Customer
		if err := cursor.All(ctx, &customers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		rows := make([]adminCustomerRow, 0, len(customers))
		for _, cust := range customers {
			role := cust.Role
			if role == "" {
				role = models.RoleCustomer
			}
			rows = append(rows, adminCustomerRow{
				ID:        cust.ID,
				FullName:  cust.FullName,
				Email:     cust.Email,
				Phone:     cust.Phone,
				Role:      role,
				IsActive:  cust.IsActive,
				CreatedAt: cust.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"data": rows,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

/*
GET /admin/api/customers/:id
- full record minus password hash
*/
func GetCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		err = db.Collection("customers").
			FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"password": 0})).
			Decode(&customer)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

type CustomerStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

/*
PUT /admin/api/customers/:id/status
- deactivating blocks login and revokes refresh tokens
*/
func SetCustomerStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CustomerStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("customers").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"isActive": *req.IsActive}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}

		if !*req.IsActive {
			if _, err := db.Collection("refresh_tokens").UpdateMany(
				ctx,
				bson.M{"userId": id, "revoked": false},
				bson.M{"$set": bson.M{"revoked": true}},
			); err != nil {
				log.Println("[CUSTOMER] [ERROR] token revoke failed:", err)
			}
		}

		log.Println("[CUSTOMER] [INFO] status changed:", id.Hex(), "active:", *req.IsActive)
		c.JSON(http.StatusOK, gin.H{"message": "customer updated"})
	}
}
