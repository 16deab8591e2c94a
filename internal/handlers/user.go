package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"essence-backend/internal/models"
)

type profileUpdateRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			log.Println("[USER] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.Customer
		if err := db.Collection("customers").FindOne(ctx, bson.M{"_id": userID}).Decode(&customer); err != nil {
			log.Println("[USER] [ERROR] get me failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{
			"id":            customer.ID.Hex(),
			"email":         customer.Email,
			"fullName":      customer.FullName,
			"phone":         customer.Phone,
			"avatarPath":    customer.AvatarPath,
			"isAdmin":       role == models.RoleAdmin,
			"isDriver":      role == models.RoleDriver,
			"notifications": customer.Notifications,
			"createdAt":     customer.CreatedAt,
			"updatedAt":     customer.UpdatedAt,
		})
	}
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req profileUpdateRequest
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

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("customers").UpdateByID(ctx, userID, bson.M{"$set": update})
		if err != nil {
			log.Println("[USER] [ERROR] profile update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Println("[USER] [INFO] profile updated:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

// UploadAvatar stores the uploaded image under uploads/avatars and removes
// the previous file on success.
func UploadAvatar(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
			return
		}

		relPath, err := saveUploadedImage(c, file, avatarUploadDir)
		if err != nil {
			log.Println("[USER] [ERROR] avatar save failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Customer
		_ = db.Collection("customers").FindOne(ctx, bson.M{"_id": userID}).Decode(&existing)

		_, err = db.Collection("customers").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"avatarPath": relPath,
				"updatedAt":  time.Now(),
			},
		})
		if err != nil {
			log.Println("[USER] [ERROR] avatar update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if existing.AvatarPath != "" && existing.AvatarPath != relPath {
			if err := safeDeleteUpload(existing.AvatarPath); err != nil {
				log.Println("[USER] [ERROR] old avatar cleanup failed:", err)
			}
		}

		log.Println("[USER] [INFO] avatar updated:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"avatarPath": relPath})
	}
}

type notificationPrefsRequest struct {
	OrderUpdates *bool `json:"orderUpdates"`
	Promotions   *bool `json:"promotions"`
	Newsletter   *bool `json:"newsletter"`
}

func GetNotificationPrefs(db *mongo.Database) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, gin.H{"notifications": customer.Notifications})
	}
}

func UpdateNotificationPrefs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req notificationPrefsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.OrderUpdates != nil {
			update["notifications.orderUpdates"] = *req.OrderUpdates
		}
		if req.Promotions != nil {
			update["notifications.promotions"] = *req.Promotions
		}
		if req.Newsletter != nil {
			update["notifications.newsletter"] = *req.Newsletter
		}
		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("customers").UpdateByID(ctx, userID, bson.M{"$set": update}); err != nil {
			log.Println("[USER] [ERROR] notification prefs update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "preferences updated"})
	}
}
