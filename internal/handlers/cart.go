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

	"essence-backend/internal/cart"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func GetCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := userID.Hex()
		c.JSON(http.StatusOK, gin.H{
			"items": carts.Items(key),
			"total": carts.Total(key),
		})
	}
}

// AddCartItem snapshots the live product into the cart. Re-adding an item
// bumps its quantity by one.
func AddCartItem(db *mongo.Database, carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var raw bson.M
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"isActive":  bson.M{"$ne": false},
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&raw)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		key := userID.Hex()
		item, added := carts.AddItem(key, cart.Item{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Brand:     product.Brand,
			Size:      product.Size,
			ImagePath: product.ImagePath,
			Price:     product.Price,
		})

		message := "quantity increased"
		if added {
			message = "added to cart"
		}

		c.JSON(http.StatusOK, gin.H{
			"message": message,
			"item":    item,
			"total":   carts.Total(key),
		})
	}
}

// UpdateCartItem sets the quantity for one line. Quantity zero removes it.
func UpdateCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		if *req.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity cannot be negative"})
			return
		}

		key := userID.Hex()
		productID := strings.TrimSpace(c.Param("productId"))
		if !carts.UpdateQuantity(key, productID, *req.Quantity) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": carts.Items(key),
			"total": carts.Total(key),
		})
	}
}

func RemoveCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := userID.Hex()
		productID := strings.TrimSpace(c.Param("productId"))
		if !carts.RemoveItem(key, productID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": carts.Items(key),
			"total": carts.Total(key),
		})
	}
}

func ClearCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		carts.Clear(userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
