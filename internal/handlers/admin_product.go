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

/*
GET /admin/api/products
- full table including inactive and soft-deleted rows
*/
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if v := c.Query("includeDeleted"); v != "true" {
			filter["isDeleted"] = bson.M{"$ne": true}
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": products})
	}
}

/*
POST /admin/api/products
- multipart form with optional image file
*/
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := parseMultipartProductRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data", "details": err.Error()})
			return
		}

		if !input.NameSet || input.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if !input.PriceSet || input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than 0"})
			return
		}
		if input.RatingSet && (input.Rating < 0 || input.Rating > 5) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
			return
		}

		isActive := true
		if input.IsActiveSet {
			isActive = input.IsActive
		}

		product := models.Product{
			Name:          input.Name,
			Brand:         input.Brand,
			Category:      models.StringList(normalizeNames(input.Categories)),
			Price:         input.Price,
			StockQuantity: input.Stock,
			Size:          input.Size,
			Notes:         models.StringList(input.Notes),
			Rating:        input.Rating,
			Description:   input.Description,
			ImagePath:     input.ImagePath,
			IsActive:      isActive,
			Featured:      input.Featured,
			CreatedAt:     time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)
		product.InStock = product.StockQuantity > 0

		log.Println("[PRODUCT] [INFO] product created:", product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

/*
PUT /admin/api/products/:id
- multipart form; only submitted fields change
*/
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		input, err := parseMultipartProductRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data", "details": err.Error()})
			return
		}

		update := bson.M{}
		if input.NameSet {
			if input.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			update["name"] = input.Name
		}
		if input.BrandSet {
			update["brand"] = input.Brand
		}
		if input.CategSet {
			update["category"] = normalizeNames(input.Categories)
		}
		if input.PriceSet {
			if input.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than 0"})
				return
			}
			update["price"] = input.Price
		}
		if input.StockSet {
			if input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity cannot be negative"})
				return
			}
			update["stockQuantity"] = input.Stock
		}
		if input.SizeSet {
			update["size"] = input.Size
		}
		if input.NotesSet {
			update["notes"] = input.Notes
		}
		if input.RatingSet {
			if input.Rating < 0 || input.Rating > 5 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
				return
			}
			update["rating"] = input.Rating
		}
		if input.DescSet {
			update["description"] = input.Description
		}
		if input.ImageSet {
			update["imagePath"] = input.ImagePath
		}
		if input.IsActiveSet {
			update["isActive"] = input.IsActive
		}
		if input.FeaturedSet {
			update["featured"] = input.Featured
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var previous models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": update},
		).Decode(&previous)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if input.ImageSet && previous.ImagePath != "" && previous.ImagePath != input.ImagePath {
			if err := safeDeleteUpload(previous.ImagePath); err != nil {
				log.Println("[PRODUCT] [ERROR] old image cleanup failed:", err)
			}
		}

		log.Println("[PRODUCT] [INFO] product updated:", productID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

/*
DELETE /admin/api/products/:id
- soft delete; the row stays for order history
*/
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": productID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": now,
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		log.Println("[PRODUCT] [INFO] product deleted:", productID.Hex())
		c.Status(http.StatusNoContent)
	}
}

func normalizeNames(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)

	for _, v := range values {
		name := strings.TrimSpace(v)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
