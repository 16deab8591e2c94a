package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"essence-backend/internal/cart"
	"essence-backend/internal/models"
	"essence-backend/internal/notify"
)

type checkoutRequest struct {
	ShippingCityID string `json:"shippingCityId" binding:"required"`
	FullName       string `json:"fullName" binding:"required"`
	Phone          string `json:"phone"`
	Detail         string `json:"detail" binding:"required"`
	Note           string `json:"note"`
	PaymentMethod  string `json:"paymentMethod" binding:"required"`
	CouponCode     string `json:"couponCode"`
}

// GET /shipping/cities
func GetShippingCities(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("shipping_configs").Find(ctx, bson.M{"isActive": true})
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

/*
POST /user/checkout

Order creation runs in one transaction: every cart line is priced from the
live product document and stock is decremented conditionally, so a stale
cart can never oversell. The confirmation email is fire-and-forget; the
cart is cleared only after the order commit succeeds.
*/
func Checkout(db *mongo.Database, carts *cart.Store, mailer notify.Mailer, feed *OrderFeed) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/checkout"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.PaymentMethod != "cash" && req.PaymentMethod != "card" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
			return
		}

		cartKey := userID.Hex()
		items := carts.Items(cartKey)
		if len(items) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		shippingCost, cityName, err := lookupShipping(ctx, db, req.ShippingCityID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var coupon *models.Coupon
		if code := strings.ToUpper(strings.TrimSpace(req.CouponCode)); code != "" {
			var found models.Coupon
			err := db.Collection("coupons").FindOne(ctx, bson.M{"code": code}).Decode(&found)
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown coupon code"})
				return
			}
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			coupon = &found
		}

		settings := loadStoreSettings(ctx, db)

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		order := models.Order{
			OrderNumber: newOrderNumber(),
			UserID:      &userID,
			ShippingAddress: models.ShippingAddress{
				FullName: strings.TrimSpace(req.FullName),
				Phone:    strings.TrimSpace(req.Phone),
				City:     cityName,
				Detail:   strings.TrimSpace(req.Detail),
				Note:     strings.TrimSpace(req.Note),
			},
			PaymentMethod: req.PaymentMethod,
			Status:        models.OrderStatusPending,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			orderItems := make([]models.OrderItem, 0, len(items))
			subtotal := 0.0

			for _, line := range items {
				productID, err := primitive.ObjectIDFromHex(line.ProductID)
				if err != nil {
					return nil, productNotFoundError{ProductID: primitive.NilObjectID}
				}

				var product models.Product
				err = db.Collection("products").FindOne(
					sessCtx,
					bson.M{
						"_id":       productID,
						"isDeleted": bson.M{"$ne": true},
					},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: productID}
				}
				if err != nil {
					return nil, err
				}

				if product.StockQuantity < line.Quantity {
					return nil, outOfStockError{
						ProductID: productID,
						Available: product.StockQuantity,
						Requested: line.Quantity,
					}
				}

				orderItems = append(orderItems, models.OrderItem{
					ProductID: productID,
					Name:      product.Name,
					Brand:     product.Brand,
					Size:      product.Size,
					Price:     product.Price,
					Quantity:  line.Quantity,
				})
				subtotal += product.Price * float64(line.Quantity)

				filter := bson.M{
					"_id":           productID,
					"isDeleted":     bson.M{"$ne": true},
					"stockQuantity": bson.M{"$gte": line.Quantity},
				}
				update := bson.M{"$inc": bson.M{"stockQuantity": -line.Quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: productID,
						Available: product.StockQuantity,
						Requested: line.Quantity,
					}
				}
			}

			discount := 0.0
			if coupon != nil {
				discount, err = couponDiscount(*coupon, subtotal, time.Now())
				if err != nil {
					return nil, couponError{Reason: err.Error()}
				}
				order.CouponCode = coupon.Code
			}

			totals := computeOrderTotals(subtotal, settings.TaxRate, shippingCost, discount)
			order.Items = orderItems
			order.Subtotal = totals.Subtotal
			order.Tax = totals.Tax
			order.Shipping = totals.Shipping
			order.Discount = totals.Discount
			order.Total = totals.Total

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			var cpnErr couponError
			if errors.As(err, &cpnErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": cpnErr.Reason})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		carts.Clear(cartKey)
		feed.Broadcast(OrderEvent{Type: "order_created", OrderID: order.ID.Hex(), Status: order.Status})

		if mailer != nil && settings.OrderEmailsEnabled {
			var customer models.Customer
			if err := db.Collection("customers").FindOne(ctx, bson.M{"_id": userID}).Decode(&customer); err == nil {
				if customer.Notifications.OrderUpdates {
					email := customer.Email
					notify.FireAndForget("ORDER", func(ctx context.Context) error {
						return mailer.SendOrderConfirmation(ctx, email, order.OrderNumber, order.Total)
					})
				}
			}
		}

		log.Println("[ORDER] [INFO] order created:", order.OrderNumber, "user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"orderId":     order.ID.Hex(),
			"orderNumber": order.OrderNumber,
			"total":       order.Total,
			"message":     "order created",
		})
	}
}

func lookupShipping(ctx context.Context, db *mongo.Database, cityID string) (float64, string, error) {
	cursor, err := db.Collection("shipping_configs").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return 0, "", err
	}
	defer cursor.Close(ctx)

	var configs []models.ShippingConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return 0, "", err
	}

	cost := shippingCostForCity(configs, cityID)
	name := ""
	for _, cfg := range configs {
		if cfg.ID.Hex() == strings.TrimSpace(cityID) {
			name = cfg.City
			break
		}
	}
	return cost, name, nil
}

// loadStoreSettings falls back to zero rates when the settings document is
// missing, so a fresh install can still take orders.
func loadStoreSettings(ctx context.Context, db *mongo.Database) models.StoreSettings {
	var settings models.StoreSettings
	err := db.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Println("[SETTINGS] [ERROR] load failed, using defaults:", err)
		}
		return models.StoreSettings{OrderEmailsEnabled: true}
	}
	return settings
}

func newOrderNumber() string {
	return "EE-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

type couponError struct {
	Reason string
}

func (e couponError) Error() string {
	return e.Reason
}
