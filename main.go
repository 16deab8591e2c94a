package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"essence-backend/internal/cart"
	"essence-backend/internal/config"
	"essence-backend/internal/database"
	"essence-backend/internal/handlers"
	"essence-backend/internal/middleware"
	"essence-backend/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Println("⚠️ customer index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("⚠️ order index warning:", err)
	}
	if err := database.EnsureAssignmentIndexes(db); err != nil {
		log.Println("⚠️ assignment index warning:", err)
	}
	if err := database.EnsureCouponIndexes(db); err != nil {
		log.Println("⚠️ coupon index warning:", err)
	}

	var mailer notify.Mailer
	if config.AppEnv.MailAPIKey != "" {
		m, err := notify.NewHTTPMailer(config.AppEnv.MailAPIKey, config.AppEnv.MailFrom, config.AppEnv.MailBaseURL)
		if err != nil {
			log.Fatal(err)
		}
		mailer = m
	} else {
		log.Println("MAIL_API_KEY not set, order emails disabled")
	}

	carts := cart.NewStore()
	feed := handlers.NewOrderFeed()

	secret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL
	refreshTTL := config.AppEnv.RefreshTokenTTL

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/public", config.AppEnv.PublicDir)

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/featured", handlers.GetFeaturedProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.GET("/categories", handlers.GetCategories(db))
	r.GET("/brands", handlers.GetBrands(db))
	r.GET("/shipping/cities", handlers.GetShippingCities(db))

	r.POST("/auth/register", handlers.Register(db, secret, accessTTL, refreshTTL))
	r.POST("/auth/login", handlers.Login(db, secret, accessTTL, refreshTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, secret, accessTTL, refreshTTL))
	r.POST("/auth/logout", handlers.Logout(db))
	r.POST("/auth/reset-password", handlers.ResetPassword(db, mailer, config.AppEnv.ResetTokenTTL))
	r.POST("/auth/reset-password/confirm", handlers.ResetPasswordConfirm(db))
	r.GET("/auth/me", middleware.UserAuth(secret), handlers.GetMe(db))

	r.POST("/admin/login", handlers.AdminLogin(db, secret, accessTTL))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(secret))
	{
		user.GET("/me", handlers.GetMe(db))
		user.PUT("/me", handlers.UpdateProfile(db))
		user.POST("/me/avatar", handlers.UploadAvatar(db))

		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))

		user.GET("/payment-methods", handlers.GetPaymentMethods(db))
		user.POST("/payment-methods", handlers.CreatePaymentMethod(db))
		user.DELETE("/payment-methods/:id", handlers.DeletePaymentMethod(db))

		user.GET("/wishlist", handlers.GetWishlist(db))
		user.POST("/wishlist/:productId", handlers.AddWishlistItem(db))
		user.DELETE("/wishlist/:productId", handlers.RemoveWishlistItem(db))

		user.GET("/notifications", handlers.GetNotificationPrefs(db))
		user.PUT("/notifications", handlers.UpdateNotificationPrefs(db))

		user.GET("/cart", handlers.GetCart(carts))
		user.POST("/cart/items", handlers.AddCartItem(db, carts))
		user.PUT("/cart/items/:productId", handlers.UpdateCartItem(carts))
		user.DELETE("/cart/items/:productId", handlers.RemoveCartItem(carts))
		user.DELETE("/cart", handlers.ClearCart(carts))

		user.POST("/checkout", handlers.Checkout(db, carts, mailer, feed))
		user.GET("/orders", handlers.GetMyOrders(db))
		user.GET("/orders/:id", handlers.GetMyOrder(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(secret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/dashboard", handlers.GetDashboard(db))
		admin.GET("/orders/feed", feed.Handler())

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.GET("/products/export", handlers.ExportProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/brands", handlers.GetAllBrands(db))
		admin.POST("/brands", handlers.CreateBrand(db))
		admin.PUT("/brands/:id", handlers.UpdateBrand(db))
		admin.DELETE("/brands/:id", handlers.DeleteBrand(db))

		admin.GET("/customers", handlers.GetAllCustomers(db))
		admin.GET("/customers/:id", handlers.GetCustomer(db))
		admin.PUT("/customers/:id/status", handlers.SetCustomerStatus(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.GET("/orders/:id", handlers.GetOrder(db))
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus(db, feed))
		admin.POST("/orders/:id/assign", handlers.AssignOrder(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
		admin.DELETE("/assignments/:id", handlers.DeleteAssignment(db))

		admin.GET("/drivers", handlers.GetAllDrivers(db))
		admin.POST("/drivers", handlers.CreateDriver(db))
		admin.PUT("/drivers/:id", handlers.UpdateDriver(db))

		admin.GET("/payments", handlers.GetDriverPayments(db))

		admin.GET("/shipping", handlers.GetAllShippingConfigs(db))
		admin.POST("/shipping", handlers.CreateShippingConfig(db))
		admin.PUT("/shipping/:id", handlers.UpdateShippingConfig(db))
		admin.DELETE("/shipping/:id", handlers.DeleteShippingConfig(db))

		admin.GET("/settings", handlers.GetSettings(db))
		admin.PUT("/settings", handlers.UpdateSettings(db))

		admin.GET("/coupons", handlers.GetAllCoupons(db))
		admin.POST("/coupons", handlers.CreateCoupon(db))
		admin.PUT("/coupons/:id", handlers.UpdateCoupon(db))
		admin.DELETE("/coupons/:id", handlers.DeleteCoupon(db))
	}

	driver := r.Group("/driver/api")
	driver.Use(middleware.DriverAuth(secret))
	{
		driver.GET("/assignments", handlers.GetMyAssignments(db))
		driver.PUT("/assignments/:id/pickup", handlers.MarkPickedUp(db))
		driver.PUT("/assignments/:id/deliver", handlers.MarkDelivered(db))
		driver.GET("/payments", handlers.GetMyPayments(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
