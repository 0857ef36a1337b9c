package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bikehub/bikehub-backend/internal/database"
	"github.com/bikehub/bikehub-backend/internal/handlers"
	"github.com/bikehub/bikehub-backend/internal/metrics"
	"github.com/bikehub/bikehub-backend/internal/middleware"
	"github.com/bikehub/bikehub-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.EnsureAdminUser(db); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	hub := services.NewHub()
	go hub.Run()

	metrics.Register()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "/app/uploads")

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		bikes := api.Group("/bikes")
		{
			bikes.GET("", handlers.GetBikes(db))
			bikes.GET("/brands", handlers.GetBrands(db))
			bikes.GET("/categories", handlers.GetCategories(db))
			bikes.GET("/:id", handlers.GetBike(db))
			bikes.POST("/:id/compare", middleware.AuthMiddleware(), handlers.TrackComparison(db))
		}

		api.GET("/promotions", handlers.GetActivePromotions(db))

		chatbotRoutes := api.Group("/chatbot")
		{
			chatbotRoutes.POST("", handlers.Chat(db))
			chatbotRoutes.GET("/suggestions", handlers.ChatSuggestions())
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Public dealer locator
		api.GET("/dealers", handlers.GetDealers(db))
		api.GET("/dealers/nearby", handlers.GetNearbyDealers(db))
		api.GET("/dealers/:id/bikes", handlers.GetDealerBikes(db))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			authed := protected.Group("/auth")
			{
				authed.GET("/me", handlers.GetMe(db))
				authed.PUT("/change-password", handlers.ChangePassword(db))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, hub))
				bookings.GET("", handlers.GetBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.PUT("/:id/approve", handlers.ApproveBooking(db, hub))
				bookings.PUT("/:id/reject", handlers.RejectBooking(db, hub))
				bookings.PUT("/:id/reschedule", handlers.RescheduleBooking(db, hub))
			}

			inquiries := protected.Group("/inquiries")
			{
				inquiries.POST("", handlers.CreateInquiry(db))
				inquiries.GET("", handlers.GetInquiries(db))
				inquiries.PUT("/:id/reply", handlers.ReplyInquiry(db, hub))
			}

			// Dealer dashboard routes
			dealer := protected.Group("/dealers")
			dealer.Use(middleware.RequireRole("dealer", "admin"))
			{
				dealer.GET("/bikes", handlers.GetBikeCatalog(db))
				dealer.GET("/my-listings", handlers.GetMyListings(db))
				dealer.POST("/list-bike", handlers.ListBike(db))
				dealer.PUT("/listings/:id", handlers.UpdateListing(db))
				dealer.DELETE("/listings/:id", handlers.DeleteListing(db))
				dealer.GET("/bookings", handlers.GetDealerBookings(db))
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.GET("/stats", handlers.GetAdminStats(db))
				admin.POST("/bikes", handlers.CreateBike(db))
				admin.PUT("/bikes/:id", handlers.UpdateBike(db))
				admin.DELETE("/bikes/:id", handlers.DeleteBike(db))
				admin.GET("/dealers", handlers.GetAllDealers(db))
				admin.POST("/dealers", handlers.CreateDealer(db))
				admin.DELETE("/dealers/:id", handlers.DeleteDealer(db))
				admin.GET("/promotions", handlers.GetActivePromotions(db))
				admin.POST("/promotions", handlers.CreatePromotion(db))
				admin.PUT("/promotions/:id", handlers.UpdatePromotion(db))
				admin.DELETE("/promotions/:id", handlers.DeletePromotion(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
