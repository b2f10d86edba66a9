package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// Deps is everything the API routes need
type Deps struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Catalog  *services.CatalogService
	Bookings *services.BookingService
	Messages *services.MessageService
	Reviews  *services.ReviewService
	Hub      *services.Hub

	AuthConfig   middleware.AuthConfig
	HealthChecks map[string]Pinger
	// UploadDir is served under /uploads when photos are stored locally
	UploadDir string
	// StaticDir holds the built SPA; index.html answers unknown non-API paths
	StaticDir string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	auth := middleware.AuthMiddleware(d.AuthConfig)

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	api := r.Group("/api")
	api.GET("/health", Health(d.HealthChecks))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", Signup(d.Auth))
		authGroup.POST("/login", Login(d.Auth))
	}

	cars := api.Group("/cars")
	{
		cars.GET("", ListCars(d.Catalog))
		cars.GET("/:id", GetCar(d.Catalog))
		cars.GET("/:id/availability", GetCarAvailability(d.Catalog))
		cars.GET("/:id/reviews", ListCarReviews(d.Reviews))
		cars.POST("", auth, CreateCar(d.Catalog))
		cars.POST("/:id/photos", auth, UploadCarPhoto(d.Catalog))
	}

	businesses := api.Group("/businesses", auth)
	{
		businesses.POST("", CreateBusiness(d.Catalog))
		businesses.GET("/mine", ListMyBusinesses(d.Catalog))
	}

	bookings := api.Group("/bookings", auth)
	{
		bookings.POST("/request", RequestBooking(d.Bookings))
		bookings.GET("/mine", ListMyBookings(d.Bookings))
		bookings.GET("/vehicle/:vehicleId", ListVehicleBookings(d.Bookings))
		bookings.GET("/:id", GetBooking(d.Bookings))
		bookings.POST("/:id/approve", ApproveBooking(d.Bookings))
		bookings.POST("/:id/pay", PayBooking(d.Bookings))
		bookings.POST("/:id/complete", CompleteBooking(d.Bookings))
		bookings.POST("/:id/cancel", CancelBooking(d.Bookings))
		bookings.POST("/:id/review", CreateReview(d.Reviews))
	}

	messages := api.Group("/messages", auth)
	{
		messages.POST("", SendMessage(d.Messages))
		messages.GET("/:id", GetConversation(d.Messages))
		messages.POST("/:id/read", MarkMessageRead(d.Messages))
	}

	users := api.Group("/users", auth)
	{
		users.GET("/profile", GetProfile(d.Users))
		users.PUT("/profile", UpdateProfile(d.Users))
		users.POST("/fcm-token", UpdateFCMToken(d.Users))
		users.DELETE("/fcm-token", RemoveFCMToken(d.Users))
		users.GET("/notification-preferences", GetNotificationPreferences(d.Users))
		users.PUT("/notification-preferences", UpdateNotificationPreferences(d.Users))
	}

	if d.Hub != nil {
		api.GET("/ws", auth, WebSocketHandler(d.Hub))
	}

	r.NoRoute(spaFallback(d.StaticDir))
}

// spaFallback serves files from the SPA build and index.html for client side
// routes. API paths get a NOT_FOUND envelope.
func spaFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || staticDir == "" || c.Request.Method != http.MethodGet {
			response.Error(c, apperrors.NotFound("Route"))
			return
		}

		if file := filepath.Join(staticDir, filepath.Clean("/"+path)); isFile(file) {
			c.File(file)
			return
		}
		index := filepath.Join(staticDir, "index.html")
		if !isFile(index) {
			response.Error(c, apperrors.NotFound("Route"))
			return
		}
		c.File(index)
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
