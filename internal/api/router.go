package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"laundry-booking-backend/config"
	"laundry-booking-backend/internal/auth"
	"laundry-booking-backend/internal/mw"
	"laundry-booking-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. limiter may be nil, in
// which case one is built from cfg; notifier may be nil when push is disabled.
func NewRouter(s store.Store, authSvc *auth.Service, webpushOptions *webpush.Options, notifier Notifier, limiter *mw.IPRateLimiter, cfg config.ServerConfig) *gin.Engine {
	registerValidators()

	r := gin.Default()
	r.Use(mw.RequestID(), mw.CORS(cfg.AllowedOrigins))

	if limiter == nil {
		limiter = mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	}
	responseCache := mw.NewResponseCache(cfg.CacheTTL())
	handler := NewHandler(s, authSvc, webpushOptions, notifier, cfg.Location())

	caching := responseCache.Middleware()
	invalidate := responseCache.Invalidate()
	requireAuth := mw.Auth(authSvc.Tokens())
	requireAdmin := mw.RequireAdmin()

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authGroup := api.Group("/auth")
		authGroup.Use(limiter.Middleware())
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
		}

		secured := api.Group("")
		secured.Use(requireAuth)
		{
			users := secured.Group("/users")
			users.GET("/:id", handler.GetUser)
			users.POST("", requireAdmin, handler.CreateUser)
			users.PUT("/:id", mw.RequireSelfOrAdmin("id"), handler.UpdateUser)
			users.DELETE("/:id", requireAdmin, invalidate, handler.DeleteUser)

			complexes := secured.Group("/complexes")
			complexes.POST("", requireAdmin, handler.CreateComplex)
			complexes.GET("/:id", handler.GetComplex)
			complexes.POST("/:id/residents/:userId", requireAdmin, invalidate, handler.AddResident)
			complexes.POST("/:id/admins/:userId", requireAdmin, invalidate, handler.AddAdmin)

			rooms := secured.Group("/laundry-rooms")
			rooms.POST("", requireAdmin, invalidate, handler.CreateRoom)
			rooms.GET("/mine", handler.MyRoom)
			// Ownership is checked before the cache so a hit cannot serve another user's rooms.
			rooms.GET("/accessible/:userId", mw.RequireSelfOrAdmin("userId"), caching, handler.AccessibleRooms)
			rooms.GET("/:roomId/timeslots", caching, handler.Timeslots)
			rooms.GET("/:roomId/users", handler.RoomUsers)
			rooms.GET("/:roomId/settings", handler.GetSettings)
			rooms.PUT("/:roomId/settings", requireAdmin, invalidate, handler.SaveSettings)
			rooms.POST("/:roomId/settings", requireAdmin, invalidate, handler.SaveSettings)

			bookings := secured.Group("/bookings")
			bookings.POST("", handler.CreateBooking)
			bookings.GET("/:id", handler.GetBooking)
			bookings.DELETE("/:id", handler.DeleteBooking)
			bookings.GET("/user/:userId", mw.RequireSelfOrAdmin("userId"), handler.UserBookings)
			bookings.GET("/laundryroom/:roomId", handler.RoomBookings)
			bookings.GET("/laundryroom/:roomId/date/:date", handler.RoomBookingsOnDate)
			bookings.GET("/upcoming/:roomId", handler.UpcomingBookings)
			bookings.GET("/machine/:machineId", handler.MachineBookings)

			secured.GET("/subscriptions", handler.GetSubscription)
			secured.PUT("/subscriptions", handler.PutSubscription)
			secured.DELETE("/subscriptions", handler.DeleteSubscription)
		}
	}

	return r
}
