package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"github.com/quantum-brackets/45group-sub001/internal/infra/config"
	"github.com/quantum-brackets/45group-sub001/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	CreateWalkIn(c *gin.Context)
	Get(c *gin.Context)
	Confirm(c *gin.Context)
	Complete(c *gin.Context)
	Cancel(c *gin.Context)
	Reschedule(c *gin.Context)
	AddBill(c *gin.Context)
	RecordPayment(c *gin.Context)
	SetDiscount(c *gin.Context)
	Quote(c *gin.Context)
	MyBookings(c *gin.Context)
}

type AvailabilityHTTP interface {
	Check(c *gin.Context)
}

type ListingHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	ResizeInventory(c *gin.Context)
	Activate(c *gin.Context)
	Suspend(c *gin.Context)
}

type Handlers struct {
	Booking        BookingHTTP
	Availability   AvailabilityHTTP
	Listing        ListingHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Actor-ID", "X-Actor-Name", "X-Actor-Roles"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/walk-in", h.Booking.CreateWalkIn)
		api.GET("/listings/:id/quote", h.Booking.Quote)
		api.GET("/bookings/:id", h.Booking.Get)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/complete", h.Booking.Complete)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/reschedule", h.Booking.Reschedule)
		api.POST("/bookings/:id/bills", h.Booking.AddBill)
		api.POST("/bookings/:id/payments", h.Booking.RecordPayment)
		api.PUT("/bookings/:id/discount", h.Booking.SetDiscount)
		api.GET("/me/bookings", h.Booking.MyBookings)
	}
	if h.Availability != nil {
		api.GET("/listings/:id/availability", h.Availability.Check)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.List)
		api.GET("/listings/:id", h.Listing.Get)
		api.POST("/listings", h.Listing.Create)
		api.PUT("/listings/:id", h.Listing.Update)
		api.PUT("/listings/:id/inventory", h.Listing.ResizeInventory)
		api.POST("/listings/:id/activate", h.Listing.Activate)
		api.POST("/listings/:id/suspend", h.Listing.Suspend)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
