package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/Domenick1991/quickrent/internal/service/cars"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	JWTSecret            string
	PaymentWebhookSecret string
	AllowedOrigins       []string
	CodeTTL              time.Duration
}

// NewRouter assembles the public API. Booking routes require a token; admin
// routes additionally require the admin role.
func NewRouter(cfg RouterConfig, carService cars.CarUseCase, bookingService booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	apiGroup.Use(IdentityMiddleware(cfg.JWTSecret))

	NewCarHandler(carService).Register(apiGroup.Group("/cars"))
	NewBookingHandler(bookingService, cfg.CodeTTL).Register(apiGroup.Group("/bookings", RequireAuth()))
	NewAdminHandler(bookingService).Register(apiGroup.Group("/admin", RequireAdmin()))
	NewPaymentHandler(bookingService, cfg.PaymentWebhookSecret).Register(apiGroup.Group("/payments"))

	return router
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		for _, allowed := range allowedOrigins {
			if allowed == "*" || origin == allowed {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Webhook-Secret")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
