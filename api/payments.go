package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const webhookSecretHeader = "X-Webhook-Secret"

// PaymentHandler receives the payment gateway callback. Requests are
// authenticated by a shared secret header rather than a user token.
type PaymentHandler struct {
	service booking.BookingUseCase
	secret  string
}

func NewPaymentHandler(service booking.BookingUseCase, secret string) *PaymentHandler {
	return &PaymentHandler{service: service, secret: secret}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/confirm", h.confirm)
}

func (h *PaymentHandler) confirm(c *gin.Context) {
	given := c.GetHeader(webhookSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret", "code": "unauthenticated"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.service.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}
