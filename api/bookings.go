package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	codeTTL time.Duration
}

type createBookingRequest struct {
	CarID     int64  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type verifyCodeRequest struct {
	Code string `json:"code"`
}

// bookingResponse never carries the verification code; it reaches the
// customer only through the notification channel.
type bookingResponse struct {
	ID              int64    `json:"id"`
	CarID           int64    `json:"car_id"`
	CustomerID      int64    `json:"customer_id"`
	CustomerEmail   string   `json:"customer_email,omitempty"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	TotalPriceCents int64    `json:"total_price_cents"`
	PaymentStatus   string   `json:"payment_status"`
	Status          string   `json:"status"`
	CodeExpiresAt   string   `json:"code_expires_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
	Warnings        []string `json:"warnings,omitempty"`
}

// NewBookingHandler builds the customer booking routes. codeTTL is only used
// to tell the client when a freshly issued code stops being accepted.
func NewBookingHandler(service booking.BookingUseCase, codeTTL time.Duration) *BookingHandler {
	return &BookingHandler{service: service, codeTTL: codeTTL}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.listMine)
	router.GET("/:id", h.get)
	router.POST("/:id/verify", h.verify)
	router.POST("/:id/cancel", h.cancel)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		CarID:           b.CarID,
		CustomerID:      b.CustomerID,
		CustomerEmail:   b.CustomerEmail,
		StartDate:       b.StartDate.Format(domain.DateLayout),
		EndDate:         b.EndDate.Format(domain.DateLayout),
		TotalPriceCents: b.TotalPriceCents,
		PaymentStatus:   string(b.PaymentStatus),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(list []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i]))
	}
	return out
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}
	start, err := domain.ParseDay(req.StartDate)
	if err != nil {
		writeError(c, err)
		return
	}
	end, err := domain.ParseDay(req.EndDate)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), identityFrom(c), booking.CreateBookingInput{
		CarID:     req.CarID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := toBookingResponse(result.Booking)
	resp.Warnings = result.Warnings
	if b := result.Booking; b.CodeGeneratedAt != nil {
		resp.CodeExpiresAt = b.CodeGeneratedAt.Add(h.codeTTL).Format(time.RFC3339)
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	list, err := h.service.ListMyBookings(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(list))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) verify(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required", "code": "validation"})
		return
	}

	b, err := h.service.VerifyCode(c.Request.Context(), identityFrom(c), id, req.Code)
	if errors.Is(err, domain.ErrCodeExpired) && b != nil {
		c.JSON(http.StatusGone, gin.H{"error": err.Error(), "code": "code_expired", "booking": toBookingResponse(b)})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.service.Cancel(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}
