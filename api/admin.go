package api

import (
	"net/http"

	"github.com/Domenick1991/quickrent/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service booking.BookingUseCase
}

func NewAdminHandler(service booking.BookingUseCase) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.GET("/dashboard", h.dashboard)
	router.POST("/bookings/:id/approve", h.approve)
	router.POST("/bookings/:id/reject", h.reject)
}

func (h *AdminHandler) list(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(list))
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) approve(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.service.Approve(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *AdminHandler) reject(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.service.Reject(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}
