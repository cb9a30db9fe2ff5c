package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/Domenick1991/quickrent/internal/service/cars"
	"github.com/gin-gonic/gin"
)

type CarHandler struct {
	service cars.CarUseCase
}

type carResponse struct {
	ID              int64  `json:"id"`
	NumberPlate     string `json:"number_plate"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	RentPerDayCents int64  `json:"rent_per_day_cents"`
	IsAvailable     bool   `json:"is_available"`
	ImageURL        string `json:"image_url,omitempty"`
}

func NewCarHandler(service cars.CarUseCase) *CarHandler {
	return &CarHandler{service: service}
}

func (h *CarHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/available", h.available)
	router.GET("/:id", h.get)
}

func toCarResponse(car domain.Car) carResponse {
	return carResponse{
		ID:              car.ID,
		NumberPlate:     car.NumberPlate,
		Brand:           car.Brand,
		Model:           car.Model,
		RentPerDayCents: car.RentPerDayCents,
		IsAvailable:     car.IsAvailable,
		ImageURL:        car.ImageURL,
	}
}

func toCarResponses(list []domain.Car) []carResponse {
	out := make([]carResponse, 0, len(list))
	for _, car := range list {
		out = append(out, toCarResponse(car))
	}
	return out
}

func (h *CarHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponses(list))
}

func (h *CarHandler) available(c *gin.Context) {
	start, err := domain.ParseDay(c.Query("start"))
	if err != nil {
		writeError(c, err)
		return
	}
	end, err := domain.ParseDay(c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}

	list, err := h.service.Available(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponses(list))
}

func (h *CarHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	car, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponse(*car))
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, c.Param("id"))
	}
	return id, nil
}
