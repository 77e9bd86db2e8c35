package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/payment"
	"github.com/Jigar634859/skyportal/internal/service/booking"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST(wire.PathBookings, h.create)
	router.GET(wire.PathMyBookings, h.listMine)
	router.GET(wire.PathBookings+"/:id", h.get)
	router.PATCH(wire.PathBookings+"/:id", h.update)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req wire.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	confirmation := &payment.Confirmation{
		Method:    req.Payment.Method,
		Status:    req.Payment.Status,
		Amount:    req.Payment.Amount,
		Reference: req.Payment.Reference,
	}
	b, err := h.service.Create(c.Request.Context(), req.BookingInput, confirmation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.ListMine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch domain.BookingPatch
	if !bindJSON(c, &patch) {
		return
	}
	b, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
