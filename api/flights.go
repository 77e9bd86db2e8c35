package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/service/flights"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

// Register mounts the public reads on public and the catalog mutations on
// admin.
func (h *FlightHandler) Register(public, admin *gin.RouterGroup) {
	public.GET(wire.PathFlights, h.list)
	public.GET(wire.PathFlightSearch, h.search)
	public.GET(wire.PathFlights+"/:id", h.get)

	admin.POST(wire.PathFlights, h.create)
	admin.PUT(wire.PathFlights+"/:id", h.update)
	admin.DELETE(wire.PathFlights+"/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) search(c *gin.Context) {
	flights, err := h.service.Search(c.Request.Context(), domain.SearchQuery{
		From: c.Query(wire.QueryFrom),
		To:   c.Query(wire.QueryTo),
		Date: c.Query(wire.QueryDate),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input domain.FlightInput
	if !bindJSON(c, &input) {
		return
	}
	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch domain.FlightPatch
	if !bindJSON(c, &patch) {
		return
	}
	flight, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
