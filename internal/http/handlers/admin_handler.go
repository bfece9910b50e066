package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideon/internal/modules/booking"
	"rideon/internal/types"
)

// AdminHandler serves the ops dashboard: live trips and the manual
// start/complete controls standing in for driver-app events.
type AdminHandler struct {
	bookings *booking.Service
}

func NewAdminHandler(b *booking.Service) *AdminHandler {
	return &AdminHandler{bookings: b}
}

func (h *AdminHandler) Ongoing(c *gin.Context) {
	bookings, err := h.bookings.Ongoing(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *AdminHandler) Start(c *gin.Context) {
	b, err := h.bookings.Start(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) Complete(c *gin.Context) {
	b, err := h.bookings.Complete(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
