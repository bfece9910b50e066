package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideon/internal/modules/pricing"
)

type QuoteHandler struct {
	pricing *pricing.Service
}

func NewQuoteHandler(p *pricing.Service) *QuoteHandler {
	return &QuoteHandler{pricing: p}
}

// List quotes every eligible vehicle class for a route. Without a
// pickup and destination it falls back to a catalog preview, so the
// endpoint never fails on bad place names.
func (h *QuoteHandler) List(c *gin.Context) {
	quotes := h.pricing.Quote(c.Request.Context(), pricing.QuoteRequest{
		Pickup:            c.Query("pickup"),
		Destination:       c.Query("destination"),
		Promocode:         c.Query("promocode"),
		AlreadyDiscounted: c.Query("already_discounted") == "true",
	})
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

type applyPromoRequest struct {
	VehicleClass      string `json:"vehicle_type" binding:"omitempty,vehicleclass"`
	Price             int64  `json:"price" binding:"min=0"`
	Promocode         string `json:"promocode" binding:"required"`
	AlreadyDiscounted bool   `json:"already_discounted"`
}

// ApplyPromo prices a promocode against a quoted fare without booking.
func (h *QuoteHandler) ApplyPromo(c *gin.Context) {
	var req applyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	price, discount, valid := h.pricing.Promos().Apply(req.Price, req.Promocode, req.AlreadyDiscounted)
	c.JSON(http.StatusOK, gin.H{
		"valid":    valid,
		"price":    price,
		"discount": discount,
	})
}
