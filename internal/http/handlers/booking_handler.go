package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideon/internal/http/middleware"
	"rideon/internal/modules/booking"
	"rideon/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(b *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: b}
}

type createBookingRequest struct {
	VehicleClass string `json:"vehicle_type" binding:"required,vehicleclass"`
	Price        int64  `json:"price" binding:"min=0"`
	Pickup       string `json:"pickup" binding:"required"`
	Destination  string `json:"destination" binding:"required"`
	Promocode    string `json:"promocode"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		UserID:       identity.UserID,
		VehicleClass: req.VehicleClass,
		Price:        req.Price,
		Pickup:       req.Pickup,
		Destination:  req.Destination,
		Promocode:    req.Promocode,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

type createRentalRequest struct {
	VehicleClass string `json:"vehicle_type" binding:"required,vehicleclass"`
	Price        int64  `json:"price" binding:"min=0"`
}

func (h *BookingHandler) CreateRental(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req createRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.bookings.CreateRental(c.Request.Context(), booking.RentalCommand{
		UserID:       identity.UserID,
		VehicleClass: req.VehicleClass,
		Price:        req.Price,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) List(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	bookings, err := h.bookings.History(c.Request.Context(), identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) Get(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")), identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	b, changed, err := h.bookings.Cancel(c.Request.Context(), types.ID(c.Param("id")), identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "cancelled": changed})
}

type payRequest struct {
	Method string `json:"method" binding:"required"`
}

func (h *BookingHandler) Pay(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.bookings.Pay(c.Request.Context(), booking.PayCommand{
		BookingID: types.ID(c.Param("id")),
		UserID:    identity.UserID,
		Method:    booking.PaymentMethod(req.Method),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": res.Booking, "already_paid": res.AlreadyPaid})
}
