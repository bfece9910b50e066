// Package handlers maps the HTTP surface onto the domain services.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"rideon/internal/modules/booking"
	"rideon/internal/modules/wallet"
)

// writeError maps domain errors to HTTP statuses in one place so every
// handler reports failures the same way.
func writeError(c *gin.Context, err error) {
	var insufficient *wallet.InsufficientBalanceError
	var validation validator.ValidationErrors

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":     "insufficient wallet balance",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, booking.ErrActiveTrip):
		c.JSON(http.StatusConflict, gin.H{"error": "you already have an active trip"})
	case errors.Is(err, booking.ErrInvalidState), errors.Is(err, booking.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotPayable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidPayment),
		errors.Is(err, booking.ErrBadRequest),
		errors.Is(err, wallet.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	var validation validator.ValidationErrors
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
}
