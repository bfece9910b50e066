// Package http assembles the gin router over the domain services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"rideon/internal/auth"
	"rideon/internal/http/handlers"
	"rideon/internal/http/middleware"
	"rideon/internal/modules/booking"
	"rideon/internal/modules/pricing"
	"rideon/internal/modules/wallet"
)

// Services bundles everything the router wires handlers to.
type Services struct {
	Pricing  *pricing.Service
	Bookings *booking.Service
	Wallet   *wallet.Service
	Auth     *auth.Manager
}

// NewRouter builds the full route tree. Quote and promocode endpoints
// are public; everything else requires a bearer token, and the admin
// group additionally requires the admin claim.
func NewRouter(svcs Services, log *zap.Logger, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	registerVehicleClassValidation(svcs.Pricing.Catalog())

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	quoteHandler := handlers.NewQuoteHandler(svcs.Pricing)
	bookingHandler := handlers.NewBookingHandler(svcs.Bookings)
	walletHandler := handlers.NewWalletHandler(svcs.Wallet)
	adminHandler := handlers.NewAdminHandler(svcs.Bookings)

	api := r.Group("/api")
	{
		api.GET("/quotes", quoteHandler.List)
		api.POST("/promocodes/apply", quoteHandler.ApplyPromo)
	}

	authed := api.Group("", middleware.Auth(svcs.Auth))
	{
		authed.POST("/bookings", bookingHandler.Create)
		authed.POST("/rentals", bookingHandler.CreateRental)
		authed.GET("/bookings", bookingHandler.List)
		authed.GET("/bookings/:id", bookingHandler.Get)
		authed.POST("/bookings/:id/cancel", bookingHandler.Cancel)
		authed.POST("/bookings/:id/pay", bookingHandler.Pay)

		authed.GET("/wallet", walletHandler.Get)
		authed.POST("/wallet/topup", walletHandler.TopUp)
		authed.GET("/wallet/transactions", walletHandler.Transactions)
	}

	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/bookings/ongoing", adminHandler.Ongoing)
		admin.POST("/bookings/:id/start", adminHandler.Start)
		admin.POST("/bookings/:id/complete", adminHandler.Complete)
	}

	return r
}

// registerVehicleClassValidation teaches the binding validator the
// `vehicleclass` tag so request DTOs reject classes outside the
// catalog before reaching a service.
func registerVehicleClassValidation(catalog pricing.Catalog) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("vehicleclass", func(fl validator.FieldLevel) bool {
		return catalog.Contains(pricing.VehicleClass(fl.Field().String()))
	})
}
