package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideon/internal/http/middleware"
	"rideon/internal/modules/wallet"
)

type WalletHandler struct {
	wallet *wallet.Service
}

func NewWalletHandler(w *wallet.Service) *WalletHandler {
	return &WalletHandler{wallet: w}
}

func (h *WalletHandler) Get(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	w, err := h.wallet.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

type topUpRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (h *WalletHandler) TopUp(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.wallet.TopUp(c.Request.Context(), identity.UserID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	entries, err := h.wallet.Transactions(c.Request.Context(), identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []wallet.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}
