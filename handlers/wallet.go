package handlers

import (
	"errors"
	"net/http"

	"swapp/middleware"
	"swapp/services/wallet"
	"swapp/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler exposes the coin wallet endpoints.
type WalletHandler struct {
	svc    wallet.WalletService
	logger *zap.Logger
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(svc wallet.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, logger: logger}
}

func respondWalletError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, wallet.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
	case errors.Is(err, wallet.ErrUnknownPackage):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown coin package"})
	case errors.Is(err, wallet.ErrIntentNotPaid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment has not succeeded yet"})
	case errors.Is(err, wallet.ErrIntentMismatch):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Payment does not belong to this account"})
	case errors.Is(err, wallet.ErrAlreadyCredited):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Payment already credited"})
	default:
		logger.Error("wallet operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
	}
}

// GetWallet returns the authenticated user's balance and recent ledger.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	summary, err := h.svc.GetWallet(c.Request.Context(), requesterID)
	if err != nil {
		respondWalletError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// ListPackages returns the purchasable coin packages.
func (h *WalletHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"packages": h.svc.ListPackages()},
	})
}

// CreateTopUp opens a payment intent for a coin package.
func (h *WalletHandler) CreateTopUp(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var input struct {
		PackageID string `json:"packageId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	intent, err := h.svc.CreateTopUp(c.Request.Context(), requesterID, input.PackageID)
	if err != nil {
		respondWalletError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": intent})
}

// ConfirmTopUp credits the purchased coins once the payment succeeded.
func (h *WalletHandler) ConfirmTopUp(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var input struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.PaymentIntentID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "paymentIntentId is required")
		return
	}

	summary, err := h.svc.ConfirmTopUp(c.Request.Context(), requesterID, input.PaymentIntentID)
	if err != nil {
		respondWalletError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}
