// Package handler exposes the payments module's HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donezo_backend/internal/payments/service"
	"donezo_backend/internal/payments/transport"
	"donezo_backend/platform/httpkit"
	"donezo_backend/platform/validator"
)

// Handler serves checkout creation and the Stripe webhook.
type Handler struct {
	service  *service.Service
	validate *validator.Validator
}

// New creates a new payments handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{service: svc, validate: validate}
}

// CreateCheckout handles POST /api/v1/payments/checkout.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req transport.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sessionID, url, err := h.service.CreateCheckout(c.Request.Context(), req.JobID, req.Bedrooms, req.DoubleStorey)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CheckoutResponse{SessionID: sessionID, URL: url})
}

// Webhook handles POST /api/v1/payments/webhook. The raw body is required
// for signature verification, so nothing may consume it first.
func (h *Handler) Webhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing Stripe-Signature header", nil)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read webhook body", nil)
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, signature); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"received": true})
}
