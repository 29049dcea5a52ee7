// Package handler exposes the auth module's HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donezo_backend/internal/auth/service"
	"donezo_backend/internal/auth/transport"
	"donezo_backend/platform/httpkit"
	"donezo_backend/platform/validator"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
	refreshCookieTTL  = 30 * 24 * 60 * 60 // seconds
)

// Handler serves sign-in, refresh, and sign-out.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

// New creates a new auth handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// SignIn handles POST /api/v1/auth/login.
func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	access, refresh, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	h.setRefreshCookie(c, refresh)
	httpkit.OK(c, transport.AuthResponse{AccessToken: access})
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token comes from
// the HttpOnly cookie, never the body.
func (h *Handler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(refreshCookieName)
	if err != nil || refresh == "" {
		httpkit.Error(c, http.StatusUnauthorized, "missing session", nil)
		return
	}

	access, newRefresh, err := h.svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.clearRefreshCookie(c)
		httpkit.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, newRefresh)
	httpkit.OK(c, transport.AuthResponse{AccessToken: access})
}

// SignOut handles POST /api/v1/auth/logout.
func (h *Handler) SignOut(c *gin.Context) {
	if refresh, err := c.Cookie(refreshCookieName); err == nil && refresh != "" {
		if err := h.svc.SignOut(c.Request.Context(), refresh); httpkit.HandleError(c, err) {
			return
		}
	}

	h.clearRefreshCookie(c)
	httpkit.OK(c, gin.H{"message": "signed out"})
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	user, roles, err := h.svc.Profile(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.MeResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    roles,
	})
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, refreshCookieTTL, refreshCookiePath, "", true, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", true, true)
}
