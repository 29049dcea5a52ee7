// Package handler exposes the parcel lookup endpoint.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"donezo_backend/internal/parcels/service"
	"donezo_backend/platform/httpkit"
)

// Handler handles parcel lookup HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a new parcels handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ParcelResponse is the lookup response body.
type ParcelResponse struct {
	ID           *string  `json:"id"`
	Appellation  *string  `json:"appellation"`
	AreaSqm      *float64 `json:"areaSqm"`
	LandDistrict *string  `json:"landDistrict"`
	Titles       *string  `json:"titles"`
	Status       *string  `json:"status"`
}

// Lookup finds the parcel covering a coordinate.
// GET /api/v1/parcels?lat=&lng=
func (h *Handler) Lookup(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		httpkit.Error(c, http.StatusBadRequest, "lat and lng query parameters are required", nil)
		return
	}

	parcel, err := h.svc.Lookup(c.Request.Context(), lat, lng)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "parcel lookup failed", nil)
		return
	}
	if parcel == nil {
		httpkit.Error(c, http.StatusNotFound, "no parcel found near that point", nil)
		return
	}

	httpkit.OK(c, ParcelResponse{
		ID:           parcel.ID,
		Appellation:  parcel.Appellation,
		AreaSqm:      parcel.AreaSqm,
		LandDistrict: parcel.LandDistrict,
		Titles:       parcel.Titles,
		Status:       parcel.Status,
	})
}
