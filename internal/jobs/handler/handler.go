// Package handler exposes the jobs module's HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"donezo_backend/internal/jobs/service"
	"donezo_backend/internal/jobs/transport"
	"donezo_backend/platform/httpkit"
	"donezo_backend/platform/validator"
)

// Handler serves the public booking endpoint and the professional job board.
type Handler struct {
	service  *service.Service
	validate *validator.Validator
}

// New creates a new jobs handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{service: svc, validate: validate}
}

// CreateBooking handles POST /api/v1/bookings. Public, no auth.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req transport.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	jobID, err := h.service.CreateBooking(c.Request.Context(), service.BookingInput{
		ServiceSlug:   req.ServiceSlug,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		AddressText:   req.AddressText,
		PlaceID:       req.PlaceID,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Sqm:           req.Sqm,
		SqmSource:     req.SqmSource,
		AccessNotes:   req.AccessNotes,
		Storeys:       req.Storeys,
		JobComplexity: req.JobComplexity,
		Urgency:       req.Urgency,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.CreateBookingResponse{JobID: jobID})
}

// AvailableJobs handles GET /api/v1/pro/jobs/available.
func (h *Handler) AvailableJobs(c *gin.Context) {
	jobs, err := h.service.AvailableJobs(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.JobListResponse{
		Jobs:  transport.ToJobResponses(jobs),
		Total: len(jobs),
	})
}

// MyJobs handles GET /api/v1/pro/jobs.
func (h *Handler) MyJobs(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	jobs, err := h.service.JobsForPro(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.JobListResponse{
		Jobs:  transport.ToJobResponses(jobs),
		Total: len(jobs),
	})
}

// ClaimJob handles POST /api/v1/pro/jobs/:id/claim.
func (h *Handler) ClaimJob(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if err := h.service.Claim(c.Request.Context(), jobID, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"jobId": jobID, "status": "assigned"})
}

// UpdateStatus handles POST /api/v1/pro/jobs/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req transport.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	status, err := h.service.Progress(c.Request.Context(), jobID, identity.UserID(), req.NextStatus)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ProgressResponse{JobID: jobID, Status: string(status)})
}

func parseJobID(c *gin.Context) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid job id", nil)
		return uuid.Nil, false
	}
	return jobID, true
}
