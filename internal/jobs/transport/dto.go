// Package transport defines request/response DTOs for the jobs module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"donezo_backend/internal/jobs/repository"
	"donezo_backend/platform/phone"
)

// CreateBookingRequest is the public booking submission.
type CreateBookingRequest struct {
	ServiceSlug   string   `json:"service_slug" validate:"required,max=100"`
	CustomerName  string   `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string   `json:"customer_phone" validate:"required,max=40"`
	CustomerEmail *string  `json:"customer_email" validate:"omitempty,email"`
	AddressText   string   `json:"address_text" validate:"required,max=500"`
	PlaceID       *string  `json:"place_id" validate:"omitempty,max=200"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Sqm           *float64 `json:"sqm"`
	SqmSource     *string  `json:"sqm_source" validate:"omitempty,oneof=user_estimate property_api manual_override"`
	AccessNotes   *string  `json:"access_notes" validate:"omitempty,max=2000"`
	Storeys       *string  `json:"storeys" validate:"omitempty,max=40"`
	JobComplexity *string  `json:"job_complexity" validate:"omitempty,max=40"`
	Urgency       *string  `json:"urgency" validate:"omitempty,max=40"`
}

// CreateBookingResponse returns the new job's identifier.
type CreateBookingResponse struct {
	JobID uuid.UUID `json:"jobId"`
}

// ProgressRequest carries the requested next status for an owned job.
// Only in_progress and completed are accepted targets.
type ProgressRequest struct {
	NextStatus string `json:"next_status" validate:"required"`
}

// ProgressResponse reports the status after a successful transition.
type ProgressResponse struct {
	JobID  uuid.UUID `json:"jobId"`
	Status string    `json:"status"`
}

// AdminStatusRequest carries an admin status override target.
type AdminStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminListRequest filters the admin job listing.
type AdminListRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// JobResponse is the job read model returned to pros and admins.
type JobResponse struct {
	ID            uuid.UUID `json:"id"`
	ServiceSlug   string    `json:"serviceSlug"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	// CustomerPhoneE164 is the display rendering; it falls back to the
	// stored value when the number does not parse.
	CustomerPhoneE164 string     `json:"customerPhoneE164"`
	CustomerEmail     *string    `json:"customerEmail,omitempty"`
	AddressText       string     `json:"addressText"`
	Lat               *float64   `json:"lat,omitempty"`
	Lng               *float64   `json:"lng,omitempty"`
	Sqm               *float64   `json:"sqm,omitempty"`
	AccessNotes       *string    `json:"accessNotes,omitempty"`
	Storeys           *string    `json:"storeys,omitempty"`
	ProID             *uuid.UUID `json:"proId,omitempty"`
	IsNonStandard     *bool      `json:"isNonStandard,omitempty"`
	PaidAt            *string    `json:"paidAt,omitempty"`
	CreatedAt         string     `json:"createdAt"`
}

// JobListResponse wraps a page of jobs.
type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int           `json:"total"`
}

// ToJobResponse maps a repository row to the API read model.
func ToJobResponse(job repository.Job) JobResponse {
	resp := JobResponse{
		ID:                job.ID,
		ServiceSlug:       job.ServiceSlug,
		Status:            string(job.Status),
		CustomerName:      job.CustomerName,
		CustomerPhone:     job.CustomerPhone,
		CustomerPhoneE164: phone.FormatE164(job.CustomerPhone),
		CustomerEmail:     job.CustomerEmail,
		AddressText:       job.AddressText,
		Lat:               job.Lat,
		Lng:               job.Lng,
		Sqm:               job.Sqm,
		AccessNotes:       job.AccessNotes,
		Storeys:           job.Storeys,
		ProID:             job.ProID,
		IsNonStandard:     job.IsNonStandard,
		CreatedAt:         job.CreatedAt.Format(time.RFC3339),
	}

	if job.PaidAt != nil {
		paidAt := job.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	return resp
}

// ToJobResponses maps a slice of repository rows.
func ToJobResponses(jobs []repository.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, ToJobResponse(job))
	}
	return out
}
