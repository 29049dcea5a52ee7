// Package transport defines request/response DTOs for the payments module.
package transport

import "github.com/google/uuid"

// CheckoutRequest asks for a hosted checkout session for an existing job.
// Price is computed server-side from bedrooms and storeys; client-supplied
// amounts are never trusted.
type CheckoutRequest struct {
	JobID        uuid.UUID `json:"jobId" validate:"required"`
	Bedrooms     int       `json:"bedrooms" validate:"required,min=1,max=20"`
	DoubleStorey bool      `json:"doubleStorey"`
}

// CheckoutResponse returns the hosted checkout URL.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
