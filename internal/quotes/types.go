// Package quotes handles custom quote requests for homes outside the
// fixed-price table.
package quotes

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest is a persisted custom quote submission.
type QuoteRequest struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	Phone     string
	Address   string
	Bedrooms  *int
	Storeys   *string
	Notes     *string
	Status    string
	CreatedAt time.Time
}

// CreateQuoteRequest is the public submission body.
type CreateQuoteRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    string  `json:"phone" validate:"required,max=40"`
	Address  string  `json:"address" validate:"required,max=500"`
	Bedrooms *int    `json:"bedrooms" validate:"omitempty,min=1,max=50"`
	Storeys  *string `json:"storeys" validate:"omitempty,max=40"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

// QuoteResponse is the admin-facing read model.
type QuoteResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Bedrooms  *int      `json:"bedrooms,omitempty"`
	Storeys   *string   `json:"storeys,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"createdAt"`
}

func toQuoteResponse(q QuoteRequest) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Name:      q.Name,
		Email:     q.Email,
		Phone:     q.Phone,
		Address:   q.Address,
		Bedrooms:  q.Bedrooms,
		Storeys:   q.Storeys,
		Notes:     q.Notes,
		Status:    q.Status,
		CreatedAt: q.CreatedAt.Format(time.RFC3339),
	}
}
