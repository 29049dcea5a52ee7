package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertCustomer inserts or updates a customer keyed by normalized phone.
// A single INSERT ... ON CONFLICT statement, not a read-then-write, so
// concurrent bookings from the same phone cannot create duplicate rows.
func (r *Repo) UpsertCustomer(ctx context.Context, params UpsertCustomerParams) (uuid.UUID, error) {
	query := `
		INSERT INTO customers (phone, full_name, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = COALESCE(EXCLUDED.email, customers.email),
			updated_at = now()
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.Phone, params.FullName, params.FirstName, params.LastName, params.Email,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert customer: %w", err)
	}

	return id, nil
}
