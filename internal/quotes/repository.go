package quotes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"donezo_backend/platform/phone"
	"donezo_backend/platform/sanitize"
)

// Repository persists custom quote requests.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new quotes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a quote request in `new` status.
func (r *Repository) Create(ctx context.Context, req CreateQuoteRequest) (uuid.UUID, error) {
	query := `
		INSERT INTO custom_quote_requests (name, email, phone, address, bedrooms, storeys, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'new')
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		req.Name, req.Email, phone.Normalize(req.Phone), req.Address,
		req.Bedrooms, req.Storeys, sanitize.TextPtr(req.Notes),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create quote request: %w", err)
	}

	return id, nil
}

// List returns quote requests newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]QuoteRequest, error) {
	query := `
		SELECT id, name, email, phone, address, bedrooms, storeys, notes, status, created_at
		FROM custom_quote_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quote requests: %w", err)
	}
	defer rows.Close()

	var out []QuoteRequest
	for rows.Next() {
		var q QuoteRequest
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Address,
			&q.Bedrooms, &q.Storeys, &q.Notes, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quote request: %w", err)
		}
		out = append(out, q)
	}

	return out, rows.Err()
}
