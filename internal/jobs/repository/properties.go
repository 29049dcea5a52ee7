package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertProperty inserts or updates a property keyed by its external place
// ID. Same atomicity requirement as the customer upsert.
func (r *Repo) UpsertProperty(ctx context.Context, params UpsertPropertyParams) (uuid.UUID, error) {
	query := `
		INSERT INTO properties (place_id, address_text, lat, lng, sqm, sqm_source)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (place_id) DO UPDATE SET
			address_text = EXCLUDED.address_text,
			lat = COALESCE(EXCLUDED.lat, properties.lat),
			lng = COALESCE(EXCLUDED.lng, properties.lng),
			sqm = COALESCE(EXCLUDED.sqm, properties.sqm),
			sqm_source = COALESCE(EXCLUDED.sqm_source, properties.sqm_source),
			updated_at = now()
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.PlaceID, params.AddressText, params.Lat, params.Lng, params.Sqm, params.SqmSource,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert property: %w", err)
	}

	return id, nil
}
