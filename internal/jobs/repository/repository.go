package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"donezo_backend/internal/jobs/domain"
	"donezo_backend/platform/apperr"
)

const jobNotFoundMessage = "job not found"

const jobColumns = `
	id, service_slug, customer_id, property_id,
	customer_name, customer_phone, customer_email,
	address_text, place_id, lat, lng,
	sqm, sqm_source, access_notes, storeys, job_complexity, urgency,
	status, pro_id,
	parcel_id, parcel_appellation, parcel_area_sqm, parcel_land_district, parcel_titles, parcel_status,
	is_non_standard, non_standard_reason,
	stripe_session_id, stripe_payment_intent, paid_at,
	created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new jobs repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateJob inserts a new job row in `new` status with its enrichment snapshot.
func (r *Repo) CreateJob(ctx context.Context, params CreateJobParams) (uuid.UUID, error) {
	query := `
		INSERT INTO jobs (
			service_slug, customer_id, property_id,
			customer_name, customer_phone, customer_email,
			address_text, place_id, lat, lng,
			sqm, sqm_source, access_notes, storeys, job_complexity, urgency,
			status,
			parcel_id, parcel_appellation, parcel_area_sqm, parcel_land_district, parcel_titles, parcel_status,
			is_non_standard, non_standard_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.ServiceSlug, params.CustomerID, params.PropertyID,
		params.CustomerName, params.CustomerPhone, params.CustomerEmail,
		params.AddressText, params.PlaceID, params.Lat, params.Lng,
		params.Sqm, params.SqmSource, params.AccessNotes, params.Storeys, params.JobComplexity, params.Urgency,
		domain.StatusNew,
		params.Parcel.ParcelID, params.Parcel.Appellation, params.Parcel.AreaSqm,
		params.Parcel.LandDistrict, params.Parcel.Titles, params.Parcel.Status,
		params.Parcel.IsNonStandard, params.Parcel.NonStandardReason,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create job: %w", err)
	}

	return id, nil
}

// GetJob retrieves a full job row by ID.
func (r *Repo) GetJob(ctx context.Context, id uuid.UUID) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMessage)
		}
		return Job{}, fmt.Errorf("get job: %w", err)
	}

	return job, nil
}

// GetJobState reads the minimal (status, pro_id, paid_at) state of a job.
func (r *Repo) GetJobState(ctx context.Context, id uuid.UUID) (JobState, error) {
	query := `SELECT status, pro_id, paid_at FROM jobs WHERE id = $1`

	var state JobState
	var rawStatus string
	err := r.pool.QueryRow(ctx, query, id).Scan(&rawStatus, &state.ProID, &state.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobState{}, apperr.NotFound(jobNotFoundMessage)
		}
		return JobState{}, fmt.Errorf("get job state: %w", err)
	}

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return JobState{}, fmt.Errorf("get job state: %w", err)
	}
	state.Status = status

	return state, nil
}

// ClaimJob assigns an available job to a professional. The WHERE clause is
// the concurrency control: of N racing claimers, exactly one update matches
// the (available, unowned) row state; the rest affect zero rows.
func (r *Repo) ClaimJob(ctx context.Context, id, proID uuid.UUID) (bool, error) {
	query := `
		UPDATE jobs
		SET status = $3, pro_id = $2, updated_at = now()
		WHERE id = $1 AND status = $4 AND pro_id IS NULL`

	result, err := r.pool.Exec(ctx, query, id, proID, domain.StatusAssigned, domain.StatusAvailable)
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateStatusOwned advances a job's status with the ownership re-checked at
// write time, closing the window between the ownership read and the write.
func (r *Repo) UpdateStatusOwned(ctx context.Context, id, proID uuid.UUID, next domain.Status) (bool, error) {
	query := `
		UPDATE jobs
		SET status = $3, updated_at = now()
		WHERE id = $1 AND pro_id = $2`

	result, err := r.pool.Exec(ctx, query, id, proID, next)
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetStatus writes a status unconditionally. Admin-only escape hatch for
// correcting stuck or anomalous jobs; transition rules are deliberately
// not applied here.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	query := `UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set job status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMessage)
	}

	return nil
}

// MarkPaid stamps the payment fields in one write. The paid_at IS NULL
// condition makes redelivered payment events no-ops.
func (r *Repo) MarkPaid(ctx context.Context, id uuid.UUID, sessionID, paymentIntent string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE jobs
		SET stripe_session_id = $2, stripe_payment_intent = $3, paid_at = $4, updated_at = now()
		WHERE id = $1 AND paid_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id, sessionID, nullableString(paymentIntent), paidAt)
	if err != nil {
		return false, fmt.Errorf("mark job paid: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetParcelSnapshot writes enrichment data onto a job that has none. Used by
// the backfill worker; the parcel_id IS NULL condition keeps the snapshot
// immutable once captured.
func (r *Repo) SetParcelSnapshot(ctx context.Context, id uuid.UUID, snapshot ParcelSnapshot) (bool, error) {
	query := `
		UPDATE jobs
		SET parcel_id = $2, parcel_appellation = $3, parcel_area_sqm = $4,
			parcel_land_district = $5, parcel_titles = $6, parcel_status = $7,
			is_non_standard = $8, non_standard_reason = $9, updated_at = now()
		WHERE id = $1 AND parcel_id IS NULL`

	result, err := r.pool.Exec(ctx, query, id,
		snapshot.ParcelID, snapshot.Appellation, snapshot.AreaSqm,
		snapshot.LandDistrict, snapshot.Titles, snapshot.Status,
		snapshot.IsNonStandard, snapshot.NonStandardReason,
	)
	if err != nil {
		return false, fmt.Errorf("set parcel snapshot: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListAvailable retrieves unclaimed jobs, newest first.
func (r *Repo) ListAvailable(ctx context.Context) ([]Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = $1 AND pro_id IS NULL
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, domain.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("list available jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// ListByPro retrieves all jobs owned by a professional, newest first.
func (r *Repo) ListByPro(ctx context.Context, proID uuid.UUID) ([]Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE pro_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, proID)
	if err != nil {
		return nil, fmt.Errorf("list jobs by pro: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// ListWithFilters retrieves jobs for the admin console with optional status
// filter, address/name/phone search, and pagination.
func (r *Repo) ListWithFilters(ctx context.Context, params ListParams) ([]Job, int, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}
	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	countQuery := `
		SELECT COUNT(*)
		FROM jobs
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR address_text ILIKE $2 OR customer_name ILIKE $2 OR customer_phone ILIKE $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, statusParam, searchParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR address_text ILIKE $2 OR customer_name ILIKE $2 OR customer_phone ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, statusParam, searchParam, limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// ListUnenriched retrieves jobs with coordinates but no parcel snapshot,
// oldest first, keyset-paged so the sweep always advances past jobs whose
// lookup finds nothing.
func (r *Repo) ListUnenriched(ctx context.Context, after UnenrichedCursor, limit int) ([]UnenrichedJob, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, lat, lng, created_at
		FROM jobs
		WHERE parcel_id IS NULL AND lat IS NOT NULL AND lng IS NOT NULL
		  AND (created_at, id) > ($1, $2)
		ORDER BY created_at ASC, id ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, after.CreatedAt, after.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list unenriched jobs: %w", err)
	}
	defer rows.Close()

	var results []UnenrichedJob
	for rows.Next() {
		var job UnenrichedJob
		if err := rows.Scan(&job.ID, &job.Lat, &job.Lng, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unenriched job: %w", err)
		}
		results = append(results, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unenriched jobs: %w", err)
	}

	return results, nil
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var rawStatus string

	err := row.Scan(
		&job.ID, &job.ServiceSlug, &job.CustomerID, &job.PropertyID,
		&job.CustomerName, &job.CustomerPhone, &job.CustomerEmail,
		&job.AddressText, &job.PlaceID, &job.Lat, &job.Lng,
		&job.Sqm, &job.SqmSource, &job.AccessNotes, &job.Storeys, &job.JobComplexity, &job.Urgency,
		&rawStatus, &job.ProID,
		&job.ParcelID, &job.ParcelAppellation, &job.ParcelAreaSqm, &job.ParcelLandDistrict, &job.ParcelTitles, &job.ParcelStatus,
		&job.IsNonStandard, &job.NonStandardReason,
		&job.StripeSessionID, &job.StripePaymentIntent, &job.PaidAt,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return Job{}, err
	}
	job.Status = status

	return job, nil
}

func scanJobs(rows pgx.Rows) ([]Job, error) {
	var results []Job

	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		results = append(results, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return results, nil
}
