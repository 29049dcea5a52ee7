package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"donezo_backend/internal/jobs/domain"
)

// Job is the persisted read model for a job row.
type Job struct {
	ID            uuid.UUID
	ServiceSlug   string
	CustomerID    uuid.UUID
	PropertyID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	AddressText   string
	PlaceID       *string
	Lat           *float64
	Lng           *float64
	Sqm           *float64
	SqmSource     *string
	AccessNotes   *string
	Storeys       *string
	JobComplexity *string
	Urgency       *string
	Status        domain.Status
	ProID         *uuid.UUID

	// Parcel enrichment snapshot, immutable after capture.
	ParcelID           *string
	ParcelAppellation  *string
	ParcelAreaSqm      *float64
	ParcelLandDistrict *string
	ParcelTitles       *string
	ParcelStatus       *string
	IsNonStandard      *bool
	NonStandardReason  *string

	StripeSessionID     *string
	StripePaymentIntent *string
	PaidAt              *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobState is the minimal row state read before a conditional transition.
type JobState struct {
	Status domain.Status
	ProID  *uuid.UUID
	PaidAt *time.Time
}

// ParcelSnapshot holds enrichment values captured onto a job at creation
// time or by the backfill worker.
type ParcelSnapshot struct {
	ParcelID          *string
	Appellation       *string
	AreaSqm           *float64
	LandDistrict      *string
	Titles            *string
	Status            *string
	IsNonStandard     *bool
	NonStandardReason *string
}

// UpsertCustomerParams identifies a customer by normalized phone.
type UpsertCustomerParams struct {
	Phone     string
	FullName  string
	FirstName *string
	LastName  *string
	Email     *string
}

// UpsertPropertyParams identifies a property by external place ID.
type UpsertPropertyParams struct {
	PlaceID     string
	AddressText string
	Lat         *float64
	Lng         *float64
	Sqm         *float64
	SqmSource   *string
}

// CreateJobParams holds everything needed to insert a job in `new` status.
type CreateJobParams struct {
	ServiceSlug   string
	CustomerID    uuid.UUID
	PropertyID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	AddressText   string
	PlaceID       *string
	Lat           *float64
	Lng           *float64
	Sqm           *float64
	SqmSource     *string
	AccessNotes   *string
	Storeys       *string
	JobComplexity *string
	Urgency       *string
	Parcel        ParcelSnapshot
}

// ListParams filters the admin job listing.
type ListParams struct {
	Status *domain.Status
	Search string
	Limit  int
	Offset int
}

// UnenrichedJob is a job eligible for parcel backfill.
type UnenrichedJob struct {
	ID        uuid.UUID
	Lat       float64
	Lng       float64
	CreatedAt time.Time
}

// UnenrichedCursor is a keyset position in the backfill sweep. The zero
// value starts from the oldest job.
type UnenrichedCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Repository is the persistence port for the jobs bounded context.
type Repository interface {
	UpsertCustomer(ctx context.Context, params UpsertCustomerParams) (uuid.UUID, error)
	UpsertProperty(ctx context.Context, params UpsertPropertyParams) (uuid.UUID, error)
	CreateJob(ctx context.Context, params CreateJobParams) (uuid.UUID, error)

	GetJob(ctx context.Context, id uuid.UUID) (Job, error)
	GetJobState(ctx context.Context, id uuid.UUID) (JobState, error)

	// ClaimJob performs the atomic claim: it assigns the job to proID only
	// if the row is still available and unowned at write time. Returns
	// false when the conditional write affected zero rows.
	ClaimJob(ctx context.Context, id, proID uuid.UUID) (bool, error)

	// UpdateStatusOwned advances a job's status, re-checking ownership at
	// write time. Returns false when the conditional write affected zero rows.
	UpdateStatusOwned(ctx context.Context, id, proID uuid.UUID, next domain.Status) (bool, error)

	// SetStatus is the admin escape hatch: an unconditional status write.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) error

	// MarkPaid stamps the payment fields in one write, conditioned on the
	// job not being paid yet. Returns false when already paid.
	MarkPaid(ctx context.Context, id uuid.UUID, sessionID, paymentIntent string, paidAt time.Time) (bool, error)

	// SetParcelSnapshot writes enrichment onto a job that has none yet.
	// Returns false when the job already carries a snapshot.
	SetParcelSnapshot(ctx context.Context, id uuid.UUID, snapshot ParcelSnapshot) (bool, error)

	ListAvailable(ctx context.Context) ([]Job, error)
	ListByPro(ctx context.Context, proID uuid.UUID) ([]Job, error)
	ListWithFilters(ctx context.Context, params ListParams) ([]Job, int, error)
	// ListUnenriched pages through jobs with coordinates but no parcel
	// snapshot in creation order, starting after the cursor position.
	ListUnenriched(ctx context.Context, after UnenrichedCursor, limit int) ([]UnenrichedJob, error)
}
