// Package service implements the job lifecycle: booking creation, claiming,
// progress transitions, and the admin override surface.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"donezo_backend/internal/jobs/domain"
	"donezo_backend/internal/jobs/repository"
	parcelsvc "donezo_backend/internal/parcels/service"
	"donezo_backend/platform/apperr"
	"donezo_backend/platform/logger"
	"donezo_backend/platform/phone"
	"donezo_backend/platform/sanitize"
)

const (
	// nonStandardAreaSqm is the parcel area above which a job is flagged
	// for manual triage rather than the fixed-price flow.
	nonStandardAreaSqm = 1000.0

	// enrichmentTimeout caps the best-effort parcel lookup so it can never
	// hold up booking creation.
	enrichmentTimeout = 3 * time.Second

	msgAlreadyClaimed = "this job has already been claimed"
	msgNotOwner       = "you do not own this job"
)

// ParcelLookup is the slice of the parcels module the pipeline needs.
type ParcelLookup interface {
	Lookup(ctx context.Context, lat, lng float64) (*parcelsvc.Parcel, error)
}

// BackfillScheduler enqueues an out-of-band enrichment retry. Nil-safe
// implementations are expected when no queue is configured.
type BackfillScheduler interface {
	ScheduleParcelBackfill(ctx context.Context, jobID uuid.UUID) error
}

// BookingInput is the validated, caller-independent booking submission.
type BookingInput struct {
	ServiceSlug   string
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
}

// Service orchestrates job operations against the repository.
type Service struct {
	repo     repository.Repository
	parcels  ParcelLookup
	backfill BackfillScheduler
	log      *logger.Logger
}

// New creates a new jobs service. parcels and backfill may be nil, which
// disables enrichment and queued retries respectively.
func New(repo repository.Repository, parcels ParcelLookup, backfill BackfillScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, parcels: parcels, backfill: backfill, log: log}
}

// CreateBooking runs the creation pipeline: validate, upsert customer and
// property, best-effort parcel enrichment, then insert the job in `new`
// status. Enrichment failures never block the booking.
func (s *Service) CreateBooking(ctx context.Context, input BookingInput) (uuid.UUID, error) {
	if err := validateBooking(&input); err != nil {
		return uuid.Nil, err
	}

	normalizedPhone := phone.Normalize(input.CustomerPhone)
	if !phone.IsValid(normalizedPhone) {
		// Advisory only; a typo'd phone still books the job.
		s.log.Warn("booking phone failed NZ validation", "phone", normalizedPhone)
	}

	firstName, lastName := splitName(input.CustomerName)
	customerID, err := s.repo.UpsertCustomer(ctx, repository.UpsertCustomerParams{
		Phone:     normalizedPhone,
		FullName:  input.CustomerName,
		FirstName: firstName,
		LastName:  lastName,
		Email:     input.CustomerEmail,
	})
	if err != nil {
		s.log.DatabaseError("upsert customer", err)
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to save booking", err)
	}

	var propertyID *uuid.UUID
	if input.PlaceID != nil && *input.PlaceID != "" {
		id, err := s.repo.UpsertProperty(ctx, repository.UpsertPropertyParams{
			PlaceID:     *input.PlaceID,
			AddressText: input.AddressText,
			Lat:         input.Lat,
			Lng:         input.Lng,
			Sqm:         input.Sqm,
			SqmSource:   input.SqmSource,
		})
		if err != nil {
			s.log.DatabaseError("upsert property", err)
			return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to save booking", err)
		}
		propertyID = &id
	}

	snapshot, enriched := s.enrich(ctx, input.Lat, input.Lng)

	jobID, err := s.repo.CreateJob(ctx, repository.CreateJobParams{
		ServiceSlug:   input.ServiceSlug,
		CustomerID:    customerID,
		PropertyID:    propertyID,
		CustomerName:  input.CustomerName,
		CustomerPhone: normalizedPhone,
		CustomerEmail: input.CustomerEmail,
		AddressText:   input.AddressText,
		PlaceID:       input.PlaceID,
		Lat:           input.Lat,
		Lng:           input.Lng,
		Sqm:           input.Sqm,
		SqmSource:     input.SqmSource,
		AccessNotes:   input.AccessNotes,
		Storeys:       input.Storeys,
		JobComplexity: input.JobComplexity,
		Urgency:       input.Urgency,
		Parcel:        snapshot,
	})
	if err != nil {
		s.log.DatabaseError("create job", err)
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to create job", err)
	}

	// When enrichment was skipped or failed but we have coordinates, hand
	// the job to the backfill queue. Best-effort again.
	if !enriched && s.backfill != nil && input.Lat != nil && input.Lng != nil {
		if err := s.backfill.ScheduleParcelBackfill(ctx, jobID); err != nil {
			s.log.Warn("failed to schedule parcel backfill", "job_id", jobID, "error", err)
		}
	}

	return jobID, nil
}

// enrich attempts the parcel lookup and derives the non-standard flag.
// Every failure path returns an empty snapshot; the job is created either way.
func (s *Service) enrich(ctx context.Context, lat, lng *float64) (repository.ParcelSnapshot, bool) {
	if s.parcels == nil || lat == nil || lng == nil {
		return repository.ParcelSnapshot{}, false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()

	parcel, err := s.parcels.Lookup(lookupCtx, *lat, *lng)
	if err != nil {
		s.log.Warn("parcel enrichment failed", "error", err)
		return repository.ParcelSnapshot{}, false
	}
	if parcel == nil {
		return repository.ParcelSnapshot{}, false
	}

	return BuildParcelSnapshot(parcel), true
}

// BuildParcelSnapshot maps a parcel lookup result onto the job snapshot,
// deriving the non-standard flag from the area threshold. Shared with the
// backfill worker.
func BuildParcelSnapshot(parcel *parcelsvc.Parcel) repository.ParcelSnapshot {
	snapshot := repository.ParcelSnapshot{
		ParcelID:     parcel.ID,
		Appellation:  parcel.Appellation,
		AreaSqm:      parcel.AreaSqm,
		LandDistrict: parcel.LandDistrict,
		Titles:       parcel.Titles,
		Status:       parcel.Status,
	}

	if parcel.AreaSqm != nil {
		nonStandard := *parcel.AreaSqm > nonStandardAreaSqm
		snapshot.IsNonStandard = &nonStandard
		if nonStandard {
			reason := fmt.Sprintf("parcel_area_sqm > %.0f", nonStandardAreaSqm)
			snapshot.NonStandardReason = &reason
		}
	}

	return snapshot
}

// SweepUnenriched re-attempts parcel enrichment for every job created
// without a snapshot, paging by creation order. The cursor advances past
// every row it touches, so jobs whose lookup finds nothing cannot stall
// the sweep in front of enrichable ones.
func (s *Service) SweepUnenriched(ctx context.Context, batchSize int, delay time.Duration) (processed, updated int, err error) {
	if s.parcels == nil {
		return 0, 0, fmt.Errorf("parcel lookup not configured")
	}

	var cursor repository.UnenrichedCursor
	for {
		pending, err := s.repo.ListUnenriched(ctx, cursor, batchSize)
		if err != nil {
			return processed, updated, fmt.Errorf("list unenriched jobs: %w", err)
		}
		if len(pending) == 0 {
			return processed, updated, nil
		}

		for _, job := range pending {
			processed++
			cursor = repository.UnenrichedCursor{CreatedAt: job.CreatedAt, ID: job.ID}

			parcel, err := s.parcels.Lookup(ctx, job.Lat, job.Lng)
			if err != nil {
				s.log.Warn("parcel lookup failed", "job_id", job.ID, "error", err)
				continue
			}
			if parcel == nil {
				continue
			}

			written, err := s.repo.SetParcelSnapshot(ctx, job.ID, BuildParcelSnapshot(parcel))
			if err != nil {
				s.log.Error("failed to write parcel snapshot", "job_id", job.ID, "error", err)
				continue
			}
			if written {
				updated++
			}

			if delay > 0 {
				time.Sleep(delay)
			}
		}
	}
}

// Claim assigns an available job to the calling professional. The data
// layer enforces the precondition; a lost race surfaces as AlreadyClaimed.
func (s *Service) Claim(ctx context.Context, jobID, proID uuid.UUID) error {
	claimed, err := s.repo.ClaimJob(ctx, jobID, proID)
	if err != nil {
		s.log.DatabaseError("claim job", err)
		return apperr.Wrap(apperr.KindInternal, "failed to claim job", err)
	}

	if !claimed {
		// Zero rows: either the job is gone or someone beat us to it.
		if _, err := s.repo.GetJobState(ctx, jobID); err != nil {
			return err
		}
		return apperr.AlreadyClaimed(msgAlreadyClaimed)
	}

	s.log.JobTransition(jobID.String(), string(domain.StatusAvailable), string(domain.StatusAssigned), proID.String())
	return nil
}

// Progress advances an owned job along the fixed transition table. The
// write re-checks ownership so a concurrent admin reassignment cannot slip
// through between the read and the write.
func (s *Service) Progress(ctx context.Context, jobID, proID uuid.UUID, nextRaw string) (domain.Status, error) {
	next, err := domain.ParseStatus(nextRaw)
	if err != nil || !domain.IsProTarget(next) {
		return "", apperr.Validation("next_status must be 'in_progress' or 'completed'")
	}

	state, err := s.repo.GetJobState(ctx, jobID)
	if err != nil {
		return "", err
	}

	if state.ProID == nil || *state.ProID != proID {
		return "", apperr.Forbidden(msgNotOwner)
	}

	if !domain.CanTransition(state.Status, next) {
		return "", apperr.InvalidTransition(
			fmt.Sprintf("cannot transition from '%s' to '%s'", state.Status, next))
	}

	updated, err := s.repo.UpdateStatusOwned(ctx, jobID, proID, next)
	if err != nil {
		s.log.DatabaseError("update job status", err)
		return "", apperr.Wrap(apperr.KindInternal, "failed to update job status", err)
	}
	if !updated {
		// Ownership changed between the read and the write. A lost race,
		// not a crash.
		return "", apperr.Forbidden(msgNotOwner)
	}

	s.log.JobTransition(jobID.String(), string(state.Status), string(next), proID.String())
	return next, nil
}

// AdminSetStatus sets any status in the vocabulary, bypassing the
// transition table. Deliberately permissive: this surface exists to correct
// stuck or anomalous jobs.
func (s *Service) AdminSetStatus(ctx context.Context, jobID uuid.UUID, rawStatus string, adminID uuid.UUID) error {
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return apperr.Validation(fmt.Sprintf("status must be one of: %s", statusVocabulary()))
	}

	if err := s.repo.SetStatus(ctx, jobID, status); err != nil {
		return err
	}

	s.log.JobTransition(jobID.String(), "(admin override)", string(status), adminID.String())
	return nil
}

// AvailableJobs lists unclaimed jobs for the professional job board.
func (s *Service) AvailableJobs(ctx context.Context) ([]repository.Job, error) {
	return s.repo.ListAvailable(ctx)
}

// JobsForPro lists the jobs owned by a professional.
func (s *Service) JobsForPro(ctx context.Context, proID uuid.UUID) ([]repository.Job, error) {
	return s.repo.ListByPro(ctx, proID)
}

// AdminList lists jobs with filters for the admin console.
func (s *Service) AdminList(ctx context.Context, rawStatus, search string, limit, offset int) ([]repository.Job, int, error) {
	params := repository.ListParams{Search: search, Limit: limit, Offset: offset}

	if rawStatus != "" {
		status, err := domain.ParseStatus(rawStatus)
		if err != nil {
			return nil, 0, apperr.Validation(fmt.Sprintf("status must be one of: %s", statusVocabulary()))
		}
		params.Status = &status
	}

	return s.repo.ListWithFilters(ctx, params)
}

// GetJob fetches a single job (admin detail view).
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (repository.Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

func validateBooking(input *BookingInput) error {
	input.ServiceSlug = strings.TrimSpace(input.ServiceSlug)
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.AddressText = strings.TrimSpace(input.AddressText)

	switch {
	case input.ServiceSlug == "":
		return apperr.Validation("service_slug is required")
	case input.CustomerName == "":
		return apperr.Validation("customer_name is required")
	case input.CustomerPhone == "":
		return apperr.Validation("customer_phone is required")
	case input.AddressText == "":
		return apperr.Validation("address_text is required")
	}

	input.AccessNotes = sanitize.TextPtr(input.AccessNotes)

	return nil
}

// splitName derives first/last name from a full name by whitespace
// splitting. Either part may be nil.
func splitName(fullName string) (*string, *string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return nil, nil
	}

	first := parts[0]
	if len(parts) == 1 {
		return &first, nil
	}

	last := strings.Join(parts[1:], " ")
	return &first, &last
}

func statusVocabulary() string {
	names := make([]string, 0, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
