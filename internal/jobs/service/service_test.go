package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"donezo_backend/internal/jobs/domain"
	"donezo_backend/internal/jobs/repository"
	parcelsvc "donezo_backend/internal/parcels/service"
	"donezo_backend/platform/apperr"
	"donezo_backend/platform/logger"
)

// fakeRepo is an in-memory Repository that mimics the conditional-write
// semantics of the SQL layer. The mutex stands in for the row-level
// atomicity of a single UPDATE.
type fakeRepo struct {
	mu         sync.Mutex
	customers  map[string]uuid.UUID // phone -> id
	jobs       map[uuid.UUID]*repository.Job
	unenriched []repository.UnenrichedJob

	lastCustomer repository.UpsertCustomerParams
	lastJob      repository.CreateJobParams
	createErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers: make(map[string]uuid.UUID),
		jobs:      make(map[uuid.UUID]*repository.Job),
	}
}

func (f *fakeRepo) UpsertCustomer(_ context.Context, params repository.UpsertCustomerParams) (uuid.UUID, error) {
	f.lastCustomer = params
	if id, ok := f.customers[params.Phone]; ok {
		return id, nil
	}
	id := uuid.New()
	f.customers[params.Phone] = id
	return id, nil
}

func (f *fakeRepo) UpsertProperty(_ context.Context, _ repository.UpsertPropertyParams) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeRepo) CreateJob(_ context.Context, params repository.CreateJobParams) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.lastJob = params
	id := uuid.New()
	f.jobs[id] = &repository.Job{
		ID:            id,
		CustomerID:    params.CustomerID,
		CustomerPhone: params.CustomerPhone,
		Status:        domain.StatusNew,
	}
	return id, nil
}

func (f *fakeRepo) GetJob(_ context.Context, id uuid.UUID) (repository.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	return *job, nil
}

func (f *fakeRepo) GetJobState(_ context.Context, id uuid.UUID) (repository.JobState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok {
		return repository.JobState{}, apperr.NotFound("job not found")
	}
	return repository.JobState{Status: job.Status, ProID: job.ProID, PaidAt: job.PaidAt}, nil
}

func (f *fakeRepo) ClaimJob(_ context.Context, id, proID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok {
		return false, nil
	}
	if job.Status != domain.StatusAvailable || job.ProID != nil {
		return false, nil
	}
	job.Status = domain.StatusAssigned
	job.ProID = &proID
	return true, nil
}

func (f *fakeRepo) UpdateStatusOwned(_ context.Context, id, proID uuid.UUID, next domain.Status) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.ProID == nil || *job.ProID != proID {
		return false, nil
	}
	job.Status = next
	return true, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id uuid.UUID, status domain.Status) error {
	job, ok := f.jobs[id]
	if !ok {
		return apperr.NotFound("job not found")
	}
	job.Status = status
	return nil
}

func (f *fakeRepo) MarkPaid(_ context.Context, id uuid.UUID, sessionID, paymentIntent string, paidAt time.Time) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.PaidAt != nil {
		return false, nil
	}
	job.StripeSessionID = &sessionID
	job.StripePaymentIntent = &paymentIntent
	job.PaidAt = &paidAt
	return true, nil
}

func (f *fakeRepo) SetParcelSnapshot(_ context.Context, id uuid.UUID, snapshot repository.ParcelSnapshot) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.ParcelID != nil {
		return false, nil
	}
	job.ParcelID = snapshot.ParcelID
	job.ParcelAreaSqm = snapshot.AreaSqm
	job.IsNonStandard = snapshot.IsNonStandard
	job.NonStandardReason = snapshot.NonStandardReason
	return true, nil
}

func (f *fakeRepo) ListAvailable(_ context.Context) ([]repository.Job, error) {
	var out []repository.Job
	for _, job := range f.jobs {
		if job.Status == domain.StatusAvailable && job.ProID == nil {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByPro(_ context.Context, proID uuid.UUID) ([]repository.Job, error) {
	var out []repository.Job
	for _, job := range f.jobs {
		if job.ProID != nil && *job.ProID == proID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListWithFilters(_ context.Context, params repository.ListParams) ([]repository.Job, int, error) {
	var out []repository.Job
	for _, job := range f.jobs {
		if params.Status != nil && job.Status != *params.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListUnenriched(_ context.Context, after repository.UnenrichedCursor, limit int) ([]repository.UnenrichedJob, error) {
	var out []repository.UnenrichedJob
	for _, row := range f.unenriched {
		if f.jobs[row.ID].ParcelID != nil {
			continue
		}
		if !row.CreatedAt.After(after.CreatedAt) {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// seedJob inserts a job directly in the given state.
func (f *fakeRepo) seedJob(status domain.Status, proID *uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.jobs[id] = &repository.Job{ID: id, Status: status, ProID: proID}
	return id
}

// seedUnenriched inserts a job with coordinates and no parcel snapshot,
// timestamped so the sweep pages through them in seed order.
func (f *fakeRepo) seedUnenriched(lat, lng float64) uuid.UUID {
	id := uuid.New()
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(f.unenriched)) * time.Minute)
	f.jobs[id] = &repository.Job{ID: id, Status: domain.StatusNew, Lat: &lat, Lng: &lng, CreatedAt: createdAt}
	f.unenriched = append(f.unenriched, repository.UnenrichedJob{ID: id, Lat: lat, Lng: lng, CreatedAt: createdAt})
	return id
}

type fakeParcels struct {
	parcel *parcelsvc.Parcel
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeParcels) Lookup(ctx context.Context, _, _ float64) (*parcelsvc.Parcel, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.parcel, f.err
}

// lookupFunc adapts a function to the ParcelLookup port for tests that
// need per-coordinate behavior.
type lookupFunc func(ctx context.Context, lat, lng float64) (*parcelsvc.Parcel, error)

func (f lookupFunc) Lookup(ctx context.Context, lat, lng float64) (*parcelsvc.Parcel, error) {
	return f(ctx, lat, lng)
}

type fakeScheduler struct {
	scheduled []uuid.UUID
}

func (f *fakeScheduler) ScheduleParcelBackfill(_ context.Context, jobID uuid.UUID) error {
	f.scheduled = append(f.scheduled, jobID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New("test")
}

func ptr[T any](v T) *T { return &v }

func validBooking() BookingInput {
	return BookingInput{
		ServiceSlug:   "gutter_cleaning",
		CustomerName:  "Jane Smith",
		CustomerPhone: "021 234 5678",
		AddressText:   "12 Example St, Queenstown",
	}
}

func TestCreateBookingNormalizesPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())

	if _, err := svc.CreateBooking(context.Background(), validBooking()); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if repo.lastCustomer.Phone != "0212345678" {
		t.Errorf("customer phone = %q, want %q", repo.lastCustomer.Phone, "0212345678")
	}
	if repo.lastJob.CustomerPhone != "0212345678" {
		t.Errorf("job phone = %q, want %q", repo.lastJob.CustomerPhone, "0212345678")
	}
}

func TestCreateBookingDedupesCustomerByPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	ctx := context.Background()

	first := validBooking()
	if _, err := svc.CreateBooking(ctx, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	firstCustomer := repo.customers["0212345678"]

	// Same phone, different spacing and name.
	second := validBooking()
	second.CustomerPhone = "0212345678"
	second.CustomerName = "Jane A Smith"
	id2, err := svc.CreateBooking(ctx, second)
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}

	if len(repo.customers) != 1 {
		t.Fatalf("customer count = %d, want 1", len(repo.customers))
	}
	if repo.jobs[id2].CustomerID != firstCustomer {
		t.Errorf("second job customer = %v, want %v", repo.jobs[id2].CustomerID, firstCustomer)
	}
	if len(repo.jobs) != 2 {
		t.Errorf("job count = %d, want 2", len(repo.jobs))
	}
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingInput)
	}{
		{"missing service", func(b *BookingInput) { b.ServiceSlug = "" }},
		{"whitespace name", func(b *BookingInput) { b.CustomerName = "   " }},
		{"missing phone", func(b *BookingInput) { b.CustomerPhone = "" }},
		{"missing address", func(b *BookingInput) { b.AddressText = "\t" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(newFakeRepo(), nil, nil, testLogger())
			input := validBooking()
			tt.mutate(&input)

			_, err := svc.CreateBooking(context.Background(), input)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateBookingEnrichmentFlagsLargeParcel(t *testing.T) {
	repo := newFakeRepo()
	parcels := &fakeParcels{parcel: &parcelsvc.Parcel{
		ID:      ptr("7654321"),
		AreaSqm: ptr(2400.0),
	}}
	svc := New(repo, parcels, nil, testLogger())

	input := validBooking()
	input.Lat = ptr(-45.0312)
	input.Lng = ptr(168.6626)

	if _, err := svc.CreateBooking(context.Background(), input); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	parcel := repo.lastJob.Parcel
	if parcel.IsNonStandard == nil || !*parcel.IsNonStandard {
		t.Fatal("expected job flagged non-standard")
	}
	if parcel.NonStandardReason == nil || *parcel.NonStandardReason != "parcel_area_sqm > 1000" {
		t.Errorf("reason = %v, want parcel_area_sqm > 1000", parcel.NonStandardReason)
	}
}

func TestCreateBookingSmallParcelNotFlagged(t *testing.T) {
	repo := newFakeRepo()
	parcels := &fakeParcels{parcel: &parcelsvc.Parcel{ID: ptr("111"), AreaSqm: ptr(650.0)}}
	svc := New(repo, parcels, nil, testLogger())

	input := validBooking()
	input.Lat = ptr(-45.0312)
	input.Lng = ptr(168.6626)

	if _, err := svc.CreateBooking(context.Background(), input); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	parcel := repo.lastJob.Parcel
	if parcel.IsNonStandard == nil || *parcel.IsNonStandard {
		t.Errorf("IsNonStandard = %v, want false", parcel.IsNonStandard)
	}
	if parcel.NonStandardReason != nil {
		t.Errorf("reason = %v, want nil", *parcel.NonStandardReason)
	}
}

func TestCreateBookingSurvivesEnrichmentFailure(t *testing.T) {
	repo := newFakeRepo()
	parcels := &fakeParcels{err: errors.New("upstream down")}
	scheduler := &fakeScheduler{}
	svc := New(repo, parcels, scheduler, testLogger())

	input := validBooking()
	input.Lat = ptr(-45.0312)
	input.Lng = ptr(168.6626)

	jobID, err := svc.CreateBooking(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if repo.lastJob.Parcel.ParcelID != nil {
		t.Error("expected empty parcel snapshot on lookup failure")
	}
	if len(scheduler.scheduled) != 1 || scheduler.scheduled[0] != jobID {
		t.Errorf("scheduled = %v, want [%v]", scheduler.scheduled, jobID)
	}
}

func TestCreateBookingEnrichmentTimesOut(t *testing.T) {
	repo := newFakeRepo()
	parcels := &fakeParcels{
		parcel: &parcelsvc.Parcel{ID: ptr("999")},
		delay:  enrichmentTimeout + time.Second,
	}
	svc := New(repo, parcels, nil, testLogger())

	input := validBooking()
	input.Lat = ptr(-45.0312)
	input.Lng = ptr(168.6626)

	start := time.Now()
	if _, err := svc.CreateBooking(context.Background(), input); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if elapsed := time.Since(start); elapsed > enrichmentTimeout+time.Second {
		t.Errorf("booking blocked %v on enrichment", elapsed)
	}
	if repo.lastJob.Parcel.ParcelID != nil {
		t.Error("expected no snapshot after timeout")
	}
}

func TestCreateBookingSkipsEnrichmentWithoutCoordinates(t *testing.T) {
	repo := newFakeRepo()
	parcels := &fakeParcels{parcel: &parcelsvc.Parcel{ID: ptr("555")}}
	scheduler := &fakeScheduler{}
	svc := New(repo, parcels, scheduler, testLogger())

	if _, err := svc.CreateBooking(context.Background(), validBooking()); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if parcels.calls != 0 {
		t.Errorf("lookup calls = %d, want 0", parcels.calls)
	}
	if len(scheduler.scheduled) != 0 {
		t.Errorf("scheduled = %v, want none; job has no coordinates", scheduler.scheduled)
	}
}

func TestSweepUnenrichedAdvancesPastUnresolvableJobs(t *testing.T) {
	repo := newFakeRepo()
	// Two leading jobs whose parcel cannot be found, filling a whole batch,
	// then one that resolves.
	dead1 := repo.seedUnenriched(1.0, 1.0)
	dead2 := repo.seedUnenriched(2.0, 2.0)
	alive := repo.seedUnenriched(3.0, 3.0)

	lookup := lookupFunc(func(_ context.Context, lat, _ float64) (*parcelsvc.Parcel, error) {
		if lat == 3.0 {
			return &parcelsvc.Parcel{ID: ptr("7654321"), AreaSqm: ptr(650.0)}, nil
		}
		return nil, nil
	})
	svc := New(repo, lookup, nil, testLogger())

	processed, updated, err := svc.SweepUnenriched(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("SweepUnenriched: %v", err)
	}
	if processed != 3 {
		t.Errorf("processed = %d, want 3", processed)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}
	if repo.jobs[alive].ParcelID == nil {
		t.Error("expected snapshot written for the resolvable job")
	}
	if repo.jobs[dead1].ParcelID != nil || repo.jobs[dead2].ParcelID != nil {
		t.Error("unexpected snapshot on unresolvable jobs")
	}
}

func TestSweepUnenrichedTerminatesWhenNothingResolves(t *testing.T) {
	repo := newFakeRepo()
	repo.seedUnenriched(1.0, 1.0)
	repo.seedUnenriched(2.0, 2.0)

	lookup := lookupFunc(func(context.Context, float64, float64) (*parcelsvc.Parcel, error) {
		return nil, nil
	})
	svc := New(repo, lookup, nil, testLogger())

	processed, updated, err := svc.SweepUnenriched(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("SweepUnenriched: %v", err)
	}
	if processed != 2 || updated != 0 {
		t.Errorf("processed, updated = %d, %d, want 2, 0", processed, updated)
	}
}

func TestSweepUnenrichedRequiresLookup(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, testLogger())

	if _, _, err := svc.SweepUnenriched(context.Background(), 10, 0); err == nil {
		t.Fatal("expected error without a parcel lookup")
	}
}

func TestClaimAssignsAvailableJob(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	jobID := repo.seedJob(domain.StatusAvailable, nil)
	proID := uuid.New()

	if err := svc.Claim(context.Background(), jobID, proID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	job := repo.jobs[jobID]
	if job.Status != domain.StatusAssigned {
		t.Errorf("status = %s, want assigned", job.Status)
	}
	if job.ProID == nil || *job.ProID != proID {
		t.Errorf("pro_id = %v, want %v", job.ProID, proID)
	}
}

func TestClaimAlreadyClaimed(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	ctx := context.Background()

	jobID := repo.seedJob(domain.StatusAvailable, nil)
	winner := uuid.New()
	loser := uuid.New()

	if err := svc.Claim(ctx, jobID, winner); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	err := svc.Claim(ctx, jobID, loser)
	if !apperr.Is(err, apperr.KindAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want already-claimed", err)
	}

	// The winner's assignment is untouched.
	if got := *repo.jobs[jobID].ProID; got != winner {
		t.Errorf("pro_id = %v, want winner %v", got, winner)
	}
}

func TestClaimConcurrentSingleWinner(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	jobID := repo.seedJob(domain.StatusAvailable, nil)

	const contenders = 16
	pros := make([]uuid.UUID, contenders)
	errs := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		pros[i] = uuid.New()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Claim(context.Background(), jobID, pros[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	var winner uuid.UUID
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
			winner = pros[i]
		case !apperr.Is(err, apperr.KindAlreadyClaimed):
			t.Errorf("contender %d: err = %v, want already-claimed", i, err)
		}
	}

	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
	if got := *repo.jobs[jobID].ProID; got != winner {
		t.Errorf("pro_id = %v, want winner %v", got, winner)
	}
}

func TestClaimNotFound(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, testLogger())

	err := svc.Claim(context.Background(), uuid.New(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestClaimWrongStatus(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusNew, domain.StatusCompleted, domain.StatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeRepo()
			svc := New(repo, nil, nil, testLogger())
			jobID := repo.seedJob(status, nil)

			err := svc.Claim(context.Background(), jobID, uuid.New())
			if !apperr.Is(err, apperr.KindAlreadyClaimed) {
				t.Errorf("err = %v, want already-claimed", err)
			}
		})
	}
}

func TestProgressHappyPath(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	ctx := context.Background()
	proID := uuid.New()
	jobID := repo.seedJob(domain.StatusAssigned, &proID)

	got, err := svc.Progress(ctx, jobID, proID, "in_progress")
	if err != nil {
		t.Fatalf("to in_progress: %v", err)
	}
	if got != domain.StatusInProgress {
		t.Errorf("status = %s, want in_progress", got)
	}

	got, err = svc.Progress(ctx, jobID, proID, "completed")
	if err != nil {
		t.Fatalf("to completed: %v", err)
	}
	if got != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}
}

func TestProgressRejectsNonOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	owner := uuid.New()
	jobID := repo.seedJob(domain.StatusAssigned, &owner)

	_, err := svc.Progress(context.Background(), jobID, uuid.New(), "in_progress")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("err = %v, want forbidden", err)
	}
	if repo.jobs[jobID].Status != domain.StatusAssigned {
		t.Errorf("status changed to %s", repo.jobs[jobID].Status)
	}
}

func TestProgressRejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		from domain.Status
		to   string
	}{
		{domain.StatusAssigned, "completed"}, // skipping in_progress
		{domain.StatusInProgress, "in_progress"},
		{domain.StatusCompleted, "in_progress"}, // backwards
		{domain.StatusCompleted, "completed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+tt.to, func(t *testing.T) {
			repo := newFakeRepo()
			svc := New(repo, nil, nil, testLogger())
			proID := uuid.New()
			jobID := repo.seedJob(tt.from, &proID)

			_, err := svc.Progress(context.Background(), jobID, proID, tt.to)
			if !apperr.Is(err, apperr.KindInvalidTransition) {
				t.Errorf("err = %v, want invalid-transition", err)
			}
		})
	}
}

func TestProgressRejectsUnknownTarget(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	proID := uuid.New()
	jobID := repo.seedJob(domain.StatusAssigned, &proID)

	for _, target := range []string{"closed", "available", "done", ""} {
		_, err := svc.Progress(context.Background(), jobID, proID, target)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("target %q: err = %v, want validation error", target, err)
		}
	}
}

func TestProgressNotFound(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, testLogger())

	_, err := svc.Progress(context.Background(), uuid.New(), uuid.New(), "in_progress")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestAdminSetStatusBypassesTransitionTable(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	ctx := context.Background()
	adminID := uuid.New()
	jobID := repo.seedJob(domain.StatusClosed, nil)

	// closed -> available is illegal for a pro but fine for an admin.
	if err := svc.AdminSetStatus(ctx, jobID, "available", adminID); err != nil {
		t.Fatalf("AdminSetStatus: %v", err)
	}
	if repo.jobs[jobID].Status != domain.StatusAvailable {
		t.Errorf("status = %s, want available", repo.jobs[jobID].Status)
	}
}

func TestAdminSetStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, testLogger())
	jobID := repo.seedJob(domain.StatusNew, nil)

	err := svc.AdminSetStatus(context.Background(), jobID, "bogus", uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestAdminListRejectsUnknownStatusFilter(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, testLogger())

	_, _, err := svc.AdminList(context.Background(), "bogus", "", 20, 0)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}
