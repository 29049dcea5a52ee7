package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"donezo_backend/internal/jobs/repository"
	"donezo_backend/platform/apperr"
	"donezo_backend/platform/logger"
)

const testWebhookSecret = "whsec_test_secret"

type stubStripeConfig struct{}

func (stubStripeConfig) GetStripeSecretKey() string     { return "sk_test_key" }
func (stubStripeConfig) GetStripeWebhookSecret() string { return testWebhookSecret }
func (stubStripeConfig) GetSiteBaseURL() string         { return "https://donezo.example" }

type fakeStore struct {
	jobs       map[uuid.UUID]*repository.Job
	markErr    error
	markCalls  int
	lastPaidAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[uuid.UUID]*repository.Job)}
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (repository.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	return *job, nil
}

func (f *fakeStore) GetJobState(_ context.Context, id uuid.UUID) (repository.JobState, error) {
	job, ok := f.jobs[id]
	if !ok {
		return repository.JobState{}, apperr.NotFound("job not found")
	}
	return repository.JobState{Status: job.Status, ProID: job.ProID, PaidAt: job.PaidAt}, nil
}

func (f *fakeStore) MarkPaid(_ context.Context, id uuid.UUID, sessionID, paymentIntent string, paidAt time.Time) (bool, error) {
	f.markCalls++
	if f.markErr != nil {
		return false, f.markErr
	}
	job, ok := f.jobs[id]
	if !ok || job.PaidAt != nil {
		return false, nil
	}
	job.StripeSessionID = &sessionID
	job.StripePaymentIntent = &paymentIntent
	job.PaidAt = &paidAt
	f.lastPaidAt = paidAt
	return true, nil
}

func (f *fakeStore) seedJob(serviceSlug string) uuid.UUID {
	id := uuid.New()
	f.jobs[id] = &repository.Job{ID: id, ServiceSlug: serviceSlug}
	return id
}

func newTestService(store *fakeStore) *Service {
	svc := New(stubStripeConfig{}, store, logger.New("test"))
	svc.createSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return &stripe.CheckoutSession{
			ID:  "cs_test_123",
			URL: "https://checkout.stripe.com/c/pay/cs_test_123",
		}, nil
	}
	return svc
}

// signPayload produces a Stripe-Signature header value over the payload,
// matching Stripe's t=<ts>,v1=<hmac-sha256("<ts>.<payload>")> scheme.
func signPayload(payload []byte, secret string) string {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(jobID, paymentStatus string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_abc",
				"object": "checkout.session",
				"payment_status": %q,
				"client_reference_id": %q,
				"metadata": {"jobId": %q},
				"payment_intent": {"id": "pi_test_123"}
			}
		}
	}`, stripe.APIVersion, paymentStatus, jobID, jobID))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	payload := checkoutCompletedPayload(uuid.NewString(), "paid")

	tests := []struct {
		name      string
		signature string
	}{
		{"garbage header", "t=123,v1=deadbeef"},
		{"wrong secret", signPayload(payload, "whsec_wrong")},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.HandleWebhook(context.Background(), payload, tt.signature)
			if !apperr.Is(err, apperr.KindInvalidSignature) {
				t.Errorf("err = %v, want invalid-signature", err)
			}
		})
	}

	if store.markCalls != 0 {
		t.Errorf("MarkPaid called %d times for unverified payloads", store.markCalls)
	}
}

func TestWebhookMarksJobPaid(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	jobID := store.seedJob("gutter_cleaning")

	payload := checkoutCompletedPayload(jobID.String(), "paid")
	if err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	job := store.jobs[jobID]
	if job.PaidAt == nil {
		t.Fatal("job not marked paid")
	}
	if job.StripeSessionID == nil || *job.StripeSessionID != "cs_test_abc" {
		t.Errorf("session id = %v, want cs_test_abc", job.StripeSessionID)
	}
	if job.StripePaymentIntent == nil || *job.StripePaymentIntent != "pi_test_123" {
		t.Errorf("payment intent = %v, want pi_test_123", job.StripePaymentIntent)
	}
}

func TestWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()
	jobID := store.seedJob("gutter_cleaning")

	payload := checkoutCompletedPayload(jobID.String(), "paid")
	sig := signPayload(payload, testWebhookSecret)

	if err := svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	firstPaidAt := *store.jobs[jobID].PaidAt

	// Redelivery of the same event must succeed without rewriting anything.
	if err := svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if !store.jobs[jobID].PaidAt.Equal(firstPaidAt) {
		t.Errorf("paid_at changed on duplicate delivery")
	}
}

func TestWebhookIgnoresUnpaidSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	jobID := store.seedJob("gutter_cleaning")

	payload := checkoutCompletedPayload(jobID.String(), "unpaid")
	if err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if store.jobs[jobID].PaidAt != nil {
		t.Error("unpaid session marked the job paid")
	}
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	payload := []byte(fmt.Sprintf(`{"id": "evt_test_2", "api_version": %q, "type": "invoice.paid", "data": {"object": {}}}`, stripe.APIVersion))
	if err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if store.markCalls != 0 {
		t.Errorf("MarkPaid called for an unrelated event type")
	}
}

func TestWebhookAcknowledgesUnknownJob(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	payload := checkoutCompletedPayload(uuid.NewString(), "paid")
	if err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Errorf("unknown job should be acknowledged, got %v", err)
	}
}

func TestWebhookAcknowledgesMissingJobReference(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_3",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_none", "object": "checkout.session", "payment_status": "paid", "metadata": {}}}
	}`, stripe.APIVersion))
	if err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Errorf("missing reference should be acknowledged, got %v", err)
	}
	if store.markCalls != 0 {
		t.Error("MarkPaid called without a job reference")
	}
}

func TestWebhookStoreFailureSurfacesError(t *testing.T) {
	store := newFakeStore()
	store.markErr = errors.New("connection refused")
	svc := newTestService(store)
	jobID := store.seedJob("gutter_cleaning")

	payload := checkoutCompletedPayload(jobID.String(), "paid")
	err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret))
	if !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("err = %v, want internal so the event is redelivered", err)
	}
}

func TestWebhookFallsBackToClientReferenceID(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	jobID := store.seedJob("gutter_cleaning")

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_4",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_ref", "object": "checkout.session", "payment_status": "paid",
			"client_reference_id": %q, "metadata": {}}}
	}`, stripe.APIVersion, jobID))
	if err := svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if store.jobs[jobID].PaidAt == nil {
		t.Error("job not marked paid via client_reference_id")
	}
}

func TestCreateCheckoutPricing(t *testing.T) {
	tests := []struct {
		bedrooms     int
		doubleStorey bool
		wantCents    int64
	}{
		{1, false, 129_00},
		{2, false, 129_00},
		{3, false, 149_00},
		{4, false, 169_00},
		{5, false, 189_00},
		{8, false, 189_00},
		{2, true, 229_00},
		{5, true, 289_00},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("beds=%d_double=%v", tt.bedrooms, tt.doubleStorey), func(t *testing.T) {
			store := newFakeStore()
			jobID := store.seedJob("gutter_cleaning")
			svc := newTestService(store)

			var captured *stripe.CheckoutSessionParams
			svc.createSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				captured = params
				return &stripe.CheckoutSession{ID: "cs_x", URL: "https://example.test"}, nil
			}

			if _, _, err := svc.CreateCheckout(context.Background(), jobID, tt.bedrooms, tt.doubleStorey); err != nil {
				t.Fatalf("CreateCheckout: %v", err)
			}

			got := *captured.LineItems[0].PriceData.UnitAmount
			if got != tt.wantCents {
				t.Errorf("amount = %d, want %d", got, tt.wantCents)
			}
			if *captured.ClientReferenceID != jobID.String() {
				t.Errorf("client_reference_id = %s, want %s", *captured.ClientReferenceID, jobID)
			}
			if captured.Metadata["jobId"] != jobID.String() {
				t.Errorf("metadata jobId = %s, want %s", captured.Metadata["jobId"], jobID)
			}
		})
	}
}

func TestCreateCheckoutRejectsOtherServices(t *testing.T) {
	store := newFakeStore()
	jobID := store.seedJob("roof_wash")
	svc := newTestService(store)

	_, _, err := svc.CreateCheckout(context.Background(), jobID, 3, false)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestCreateCheckoutRejectsPaidJob(t *testing.T) {
	store := newFakeStore()
	jobID := store.seedJob("gutter_cleaning")
	now := time.Now()
	store.jobs[jobID].PaidAt = &now
	svc := newTestService(store)

	_, _, err := svc.CreateCheckout(context.Background(), jobID, 3, false)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestCreateCheckoutUnknownJob(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, _, err := svc.CreateCheckout(context.Background(), uuid.New(), 3, false)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not-found", err)
	}
}
