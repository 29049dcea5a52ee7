// Package service implements payment reconciliation and checkout session
// creation against Stripe.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"donezo_backend/internal/jobs/repository"
	"donezo_backend/platform/apperr"
	"donezo_backend/platform/config"
	"donezo_backend/platform/logger"
)

const (
	currencyNZD        = "nzd"
	chargeableService  = "gutter_cleaning"
	productName        = "Gutter Cleaning"
	doubleStoreySurNZD = 100_00
)

// bedroomPriceCentsNZD is the server-side price table; the client never
// supplies an amount.
func bedroomPriceCentsNZD(bedrooms int) int64 {
	switch {
	case bedrooms <= 2:
		return 129_00
	case bedrooms == 3:
		return 149_00
	case bedrooms == 4:
		return 169_00
	default:
		return 189_00
	}
}

// JobStore is the slice of the jobs persistence layer the reconciler needs.
type JobStore interface {
	GetJob(ctx context.Context, id uuid.UUID) (repository.Job, error)
	GetJobState(ctx context.Context, id uuid.UUID) (repository.JobState, error)
	MarkPaid(ctx context.Context, id uuid.UUID, sessionID, paymentIntent string, paidAt time.Time) (bool, error)
}

// SessionCreator creates a hosted checkout session. The default
// implementation calls Stripe; tests substitute a fake.
type SessionCreator func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

// Service reconciles Stripe events onto jobs and creates checkout sessions.
type Service struct {
	store         JobStore
	log           *logger.Logger
	webhookSecret string
	siteBaseURL   string
	createSession SessionCreator
	now           func() time.Time
}

// New creates the payments service and sets the global Stripe API key.
func New(cfg config.StripeConfig, store JobStore, log *logger.Logger) *Service {
	stripe.Key = cfg.GetStripeSecretKey()

	return &Service{
		store:         store,
		log:           log,
		webhookSecret: cfg.GetStripeWebhookSecret(),
		siteBaseURL:   cfg.GetSiteBaseURL(),
		createSession: session.New,
		now:           time.Now,
	}
}

// CreateCheckout builds a hosted checkout session for a gutter-cleaning job.
// The session carries the job id both as client_reference_id and in metadata
// so the webhook can correlate the payment back to the job.
func (s *Service) CreateCheckout(ctx context.Context, jobID uuid.UUID, bedrooms int, doubleStorey bool) (sessionID, url string, err error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return "", "", err
	}

	if job.ServiceSlug != chargeableService {
		return "", "", apperr.Validation(
			fmt.Sprintf("online payment is only available for %s", chargeableService))
	}
	if job.PaidAt != nil {
		return "", "", apperr.Validation("job is already paid")
	}

	amount := bedroomPriceCentsNZD(bedrooms)
	description := fmt.Sprintf("%d bedroom home", bedrooms)
	if doubleStorey {
		amount += doubleStoreySurNZD
		description += ", double storey"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(jobID.String()),
		SuccessURL:        stripe.String(s.siteBaseURL + "/booking/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.siteBaseURL + "/booking/cancelled"),
		Metadata:          map[string]string{"jobId": jobID.String()},
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currencyNZD),
				UnitAmount: stripe.Int64(amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(productName),
					Description: stripe.String(description),
				},
			},
		}},
	}

	sess, err := s.createSession(params)
	if err != nil {
		s.log.Error("stripe checkout session creation failed", "job_id", jobID, "error", err)
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to create checkout session", err)
	}

	return sess.ID, sess.URL, nil
}

// HandleWebhook verifies and reconciles one raw webhook delivery. Unknown
// event types and non-paid sessions are acknowledged no-ops; only a failed
// store write returns an error, so Stripe redelivers.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.log.Warn("webhook signature verification failed", "error", err)
		return apperr.InvalidSignature("invalid webhook signature")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			// A malformed payload from a verified sender; acknowledge so it
			// is not redelivered forever.
			s.log.Error("could not parse checkout session payload", "event_id", event.ID, "error", err)
			return nil
		}
		return s.reconcileCheckoutSession(ctx, string(event.Type), &sess)
	default:
		s.log.WebhookEvent(string(event.Type), "", "ignored")
		return nil
	}
}

func (s *Service) reconcileCheckoutSession(ctx context.Context, eventType string, sess *stripe.CheckoutSession) error {
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.log.WebhookEvent(eventType, "", "ignored: payment_status "+string(sess.PaymentStatus))
		return nil
	}

	rawJobID := sess.Metadata["jobId"]
	if rawJobID == "" {
		rawJobID = sess.ClientReferenceID
	}
	if rawJobID == "" {
		s.log.WebhookEvent(eventType, "", "ignored: no job reference")
		return nil
	}

	jobID, err := uuid.Parse(rawJobID)
	if err != nil {
		s.log.WebhookEvent(eventType, rawJobID, "ignored: malformed job reference")
		return nil
	}

	var paymentIntent string
	if sess.PaymentIntent != nil {
		paymentIntent = sess.PaymentIntent.ID
	}

	marked, err := s.store.MarkPaid(ctx, jobID, sess.ID, paymentIntent, s.now())
	if err != nil {
		// Surface a 5xx so Stripe redelivers; the conditional write makes
		// redelivery safe.
		s.log.DatabaseError("mark job paid", err)
		return apperr.Wrap(apperr.KindInternal, "failed to record payment", err)
	}

	if !marked {
		// Either the job is unknown or it is already paid. A duplicate
		// delivery lands here and must be acknowledged.
		if _, stateErr := s.store.GetJobState(ctx, jobID); stateErr != nil {
			s.log.WebhookEvent(eventType, jobID.String(), "ignored: unknown job")
			return nil
		}
		s.log.WebhookEvent(eventType, jobID.String(), "duplicate delivery, already paid")
		return nil
	}

	s.log.WebhookEvent(eventType, jobID.String(), "marked paid")
	return nil
}
