package stripewebhook

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/inkvault/inkvault-backend/internal/ledger"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
)

// ServiceParams wires the webhook handler dependencies.
type ServiceParams struct {
	Ledger ledger.Service
}

// Service turns verified Stripe events into ledger credits.
type Service struct {
	ledger ledger.Service
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger service required")
	}
	return &Service{ledger: params.Ledger}, nil
}

// HandleEvent routes one verified event. Unrecognized event types are
// acknowledged without action so the gateway stops redelivering them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
		}
		return s.creditSession(ctx, event.ID, &session)
	default:
		return nil
	}
}

func (s *Service) creditSession(ctx context.Context, eventID string, session *stripe.CheckoutSession) error {
	if session.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id missing from event")
	}

	input := ledger.CreditInput{
		EventID:        eventID,
		SessionID:      session.ID,
		AmountUsdCents: session.AmountTotal,
	}

	if ref := userReference(session); ref != "" {
		userID, err := uuid.Parse(ref)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse user reference")
		}
		input.UserID = userID
	}
	if raw := session.Metadata["shards_granted"]; raw != "" {
		shards, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse shard grant")
		}
		input.ShardsGranted = shards
	}
	if session.Customer != nil && session.Customer.ID != "" {
		customerID := session.Customer.ID
		input.GatewayCustomerID = &customerID
	}
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentRef := session.PaymentIntent.ID
		input.GatewayPaymentRef = &paymentRef
	}

	return s.ledger.ApplyCredit(ctx, input)
}

func userReference(session *stripe.CheckoutSession) string {
	if session.ClientReferenceID != "" {
		return session.ClientReferenceID
	}
	return session.Metadata["user_id"]
}
