package checkout

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/internal/ledger"
	"github.com/inkvault/inkvault-backend/pkg/config"
	"github.com/inkvault/inkvault-backend/pkg/db/models"
	"github.com/inkvault/inkvault-backend/pkg/enums"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	pkgstripe "github.com/inkvault/inkvault-backend/pkg/stripe"
)

// Gateway is the payment provider surface checkout depends on.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p pkgstripe.CheckoutSessionParams) (*pkgstripe.CheckoutSession, error)
}

// Session is the response the storefront redirects through.
type Session struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

// Service opens hosted checkout sessions for the shard bundle.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID) (*Session, error)
}

// ServiceParams wires the checkout service dependencies.
type ServiceParams struct {
	Gateway    Gateway
	LedgerRepo ledger.Repository
	Bundle     config.StripeConfig
}

type service struct {
	gateway    Gateway
	ledgerRepo ledger.Repository
	bundle     config.StripeConfig
}

// NewService wires a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	if params.LedgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repo required")
	}
	return &service{
		gateway:    params.Gateway,
		ledgerRepo: params.LedgerRepo,
		bundle:     params.Bundle,
	}, nil
}

// Start opens a gateway session for the configured shard bundle, then records
// a pending purchase intent keyed by the gateway's session id. The gateway
// call comes first: a local row with no session to reference is useless, and
// a session with no local row is recovered later by the webhook path.
// Starting a checkout never touches the balance.
func (s *service) Start(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !s.bundle.BundleConfigured() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shard bundle is not configured")
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, pkgstripe.CheckoutSessionParams{
		ClientReferenceID: userID.String(),
		ProductName:       s.bundle.BundleName,
		Currency:          s.bundle.Currency,
		UnitAmountCents:   s.bundle.BundlePriceCents,
		Quantity:          1,
		SuccessURL:        s.bundle.SuccessURL,
		CancelURL:         s.bundle.CancelURL,
		Metadata: map[string]string{
			"user_id":        userID.String(),
			"shards_granted": strconv.FormatInt(s.bundle.BundleShards, 10),
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening gateway session")
	}

	intent := &models.PurchaseIntent{
		ID:               uuid.New(),
		UserID:           userID,
		Status:           enums.PurchaseStatusPending,
		AmountUsdCents:   s.bundle.BundlePriceCents,
		ShardsGranted:    s.bundle.BundleShards,
		GatewaySessionID: sess.ID,
	}
	if err := s.ledgerRepo.Create(ctx, intent); err != nil {
		// The session exists but the local row does not. The webhook path
		// reconstructs the intent from event metadata, so surface the write
		// failure without voiding the session.
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording purchase intent")
	}

	return &Session{SessionID: sess.ID, RedirectURL: sess.URL}, nil
}
