package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/internal/users"
	"github.com/inkvault/inkvault-backend/pkg/db"
	"github.com/inkvault/inkvault-backend/pkg/db/models"
	"github.com/inkvault/inkvault-backend/pkg/enums"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	"github.com/inkvault/inkvault-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type entitlementLedger interface {
	SumSpentByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service applies gateway payment confirmations to the shard ledger and
// answers reconciliation queries over it.
type Service interface {
	ApplyCredit(ctx context.Context, input CreditInput) error
	Reconcile(ctx context.Context, userID uuid.UUID) (*Report, error)
}

// CreditInput carries the fields extracted from one confirmed gateway event.
type CreditInput struct {
	EventID           string
	SessionID         string
	UserID            uuid.UUID
	ShardsGranted     int64
	AmountUsdCents    int64
	GatewayCustomerID *string
	GatewayPaymentRef *string
}

// Report compares the live balance against the sums the ledger implies.
type Report struct {
	UserID         uuid.UUID `json:"user_id"`
	ShardBalance   int64     `json:"shard_balance"`
	ShardsCredited int64     `json:"shards_credited"`
	ShardsSpent    int64     `json:"shards_spent"`
	Consistent     bool      `json:"consistent"`
}

// ServiceParams wires the ledger service dependencies.
type ServiceParams struct {
	Repo              Repository
	UsersRepo         users.Repository
	Entitlements      entitlementLedger
	TransactionRunner txRunner
	Metrics           *metrics.LedgerMetrics
}

type service struct {
	repo         Repository
	usersRepo    users.Repository
	entitlements entitlementLedger
	txRunner     txRunner
	metrics      *metrics.LedgerMetrics
}

// NewService wires a ledger service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repo required")
	}
	if params.UsersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo required")
	}
	if params.Entitlements == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "entitlements ledger required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:         params.Repo,
		usersRepo:    params.UsersRepo,
		entitlements: params.Entitlements,
		txRunner:     params.TransactionRunner,
		metrics:      params.Metrics,
	}, nil
}

// ApplyCredit converts a confirmed gateway event into a balance credit,
// exactly once per event id. Redelivered events short-circuit on the stored
// event id; a unique violation inside the transaction is resolved by
// re-reading that id, so a race between two deliveries of the same event
// reads as success while any other collision surfaces as a retryable error.
func (s *service) ApplyCredit(ctx context.Context, input CreditInput) error {
	if input.EventID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway event id required")
	}
	if input.SessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway session id required")
	}

	existing, err := s.repo.FindByEventID(ctx, input.EventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup event")
	}
	if existing != nil {
		s.metrics.ObserveWebhookEvent("replay")
		return nil
	}

	credited := false
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		usersRepo := s.usersRepo.WithTx(tx)

		intent, err := repo.FindBySessionID(ctx, input.SessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup session")
		}

		var userID uuid.UUID
		var shards int64

		switch {
		case intent == nil:
			// The confirmation can outrun the checkout call that persists the
			// pending row; fall back to the event payload itself.
			if input.UserID == uuid.Nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "event carries no user reference")
			}
			if input.ShardsGranted <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "event carries no shard grant")
			}
			eventID := input.EventID
			created := &models.PurchaseIntent{
				ID:                uuid.New(),
				UserID:            input.UserID,
				Status:            enums.PurchaseStatusCompleted,
				AmountUsdCents:    input.AmountUsdCents,
				ShardsGranted:     input.ShardsGranted,
				GatewaySessionID:  input.SessionID,
				GatewayEventID:    &eventID,
				GatewayCustomerID: input.GatewayCustomerID,
				GatewayPaymentRef: input.GatewayPaymentRef,
			}
			if err := repo.Create(ctx, created); err != nil {
				return err
			}
			userID = created.UserID
			shards = created.ShardsGranted

		case intent.Status == enums.PurchaseStatusCompleted:
			// Session already credited under a different event id. The grant
			// was applied once; do not apply it again.
			return nil

		default:
			applied, err := repo.MarkCompleted(ctx, intent.ID, input.EventID, input.GatewayCustomerID, input.GatewayPaymentRef)
			if err != nil {
				return err
			}
			if !applied {
				return nil
			}
			userID = intent.UserID
			shards = intent.ShardsGranted
		}

		if err := usersRepo.CreditShards(ctx, userID, shards); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			// The insert collided with a concurrent write. Only a collision
			// on the event id means another delivery of this event already
			// applied the credit; a session id collision means checkout's
			// pending row landed first and no credit exists yet. The stored
			// event id decides which happened.
			recorded, lookupErr := s.repo.FindByEventID(ctx, input.EventID)
			if lookupErr == nil && recorded != nil {
				s.metrics.ObserveWebhookEvent("replay")
				return nil
			}
			s.metrics.ObserveWebhookEvent("error")
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit collided with concurrent write")
		}
		s.metrics.ObserveWebhookEvent("error")
		return err
	}

	if !credited {
		s.metrics.ObserveWebhookEvent("replay")
		return nil
	}
	s.metrics.ObserveWebhookEvent("credited")
	s.metrics.IncCredit()
	return nil
}

// Reconcile checks the balance equation: live balance equals credited sum
// minus spent sum. A tolerated-stale read is fine here; the report is an
// operator diagnostic, not a ledger input.
func (s *service) Reconcile(ctx context.Context, userID uuid.UUID) (*Report, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.usersRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	credited, err := s.repo.SumGrantedByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum purchases")
	}
	spent, err := s.entitlements.SumSpentByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum entitlements")
	}

	return &Report{
		UserID:         userID,
		ShardBalance:   user.ShardBalance,
		ShardsCredited: credited,
		ShardsSpent:    spent,
		Consistent:     user.ShardBalance == credited-spent,
	}, nil
}
