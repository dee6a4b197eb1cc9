package entitlements

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/internal/users"
	"github.com/inkvault/inkvault-backend/pkg/db/models"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
	"github.com/inkvault/inkvault-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service spends shards on chapter unlocks and lists the unlocks a reader
// already owns.
type Service interface {
	Unlock(ctx context.Context, userID uuid.UUID, input UnlockInput) (*models.Entitlement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Entitlement, error)
}

// UnlockInput identifies the chapter being unlocked and its shard price.
type UnlockInput struct {
	ContentSlug string `json:"content_slug" validate:"required"`
	PriceShards int64  `json:"price_shards" validate:"required,gt=0"`
}

// ServiceParams wires the entitlement service dependencies.
type ServiceParams struct {
	Repo              Repository
	UsersRepo         users.Repository
	TransactionRunner txRunner
	Metrics           *metrics.LedgerMetrics
}

type service struct {
	repo      Repository
	usersRepo users.Repository
	txRunner  txRunner
	metrics   *metrics.LedgerMetrics
}

// NewService wires an entitlement service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "entitlements repo required")
	}
	if params.UsersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:      params.Repo,
		usersRepo: params.UsersRepo,
		txRunner:  params.TransactionRunner,
		metrics:   params.Metrics,
	}, nil
}

// Unlock debits the reader's balance and records the entitlement in one
// transaction. The debit is a guarded single-statement update, so two
// concurrent unlocks can never overdraw the balance; the loser simply sees
// insufficient funds.
func (s *service) Unlock(ctx context.Context, userID uuid.UUID, input UnlockInput) (*models.Entitlement, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	slug := strings.TrimSpace(input.ContentSlug)
	if slug == "" {
		s.metrics.IncRejection("invalid_slug")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content slug is required")
	}
	if input.PriceShards <= 0 {
		s.metrics.IncRejection("invalid_price")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive shard amount")
	}

	entitlement := &models.Entitlement{
		ID:          uuid.New(),
		UserID:      userID,
		ContentSlug: slug,
		ShardsSpent: input.PriceShards,
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.usersRepo.WithTx(tx)

		user, err := usersRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		if user == nil {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		}

		applied, err := usersRepo.DebitShards(ctx, userID, input.PriceShards)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debit shards")
		}
		if !applied {
			return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "").
				WithDetails(map[string]any{
					"required":      input.PriceShards,
					"shard_balance": user.ShardBalance,
				})
		}

		return s.repo.WithTx(tx).Create(ctx, entitlement)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientFunds {
			s.metrics.IncRejection("insufficient_funds")
		}
		return nil, err
	}

	s.metrics.IncDebit()
	return entitlement, nil
}

// ListByUser returns the reader's unlocks, newest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Entitlement, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list entitlements")
	}
	return rows, nil
}
