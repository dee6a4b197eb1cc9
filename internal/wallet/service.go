package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/internal/users"
	pkgerrors "github.com/inkvault/inkvault-backend/pkg/errors"
)

// View is the read model the wallet endpoint serves. Anonymous visitors get
// a zero balance rather than an error so the storefront can render a single
// wallet widget for everyone.
type View struct {
	Authenticated bool  `json:"authenticated"`
	ShardBalance  int64 `json:"shard_balance"`
}

// Service reads shard balances. It never mutates them.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (View, error)
}

type service struct {
	usersRepo users.Repository
}

// NewService wires a wallet read service.
func NewService(usersRepo users.Repository) (Service, error) {
	if usersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo required")
	}
	return &service{usersRepo: usersRepo}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (View, error) {
	if userID == uuid.Nil {
		return View{}, nil
	}

	user, err := s.usersRepo.FindByID(ctx, userID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user == nil {
		// A valid token for a user this store has never seen reads as an
		// authenticated empty wallet, not as an anonymous visitor.
		return View{Authenticated: true}, nil
	}

	return View{Authenticated: true, ShardBalance: user.ShardBalance}, nil
}
