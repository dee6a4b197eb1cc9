package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/pkg/db/models"
)

// Repository manages persistence for user balance state.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreditShards(ctx context.Context, userID uuid.UUID, amount int64) error
	DebitShards(ctx context.Context, userID uuid.UUID, amount int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a users repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreditShards increments the balance with a single guarded UPDATE so the
// arithmetic happens in the store, not on a value read earlier.
func (r *repository) CreditShards(ctx context.Context, userID uuid.UUID, amount int64) error {
	if userID == uuid.Nil {
		return errors.New("user id is required")
	}
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("shard_balance", gorm.Expr("shard_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DebitShards decrements the balance only when it covers the amount. The
// WHERE predicate makes the check-and-decrement a single statement, so two
// concurrent debits cannot both pass the check against a stale read.
func (r *repository) DebitShards(ctx context.Context, userID uuid.UUID, amount int64) (bool, error) {
	if userID == uuid.Nil {
		return false, errors.New("user id is required")
	}
	if amount <= 0 {
		return false, errors.New("debit amount must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND shard_balance >= ?", userID, amount).
		UpdateColumn("shard_balance", gorm.Expr("shard_balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
