package entitlements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/pkg/db/models"
)

// Repository persists chapter unlock records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entitlement *models.Entitlement) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Entitlement, error)
	SumSpentByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entitlement *models.Entitlement) error {
	return r.db.WithContext(ctx).Create(entitlement).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Entitlement, error) {
	var rows []models.Entitlement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SumSpentByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Entitlement{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(shards_spent), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
