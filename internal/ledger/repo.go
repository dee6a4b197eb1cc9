package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkvault/inkvault-backend/pkg/db/models"
	"github.com/inkvault/inkvault-backend/pkg/enums"
)

// Repository manages persistence for purchase intents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, intent *models.PurchaseIntent) error
	FindByEventID(ctx context.Context, eventID string) (*models.PurchaseIntent, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.PurchaseIntent, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, eventID string, customerID, paymentRef *string) (bool, error)
	SumGrantedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, intent *models.PurchaseIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *repository) FindByEventID(ctx context.Context, eventID string) (*models.PurchaseIntent, error) {
	if eventID == "" {
		return nil, nil
	}
	var intent models.PurchaseIntent
	if err := r.db.WithContext(ctx).
		Where("gateway_event_id = ?", eventID).
		First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (r *repository) FindBySessionID(ctx context.Context, sessionID string) (*models.PurchaseIntent, error) {
	if sessionID == "" {
		return nil, nil
	}
	var intent models.PurchaseIntent
	if err := r.db.WithContext(ctx).
		Where("gateway_session_id = ?", sessionID).
		First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

// MarkCompleted finalizes a pending intent, attaching the external event id.
// The status/event predicates keep the transition one-way: a row that is
// already completed, or already carries an event id, is left untouched and
// the call reports false.
func (r *repository) MarkCompleted(ctx context.Context, id uuid.UUID, eventID string, customerID, paymentRef *string) (bool, error) {
	if id == uuid.Nil {
		return false, errors.New("intent id is required")
	}
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	result := r.db.WithContext(ctx).
		Model(&models.PurchaseIntent{}).
		Where("id = ? AND status = ? AND gateway_event_id IS NULL", id, enums.PurchaseStatusPending).
		Updates(map[string]any{
			"status":              enums.PurchaseStatusCompleted,
			"gateway_event_id":    eventID,
			"gateway_customer_id": customerID,
			"gateway_payment_ref": paymentRef,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) SumGrantedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseIntent{}).
		Where("user_id = ? AND status = ?", userID, enums.PurchaseStatusCompleted).
		Select("COALESCE(SUM(shards_granted), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
