package models

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement records one paid chapter unlock. Rows are immutable and each
// one pairs with a balance debit of equal magnitude in the same transaction.
// Re-purchasing the same slug creates a second row; the platform allows it.
type Entitlement struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ContentSlug string    `gorm:"column:content_slug;not null"`
	ShardsSpent int64     `gorm:"column:shards_spent;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
