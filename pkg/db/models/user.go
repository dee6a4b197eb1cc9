package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/pkg/enums"
)

// User represents the canonical identity entity. Identity attributes are
// owned by the external auth provider; this service only mutates
// ShardBalance, and only inside a transaction.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	DisplayName  string         `gorm:"column:display_name;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'reader'"`
	ShardBalance int64          `gorm:"column:shard_balance;not null;default:0"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
