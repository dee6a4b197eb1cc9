package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/inkvault/inkvault-backend/pkg/enums"
)

// PurchaseIntent is the local record of a shard bundle checkout attempt.
// Rows are append-only: a pending row is finalized to completed exactly once
// and never deleted. GatewayEventID carries the unique external event id
// that deduplicates webhook deliveries.
type PurchaseIntent struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	Status            enums.PurchaseStatus `gorm:"column:status;not null;default:'pending'"`
	AmountUsdCents    int64                `gorm:"column:amount_usd_cents;not null"`
	ShardsGranted     int64                `gorm:"column:shards_granted;not null"`
	GatewaySessionID  string               `gorm:"column:gateway_session_id;not null;uniqueIndex"`
	GatewayEventID    *string              `gorm:"column:gateway_event_id;uniqueIndex"`
	GatewayCustomerID *string              `gorm:"column:gateway_customer_id"`
	GatewayPaymentRef *string              `gorm:"column:gateway_payment_ref"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
