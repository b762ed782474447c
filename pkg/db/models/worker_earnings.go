package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkerEarnings holds the running balance snapshot for one worker.
// Amounts are stored in paise. Invariant: available + pending never
// exceeds total, and no balance goes negative.
type WorkerEarnings struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkerID         uuid.UUID  `gorm:"column:worker_id;type:uuid;not null;uniqueIndex:uq_worker_earnings_worker"`
	TotalEarnings    int64      `gorm:"column:total_earnings_paise;not null;default:0"`
	AvailableBalance int64      `gorm:"column:available_balance_paise;not null;default:0"`
	PendingBalance   int64      `gorm:"column:pending_balance_paise;not null;default:0"`
	TotalWithdrawn   int64      `gorm:"column:total_withdrawn_paise;not null;default:0"`
	LastPayoutDate   *time.Time `gorm:"column:last_payout_date"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkerEarnings) TableName() string {
	return "worker_earnings"
}
