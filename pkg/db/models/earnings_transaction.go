package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

// EarningsTransaction is one append-only ledger row. Every balance
// mutation on WorkerEarnings writes exactly one of these.
type EarningsTransaction struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID string                `gorm:"column:transaction_id;not null;uniqueIndex:uq_earnings_txn_id"`
	WorkerID      uuid.UUID             `gorm:"column:worker_id;type:uuid;not null;index"`
	Type          enums.LedgerEntryType `gorm:"column:type;type:ledger_entry_type_enum;not null"`
	AmountPaise   int64                 `gorm:"column:amount_paise;not null"`
	BalanceAfter  int64                 `gorm:"column:balance_after_paise;not null"`
	BookingID     *uuid.UUID            `gorm:"column:booking_id;type:uuid"`
	PaymentID     *uuid.UUID            `gorm:"column:payment_id;type:uuid"`
	Description   string                `gorm:"column:description;not null"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (EarningsTransaction) TableName() string {
	return "earnings_transactions"
}
