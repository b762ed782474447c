package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

// BankDetails is the payout destination captured when the payment is
// created. The snapshot stays fixed even if the worker later edits their
// bank profile.
type BankDetails struct {
	AccountNumber string `gorm:"column:bank_account_number;not null" json:"account_number"`
	IFSC          string `gorm:"column:bank_ifsc;not null" json:"ifsc"`
	HolderName    string `gorm:"column:bank_holder_name;not null" json:"holder_name"`
	BankName      string `gorm:"column:bank_name" json:"bank_name"`
}

// WorkerPayment tracks one payout owed to a worker for a completed booking.
// Amounts are stored in paise. ProcessedAt marks when processing started;
// PaidAt is set only when the provider confirms the transfer.
type WorkerPayment struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkerID      uuid.UUID          `gorm:"column:worker_id;type:uuid;not null;index"`
	CustomerID    uuid.UUID          `gorm:"column:customer_id;type:uuid;not null"`
	BookingID     uuid.UUID          `gorm:"column:booking_id;type:uuid;not null;uniqueIndex:uq_worker_payments_booking"`
	AmountPaise   int64              `gorm:"column:amount_paise;not null"`
	PlatformFee   int64              `gorm:"column:platform_fee_paise;not null"`
	NetAmount     int64              `gorm:"column:net_amount_paise;not null"`
	Currency      string             `gorm:"column:currency;not null;default:'INR'"`
	Status        enums.PayoutStatus `gorm:"column:status;type:payout_status_enum;not null;default:'pending';index"`
	BankDetails   BankDetails        `gorm:"embedded"`
	TransactionID *string            `gorm:"column:transaction_id"`
	ProviderRefID *string            `gorm:"column:provider_ref_id"`
	FailureReason *string            `gorm:"column:failure_reason"`
	ProcessedAt   *time.Time         `gorm:"column:processed_at"`
	PaidAt        *time.Time         `gorm:"column:paid_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkerPayment) TableName() string {
	return "worker_payments"
}
