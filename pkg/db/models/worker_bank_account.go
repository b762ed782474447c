package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkerBankAccount stores the destination for a worker's payouts along
// with the provider-side identifiers created lazily on first payout.
type WorkerBankAccount struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkerID          uuid.UUID `gorm:"column:worker_id;type:uuid;not null;uniqueIndex:uq_worker_bank_worker"`
	HolderName        string    `gorm:"column:holder_name;not null"`
	AccountNumber     string    `gorm:"column:account_number;not null"`
	IFSC              string    `gorm:"column:ifsc;not null"`
	BankName          string    `gorm:"column:bank_name"`
	Email             string    `gorm:"column:email"`
	Phone             string    `gorm:"column:phone"`
	ProviderContactID *string   `gorm:"column:provider_contact_id"`
	ProviderFundID    *string   `gorm:"column:provider_fund_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkerBankAccount) TableName() string {
	return "worker_bank_accounts"
}
