package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
)

// Repository exposes the read-only booking lookups the payout pipeline needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindBankAccountByWorkerID(ctx context.Context, workerID uuid.UUID) (*models.WorkerBankAccount, error)
	SaveBankAccountProviderIDs(ctx context.Context, account *models.WorkerBankAccount) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindBankAccountByWorkerID(ctx context.Context, workerID uuid.UUID) (*models.WorkerBankAccount, error) {
	var account models.WorkerBankAccount
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) SaveBankAccountProviderIDs(ctx context.Context, account *models.WorkerBankAccount) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkerBankAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"provider_contact_id": account.ProviderContactID,
			"provider_fund_id":    account.ProviderFundID,
		}).Error
}
