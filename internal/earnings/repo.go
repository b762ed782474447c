package earnings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

// Repository manages persistence for earnings snapshots and ledger rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByWorkerID(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error)
	FindByWorkerIDForUpdate(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error)
	Create(ctx context.Context, earnings *models.WorkerEarnings) error
	UpdateBalances(ctx context.Context, earnings *models.WorkerEarnings) error
	CreateTransaction(ctx context.Context, txn *models.EarningsTransaction) error
	ListTransactions(ctx context.Context, workerID uuid.UUID, params pagination.Params) ([]models.EarningsTransaction, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an earnings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByWorkerID(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error) {
	var earnings models.WorkerEarnings
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		First(&earnings).Error
	if err != nil {
		return nil, err
	}
	return &earnings, nil
}

func (r *repository) FindByWorkerIDForUpdate(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error) {
	var earnings models.WorkerEarnings
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("worker_id = ?", workerID).
		First(&earnings).Error
	if err != nil {
		return nil, err
	}
	return &earnings, nil
}

func (r *repository) Create(ctx context.Context, earnings *models.WorkerEarnings) error {
	return r.db.WithContext(ctx).Create(earnings).Error
}

func (r *repository) UpdateBalances(ctx context.Context, earnings *models.WorkerEarnings) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkerEarnings{}).
		Where("id = ?", earnings.ID).
		Updates(map[string]any{
			"total_earnings_paise":    earnings.TotalEarnings,
			"available_balance_paise": earnings.AvailableBalance,
			"pending_balance_paise":   earnings.PendingBalance,
			"total_withdrawn_paise":   earnings.TotalWithdrawn,
		}).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.EarningsTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, workerID uuid.UUID, params pagination.Params) ([]models.EarningsTransaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.EarningsTransaction{}).
		Where("worker_id = ?", workerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.EarningsTransaction
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
