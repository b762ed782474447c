package payouts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

// Repository manages persistence for worker payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.WorkerPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.WorkerPayment, error)
	Update(ctx context.Context, payment *models.WorkerPayment) error
	ListByWorker(ctx context.Context, filter ListFilter) ([]models.WorkerPayment, int64, error)
	ListByStatus(ctx context.Context, status enums.PayoutStatus, limit int) ([]models.WorkerPayment, error)
	ListProcessingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]models.WorkerPayment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payouts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.WorkerPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error) {
	var payment models.WorkerPayment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error) {
	var payment models.WorkerPayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.WorkerPayment, error) {
	var payment models.WorkerPayment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) Update(ctx context.Context, payment *models.WorkerPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) ListByWorker(ctx context.Context, filter ListFilter) ([]models.WorkerPayment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.WorkerPayment{}).
		Where("worker_id = ?", filter.WorkerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.WorkerPayment
	err := query.
		Order("created_at DESC").
		Offset(filter.Params.Offset()).
		Limit(filter.Params.Limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.PayoutStatus, limit int) ([]models.WorkerPayment, error) {
	var payments []models.WorkerPayment
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) ListProcessingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]models.WorkerPayment, error) {
	var payments []models.WorkerPayment
	err := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", enums.PayoutStatusProcessing, cutoff).
		Order("processed_at ASC").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
