package earnings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

const snapshotCacheScope = "earnings"

type snapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(scope, id string) string
}

// Service mutates worker balances and records one ledger row per mutation.
// Mutation methods expect to run inside the caller's transaction so the
// balance change and the ledger row commit atomically. Callers invalidate
// the snapshot cache once that transaction has committed.
type Service interface {
	AddEarning(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error)
	ReverseEarning(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error)
	HoldAmount(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error)
	ReleaseHold(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error)
	ProcessPayout(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error)
	GetSnapshot(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error)
	ListTransactions(ctx context.Context, workerID uuid.UUID, params pagination.Params) ([]models.EarningsTransaction, *pagination.Result, error)
	InvalidateSnapshot(ctx context.Context, workerID uuid.UUID)
}

// MutationInput carries the data a single balance mutation requires.
type MutationInput struct {
	WorkerID    uuid.UUID
	AmountPaise int64
	BookingID   *uuid.UUID
	PaymentID   *uuid.UUID
	Description string
}

type service struct {
	repo     Repository
	cache    snapshotCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires an earnings service with the provided dependencies.
// The cache is optional.
func NewService(repo Repository, cache snapshotCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("earnings repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

func (s *service) AddEarning(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error) {
	return s.mutate(ctx, tx, enums.LedgerEntryCredit, input, func(e *models.WorkerEarnings) error {
		e.TotalEarnings += input.AmountPaise
		e.AvailableBalance += input.AmountPaise
		return nil
	})
}

// ReverseEarning undoes an earlier credit that never reached the worker,
// e.g. when an admin cancels a pending payment.
func (s *service) ReverseEarning(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error) {
	return s.mutate(ctx, tx, enums.LedgerEntryDebit, input, func(e *models.WorkerEarnings) error {
		if e.AvailableBalance < input.AmountPaise {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "available balance below reversal amount")
		}
		e.AvailableBalance -= input.AmountPaise
		e.TotalEarnings -= input.AmountPaise
		return nil
	})
}

func (s *service) HoldAmount(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error) {
	return s.mutate(ctx, tx, enums.LedgerEntryHold, input, func(e *models.WorkerEarnings) error {
		if e.AvailableBalance < input.AmountPaise {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "available balance below hold amount")
		}
		e.AvailableBalance -= input.AmountPaise
		e.PendingBalance += input.AmountPaise
		return nil
	})
}

func (s *service) ReleaseHold(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error) {
	return s.mutate(ctx, tx, enums.LedgerEntryRelease, input, func(e *models.WorkerEarnings) error {
		if e.PendingBalance < input.AmountPaise {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "pending balance below release amount")
		}
		e.PendingBalance -= input.AmountPaise
		e.AvailableBalance += input.AmountPaise
		return nil
	})
}

func (s *service) ProcessPayout(ctx context.Context, tx *gorm.DB, input MutationInput) (*models.EarningsTransaction, error) {
	return s.mutate(ctx, tx, enums.LedgerEntryDebit, input, func(e *models.WorkerEarnings) error {
		if e.AvailableBalance < input.AmountPaise {
			return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "available balance below payout amount")
		}
		e.AvailableBalance -= input.AmountPaise
		e.TotalWithdrawn += input.AmountPaise
		now := time.Now()
		e.LastPayoutDate = &now
		return nil
	})
}

func (s *service) mutate(ctx context.Context, tx *gorm.DB, entryType enums.LedgerEntryType, input MutationInput, apply func(*models.WorkerEarnings) error) (*models.EarningsTransaction, error) {
	if input.WorkerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker id required")
	}
	if input.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	earnings, err := repo.FindByWorkerIDForUpdate(ctx, input.WorkerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker earnings")
		}
		if entryType != enums.LedgerEntryCredit {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance, "no earnings recorded for worker")
		}
		earnings = &models.WorkerEarnings{ID: uuid.New(), WorkerID: input.WorkerID}
		if err := repo.Create(ctx, earnings); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create worker earnings")
		}
	}

	if err := apply(earnings); err != nil {
		return nil, err
	}

	if err := repo.UpdateBalances(ctx, earnings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update worker balances")
	}

	txn := &models.EarningsTransaction{
		TransactionID: buildTransactionID(entryType),
		WorkerID:      input.WorkerID,
		Type:          entryType,
		AmountPaise:   input.AmountPaise,
		BalanceAfter:  earnings.AvailableBalance,
		BookingID:     input.BookingID,
		PaymentID:     input.PaymentID,
		Description:   input.Description,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record earnings transaction")
	}
	return txn, nil
}

func (s *service) GetSnapshot(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error) {
	if workerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker id required")
	}

	if s.cache != nil {
		key := s.cache.CacheKey(snapshotCacheScope, workerID.String())
		raw, err := s.cache.Get(ctx, key)
		if err == nil {
			var cached models.WorkerEarnings
			if unmarshalErr := json.Unmarshal([]byte(raw), &cached); unmarshalErr == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, goredis.Nil) {
			s.logg.Warn(ctx, "earnings snapshot cache read failed")
		}
	}

	earnings, err := s.repo.FindByWorkerID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A worker with no payouts yet simply has zero balances.
			return &models.WorkerEarnings{WorkerID: workerID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker earnings")
	}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(earnings); marshalErr == nil {
			key := s.cache.CacheKey(snapshotCacheScope, workerID.String())
			if setErr := s.cache.Set(ctx, key, payload, s.cacheTTL); setErr != nil {
				s.logg.Warn(ctx, "earnings snapshot cache write failed")
			}
		}
	}
	return earnings, nil
}

func (s *service) ListTransactions(ctx context.Context, workerID uuid.UUID, params pagination.Params) ([]models.EarningsTransaction, *pagination.Result, error) {
	if workerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "worker id required")
	}
	params = pagination.Normalize(params)

	txns, total, err := s.repo.ListTransactions(ctx, workerID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list earnings transactions")
	}
	result := pagination.BuildResult(params, total)
	return txns, &result, nil
}

// InvalidateSnapshot drops the cached snapshot for a worker. Call it after
// the transaction holding a balance mutation commits; dropping the key
// earlier lets a concurrent read repopulate the cache with the old balances.
func (s *service) InvalidateSnapshot(ctx context.Context, workerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := s.cache.CacheKey(snapshotCacheScope, workerID.String())
	if err := s.cache.Del(ctx, key); err != nil {
		s.logg.Warn(ctx, "earnings snapshot cache invalidation failed")
	}
}

func buildTransactionID(entryType enums.LedgerEntryType) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", strings.ToUpper(entryType.String()), time.Now().UnixMilli(), suffix)
}
