package earnings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

type fakeRepository struct {
	earnings *models.WorkerEarnings
	created  []*models.EarningsTransaction
	updated  *models.WorkerEarnings
	findErr  error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindByWorkerID(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error) {
	return f.FindByWorkerIDForUpdate(ctx, workerID)
}

func (f *fakeRepository) FindByWorkerIDForUpdate(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.earnings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.earnings
	return &copied, nil
}

func (f *fakeRepository) Create(ctx context.Context, earnings *models.WorkerEarnings) error {
	f.earnings = earnings
	return nil
}

func (f *fakeRepository) UpdateBalances(ctx context.Context, earnings *models.WorkerEarnings) error {
	f.updated = earnings
	f.earnings = earnings
	return nil
}

func (f *fakeRepository) CreateTransaction(ctx context.Context, txn *models.EarningsTransaction) error {
	f.created = append(f.created, txn)
	return nil
}

func (f *fakeRepository) ListTransactions(ctx context.Context, workerID uuid.UUID, params pagination.Params) ([]models.EarningsTransaction, int64, error) {
	return nil, 0, nil
}

type fakeCache struct {
	values  map[string]string
	deleted []string
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCache) CacheKey(scope, id string) string {
	return "kp:cache:" + scope + ":" + id
}

func newTestService(t *testing.T, repo Repository, cache snapshotCache) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "earnings-test", Level: zerolog.ErrorLevel})
	svc, err := NewService(repo, cache, time.Minute, logg)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_AddEarningCreatesSnapshot(t *testing.T) {
	repo := &fakeRepository{}
	cache := &fakeCache{}
	svc := newTestService(t, repo, cache)

	workerID := uuid.New()
	bookingID := uuid.New()
	txn, err := svc.AddEarning(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 85000,
		BookingID:   &bookingID,
		Description: "booking earnings",
	})
	if err != nil {
		t.Fatalf("AddEarning error: %v", err)
	}

	if repo.earnings.TotalEarnings != 85000 || repo.earnings.AvailableBalance != 85000 {
		t.Fatalf("unexpected balances: %+v", repo.earnings)
	}
	if txn.Type != enums.LedgerEntryCredit || txn.BalanceAfter != 85000 {
		t.Fatalf("unexpected ledger row: %+v", txn)
	}
	if !strings.HasPrefix(txn.TransactionID, "CREDIT-") {
		t.Fatalf("unexpected transaction id %q", txn.TransactionID)
	}
	if len(cache.deleted) != 0 {
		t.Fatalf("mutations must not touch the cache before the caller commits, got %v", cache.deleted)
	}
}

func TestService_ReverseEarningUndoesCredit(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		TotalEarnings:    85000,
		AvailableBalance: 85000,
	}}
	svc := newTestService(t, repo, nil)

	paymentID := uuid.New()
	txn, err := svc.ReverseEarning(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 85000,
		PaymentID:   &paymentID,
		Description: "payment cancelled",
	})
	if err != nil {
		t.Fatalf("ReverseEarning error: %v", err)
	}
	if repo.updated.AvailableBalance != 0 || repo.updated.TotalEarnings != 0 {
		t.Fatalf("reversal must undo the credit: %+v", repo.updated)
	}
	if txn.Type != enums.LedgerEntryDebit {
		t.Fatalf("expected debit ledger row, got %v", txn.Type)
	}
}

func TestService_ReverseEarningInsufficientBalance(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		TotalEarnings:    85000,
		AvailableBalance: 1000,
	}}
	svc := newTestService(t, repo, nil)

	_, err := svc.ReverseEarning(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 85000,
		Description: "payment cancelled",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("no ledger row should be written on failure")
	}
}

func TestService_HoldAmountMovesAvailableToPending(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		TotalEarnings:    100000,
		AvailableBalance: 100000,
	}}
	svc := newTestService(t, repo, nil)

	txn, err := svc.HoldAmount(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 40000,
		Description: "payout hold",
	})
	if err != nil {
		t.Fatalf("HoldAmount error: %v", err)
	}
	if repo.updated.AvailableBalance != 60000 || repo.updated.PendingBalance != 40000 {
		t.Fatalf("unexpected balances: %+v", repo.updated)
	}
	if txn.Type != enums.LedgerEntryHold || txn.BalanceAfter != 60000 {
		t.Fatalf("unexpected ledger row: %+v", txn)
	}
}

func TestService_HoldAmountInsufficientBalance(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		AvailableBalance: 1000,
	}}
	svc := newTestService(t, repo, nil)

	_, err := svc.HoldAmount(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 5000,
		Description: "payout hold",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("no ledger row should be written on failure")
	}
}

func TestService_ReleaseHoldReturnsPendingToAvailable(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:             uuid.New(),
		WorkerID:       workerID,
		PendingBalance: 40000,
	}}
	svc := newTestService(t, repo, nil)

	txn, err := svc.ReleaseHold(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 40000,
		Description: "payout failed",
	})
	if err != nil {
		t.Fatalf("ReleaseHold error: %v", err)
	}
	if repo.updated.PendingBalance != 0 || repo.updated.AvailableBalance != 40000 {
		t.Fatalf("unexpected balances: %+v", repo.updated)
	}
	if txn.Type != enums.LedgerEntryRelease {
		t.Fatalf("unexpected ledger type: %v", txn.Type)
	}
}

func TestService_ProcessPayoutDebitsAndTracksWithdrawn(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		TotalEarnings:    100000,
		AvailableBalance: 100000,
	}}
	svc := newTestService(t, repo, nil)

	paymentID := uuid.New()
	txn, err := svc.ProcessPayout(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 85000,
		PaymentID:   &paymentID,
		Description: "payout settled",
	})
	if err != nil {
		t.Fatalf("ProcessPayout error: %v", err)
	}
	if repo.updated.AvailableBalance != 15000 || repo.updated.TotalWithdrawn != 85000 {
		t.Fatalf("unexpected balances: %+v", repo.updated)
	}
	if repo.updated.LastPayoutDate == nil {
		t.Fatal("expected last payout date to be stamped")
	}
	if txn.Type != enums.LedgerEntryDebit || txn.PaymentID == nil || *txn.PaymentID != paymentID {
		t.Fatalf("unexpected ledger row: %+v", txn)
	}
}

func TestService_MutationRequiresExistingSnapshot(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)

	_, err := svc.HoldAmount(context.Background(), nil, MutationInput{
		WorkerID:    uuid.New(),
		AmountPaise: 100,
		Description: "hold",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeInsufficientBalance {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
}

func TestService_MutationValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)

	tests := []struct {
		name  string
		input MutationInput
	}{
		{name: "missing worker", input: MutationInput{AmountPaise: 100}},
		{name: "zero amount", input: MutationInput{WorkerID: uuid.New()}},
		{name: "negative amount", input: MutationInput{WorkerID: uuid.New(), AmountPaise: -5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddEarning(context.Background(), nil, tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestService_GetSnapshotZeroForUnknownWorker(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)

	workerID := uuid.New()
	snapshot, err := svc.GetSnapshot(context.Background(), workerID)
	if err != nil {
		t.Fatalf("GetSnapshot error: %v", err)
	}
	if snapshot.WorkerID != workerID || snapshot.TotalEarnings != 0 || snapshot.AvailableBalance != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snapshot)
	}
}

func TestService_GetSnapshotUsesCache(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		TotalEarnings:    50000,
		AvailableBalance: 50000,
	}}
	cache := &fakeCache{}
	svc := newTestService(t, repo, cache)

	first, err := svc.GetSnapshot(context.Background(), workerID)
	if err != nil {
		t.Fatalf("GetSnapshot error: %v", err)
	}
	if first.TotalEarnings != 50000 {
		t.Fatalf("unexpected snapshot: %+v", first)
	}

	repo.findErr = gorm.ErrInvalidDB
	second, err := svc.GetSnapshot(context.Background(), workerID)
	if err != nil {
		t.Fatalf("expected cache hit, got error: %v", err)
	}
	if second.TotalEarnings != 50000 {
		t.Fatalf("unexpected cached snapshot: %+v", second)
	}
}

func TestService_InvalidateSnapshotDropsCachedBalances(t *testing.T) {
	workerID := uuid.New()
	repo := &fakeRepository{earnings: &models.WorkerEarnings{
		ID:               uuid.New(),
		WorkerID:         workerID,
		TotalEarnings:    50000,
		AvailableBalance: 50000,
	}}
	cache := &fakeCache{}
	svc := newTestService(t, repo, cache)

	if _, err := svc.GetSnapshot(context.Background(), workerID); err != nil {
		t.Fatalf("GetSnapshot error: %v", err)
	}
	if len(cache.values) != 1 {
		t.Fatalf("expected snapshot cached, got %v", cache.values)
	}

	// The mutation alone leaves the cached copy in place.
	if _, err := svc.AddEarning(context.Background(), nil, MutationInput{
		WorkerID:    workerID,
		AmountPaise: 10000,
		Description: "booking earnings",
	}); err != nil {
		t.Fatalf("AddEarning error: %v", err)
	}
	if len(cache.deleted) != 0 {
		t.Fatalf("unexpected invalidation before commit: %v", cache.deleted)
	}

	svc.InvalidateSnapshot(context.Background(), workerID)
	if len(cache.deleted) != 1 || len(cache.values) != 0 {
		t.Fatalf("expected cached snapshot dropped, got deleted=%v values=%v", cache.deleted, cache.values)
	}

	fresh, err := svc.GetSnapshot(context.Background(), workerID)
	if err != nil {
		t.Fatalf("GetSnapshot error: %v", err)
	}
	if fresh.TotalEarnings != 60000 {
		t.Fatalf("expected fresh balances after invalidation, got %+v", fresh)
	}
}
