package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

type fakePayoutsService struct {
	pendingFn   func(ctx context.Context) (int, error)
	stuck       []models.WorkerPayment
	reconcileFn func(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error)
	reconciled  map[uuid.UUID]int
}

func (f *fakePayoutsService) CreatePayment(ctx context.Context, input payouts.CreatePaymentInput) (*models.WorkerPayment, error) {
	return nil, nil
}

func (f *fakePayoutsService) ProcessPayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
	return nil, nil
}

func (f *fakePayoutsService) ProcessPendingPayments(ctx context.Context) (int, error) {
	if f.pendingFn != nil {
		return f.pendingFn(ctx)
	}
	return 0, nil
}

func (f *fakePayoutsService) ReconcilePayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
	if f.reconciled == nil {
		f.reconciled = map[uuid.UUID]int{}
	}
	f.reconciled[paymentID]++
	if f.reconcileFn != nil {
		return f.reconcileFn(ctx, paymentID)
	}
	return &models.WorkerPayment{ID: paymentID, Status: enums.PayoutStatusPaid}, nil
}

func (f *fakePayoutsService) ListStuckProcessing(ctx context.Context) ([]models.WorkerPayment, error) {
	return f.stuck, nil
}

func (f *fakePayoutsService) GetPayment(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error) {
	return nil, nil
}

func (f *fakePayoutsService) ListWorkerPayments(ctx context.Context, filter payouts.ListFilter) ([]models.WorkerPayment, *pagination.Result, error) {
	return nil, nil, nil
}

func (f *fakePayoutsService) CancelPayment(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) (*models.WorkerPayment, error) {
	return nil, nil
}

func TestPendingPayoutsJobReportsSweepErrors(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	svc := &fakePayoutsService{
		pendingFn: func(ctx context.Context) (int, error) {
			return 2, errors.New("one payment failed")
		},
	}
	job, err := NewPendingPayoutsJob(PendingPayoutsJobParams{Logger: logg, Payouts: svc})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "pending-payouts" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("sweep errors must surface to the cron runner")
	}
}

func TestPayoutReconcileJobResolvesStuckPayments(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	stuckID := uuid.New()
	svc := &fakePayoutsService{
		stuck: []models.WorkerPayment{{ID: stuckID, Status: enums.PayoutStatusProcessing}},
	}
	job, err := NewPayoutReconcileJob(PayoutReconcileJobParams{Logger: logg, Payouts: svc})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("job run: %v", err)
	}
	if svc.reconciled[stuckID] != 1 {
		t.Fatalf("expected one reconciliation, got %d", svc.reconciled[stuckID])
	}
}

func TestPayoutReconcileJobRetriesDependencyErrors(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	stuckID := uuid.New()
	attempts := 0
	svc := &fakePayoutsService{
		stuck: []models.WorkerPayment{{ID: stuckID, Status: enums.PayoutStatusProcessing}},
		reconcileFn: func(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
			attempts++
			if attempts < 3 {
				return nil, pkgerrors.New(pkgerrors.CodeDependency, "provider unavailable")
			}
			return &models.WorkerPayment{ID: paymentID, Status: enums.PayoutStatusPaid}, nil
		},
	}
	job, err := NewPayoutReconcileJob(PayoutReconcileJobParams{
		Logger:      logg,
		Payouts:     svc,
		MaxAttempts: 5,
		Backoff:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("job run: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestPayoutReconcileJobAcksAlreadyResolved(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	stuckID := uuid.New()
	svc := &fakePayoutsService{
		stuck: []models.WorkerPayment{{ID: stuckID, Status: enums.PayoutStatusProcessing}},
		reconcileFn: func(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not processing")
		},
	}
	job, err := NewPayoutReconcileJob(PayoutReconcileJobParams{Logger: logg, Payouts: svc})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("already-resolved payments must not fail the job: %v", err)
	}
}
