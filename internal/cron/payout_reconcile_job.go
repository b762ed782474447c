package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
)

const (
	defaultReconcileAttempts = 3
	defaultReconcileBackoff  = 500 * time.Millisecond
)

// PayoutReconcileJobParams configure the stuck payment reconciliation job.
type PayoutReconcileJobParams struct {
	Logger      *logger.Logger
	Payouts     payouts.Service
	MaxAttempts uint64
	Backoff     time.Duration
}

// NewPayoutReconcileJob builds the cron job that resolves payments stuck in
// processing by asking the provider for their current state.
func NewPayoutReconcileJob(params PayoutReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Payouts == nil {
		return nil, fmt.Errorf("payouts service required")
	}
	attempts := params.MaxAttempts
	if attempts == 0 {
		attempts = defaultReconcileAttempts
	}
	backoff := params.Backoff
	if backoff <= 0 {
		backoff = defaultReconcileBackoff
	}
	return &payoutReconcileJob{
		logg:     params.Logger,
		payouts:  params.Payouts,
		attempts: attempts,
		backoff:  backoff,
	}, nil
}

type payoutReconcileJob struct {
	logg     *logger.Logger
	payouts  payouts.Service
	attempts uint64
	backoff  time.Duration
}

func (j *payoutReconcileJob) Name() string { return "payout-reconcile" }

func (j *payoutReconcileJob) Run(ctx context.Context) error {
	stuck, err := j.payouts.ListStuckProcessing(ctx)
	if err != nil {
		return fmt.Errorf("list stuck payments: %w", err)
	}

	var errs error
	resolved := 0
	for i := range stuck {
		if err := j.reconcileOne(ctx, &stuck[i]); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("payment %s: %w", stuck[i].ID, err))
			continue
		}
		resolved++
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(stuck),
		"resolved":   resolved,
	})
	j.logg.Info(reportCtx, "payout reconcile loop complete")
	return errs
}

func (j *payoutReconcileJob) reconcileOne(ctx context.Context, payment *models.WorkerPayment) error {
	logCtx := j.logg.WithPaymentID(ctx, payment.ID.String())
	backoff := retry.WithMaxRetries(j.attempts, retry.NewExponential(j.backoff))

	return retry.Do(logCtx, backoff, func(ctx context.Context) error {
		_, err := j.payouts.ReconcilePayment(ctx, payment.ID)
		if err == nil {
			return nil
		}
		if appErr := pkgerrors.As(err); appErr != nil {
			switch appErr.Code() {
			case pkgerrors.CodeStateConflict:
				// Already resolved by the webhook or another sweep.
				return nil
			case pkgerrors.CodeDependency:
				return retry.RetryableError(err)
			}
		}
		return err
	})
}
