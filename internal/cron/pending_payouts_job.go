package cron

import (
	"context"
	"fmt"

	"github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
)

// PendingPayoutsJobParams configure the pending payout sweep.
type PendingPayoutsJobParams struct {
	Logger  *logger.Logger
	Payouts payouts.Service
}

// NewPendingPayoutsJob builds the cron job that pushes pending payments
// through the provider leg. It backstops the pubsub consumer for events
// that were lost or nacked past their delivery budget.
func NewPendingPayoutsJob(params PendingPayoutsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Payouts == nil {
		return nil, fmt.Errorf("payouts service required")
	}
	return &pendingPayoutsJob{
		logg:    params.Logger,
		payouts: params.Payouts,
	}, nil
}

type pendingPayoutsJob struct {
	logg    *logger.Logger
	payouts payouts.Service
}

func (j *pendingPayoutsJob) Name() string { return "pending-payouts" }

func (j *pendingPayoutsJob) Run(ctx context.Context) error {
	processed, err := j.payouts.ProcessPendingPayments(ctx)
	reportCtx := j.logg.WithField(ctx, "processed", processed)
	if err != nil {
		j.logg.Error(reportCtx, "pending payout sweep finished with errors", err)
		return err
	}
	j.logg.Info(reportCtx, "pending payout sweep complete")
	return nil
}
