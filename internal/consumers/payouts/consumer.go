package payouts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	internalpayouts "github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox/payloads"
)

const payoutsConsumerName = "payouts-worker"

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer drives the provider leg for payout.requested events while honoring
// Redis idempotency.
type Consumer struct {
	payouts internalpayouts.Service
	manager idempotencyChecker
	logg    *logger.Logger
}

// NewConsumer builds a payout consumer.
func NewConsumer(payoutsSvc internalpayouts.Service, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if payoutsSvc == nil {
		return nil, fmt.Errorf("payouts service required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{payouts: payoutsSvc, manager: manager, logg: logg}, nil
}

// Process executes the provider leg for a payout.requested envelope.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if eventType != enums.EventPayoutRequested {
		c.logg.Info(logCtx, "event not handled by payouts consumer")
		return nil
	}

	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}

	var payload payloads.PayoutRequestedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("decode payout.requested payload: %w", err)
	}
	if payload.PaymentID == uuid.Nil {
		return fmt.Errorf("payment id missing in payload")
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, payoutsConsumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	if _, err := c.payouts.ProcessPayment(ctx, payload.PaymentID); err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeStateConflict {
			// The payment already left pending, usually a redelivery racing
			// the webhook or the cron sweep.
			c.logg.Info(logCtx, "payment already picked up")
			return nil
		}
		c.logg.Error(logCtx, "failed to process payout", err)
		_ = c.manager.Delete(ctx, payoutsConsumerName, eventID)
		return err
	}

	c.logg.Info(logCtx, "payout processed")
	return nil
}
