package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

// PayoutRequestedEvent signals that a worker payment is ready for the
// provider leg and should be picked up by the payout consumer.
type PayoutRequestedEvent struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	WorkerID       uuid.UUID `json:"worker_id"`
	BookingID      uuid.UUID `json:"booking_id"`
	NetAmountPaise int64     `json:"net_amount_paise"`
	Currency       string    `json:"currency"`
}

// PayoutResolvedEvent reports a payment reaching a terminal state.
type PayoutResolvedEvent struct {
	PaymentID     uuid.UUID          `json:"payment_id"`
	WorkerID      uuid.UUID          `json:"worker_id"`
	Status        enums.PayoutStatus `json:"status"`
	ProviderRefID string             `json:"provider_ref_id,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
	ResolvedAt    time.Time          `json:"resolved_at"`
}
