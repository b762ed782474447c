package enums

// OutboxEventType identifies the domain event stored in the outbox.
type OutboxEventType string

const (
	EventPayoutRequested OutboxEventType = "payout.requested"
	EventPayoutResolved  OutboxEventType = "payout.resolved"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateWorkerPayment OutboxAggregateType = "worker_payment"
)

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	switch o {
	case EventPayoutRequested, EventPayoutResolved:
		return true
	default:
		return false
	}
}
