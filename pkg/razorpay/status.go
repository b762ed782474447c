package razorpay

import "github.com/sahilmehra/karigarpay-backend/pkg/enums"

// Provider payout states that map onto the local lifecycle.
const (
	StatusQueued     = "queued"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusCancelled  = "cancelled"
	StatusFailed     = "failed"
	StatusRejected   = "rejected"
	StatusReversed   = "reversed"
)

// MapPayoutStatus translates a provider payout status into the local one.
func MapPayoutStatus(status string) enums.PayoutStatus {
	switch status {
	case StatusProcessed:
		return enums.PayoutStatusPaid
	case StatusProcessing, StatusQueued, StatusPending:
		return enums.PayoutStatusProcessing
	case StatusCancelled:
		return enums.PayoutStatusCancelled
	case StatusFailed, StatusRejected, StatusReversed:
		return enums.PayoutStatusFailed
	default:
		return enums.PayoutStatusProcessing
	}
}
