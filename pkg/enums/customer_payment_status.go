package enums

import "fmt"

// CustomerPaymentStatus tracks the customer-side payment on a booking.
type CustomerPaymentStatus string

const (
	CustomerPaymentPending   CustomerPaymentStatus = "pending"
	CustomerPaymentCompleted CustomerPaymentStatus = "completed"
	CustomerPaymentFailed    CustomerPaymentStatus = "failed"
	CustomerPaymentRefunded  CustomerPaymentStatus = "refunded"
)

var validCustomerPaymentStatuses = []CustomerPaymentStatus{
	CustomerPaymentPending,
	CustomerPaymentCompleted,
	CustomerPaymentFailed,
	CustomerPaymentRefunded,
}

// String implements fmt.Stringer.
func (c CustomerPaymentStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerPaymentStatus.
func (c CustomerPaymentStatus) IsValid() bool {
	for _, candidate := range validCustomerPaymentStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerPaymentStatus converts raw input into a CustomerPaymentStatus.
func ParseCustomerPaymentStatus(value string) (CustomerPaymentStatus, error) {
	for _, candidate := range validCustomerPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer payment status %q", value)
}
