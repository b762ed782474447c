package payouts

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

// CreatePaymentInput captures the data needed to open a payout for a booking.
type CreatePaymentInput struct {
	BookingID   uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.ActorRole
}

// ListFilter narrows payment listings.
type ListFilter struct {
	WorkerID uuid.UUID
	Status   *enums.PayoutStatus
	Params   pagination.Params
}

// PaymentResponse is the API shape for a worker payment.
type PaymentResponse struct {
	ID            uuid.UUID          `json:"id"`
	WorkerID      uuid.UUID          `json:"worker_id"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	BookingID     uuid.UUID          `json:"booking_id"`
	AmountPaise   int64              `json:"amount_paise"`
	PlatformFee   int64              `json:"platform_fee_paise"`
	NetAmount     int64              `json:"net_amount_paise"`
	Currency      string             `json:"currency"`
	Status        enums.PayoutStatus `json:"status"`
	BankDetails   models.BankDetails `json:"bank_details"`
	TransactionID *string            `json:"transaction_id,omitempty"`
	ProviderRefID *string            `json:"provider_ref_id,omitempty"`
	FailureReason *string            `json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time         `json:"processed_at,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewPaymentResponse maps a payment row to its API shape.
func NewPaymentResponse(payment *models.WorkerPayment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID,
		WorkerID:      payment.WorkerID,
		CustomerID:    payment.CustomerID,
		BookingID:     payment.BookingID,
		AmountPaise:   payment.AmountPaise,
		PlatformFee:   payment.PlatformFee,
		NetAmount:     payment.NetAmount,
		Currency:      payment.Currency,
		Status:        payment.Status,
		BankDetails:   payment.BankDetails,
		TransactionID: payment.TransactionID,
		ProviderRefID: payment.ProviderRefID,
		FailureReason: payment.FailureReason,
		ProcessedAt:   payment.ProcessedAt,
		PaidAt:        payment.PaidAt,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}

// NewPaymentResponses maps a slice of payment rows.
func NewPaymentResponses(payments []models.WorkerPayment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, NewPaymentResponse(&payments[i]))
	}
	return responses
}
