package earnings

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

// SnapshotResponse is the API shape for a worker balance snapshot.
type SnapshotResponse struct {
	WorkerID         uuid.UUID `json:"worker_id"`
	TotalEarnings    int64     `json:"total_earnings_paise"`
	AvailableBalance int64     `json:"available_balance_paise"`
	PendingBalance   int64     `json:"pending_balance_paise"`
	TotalWithdrawn   int64     `json:"total_withdrawn_paise"`
}

// NewSnapshotResponse maps a balance row to its API shape.
func NewSnapshotResponse(snapshot *models.WorkerEarnings) SnapshotResponse {
	return SnapshotResponse{
		WorkerID:         snapshot.WorkerID,
		TotalEarnings:    snapshot.TotalEarnings,
		AvailableBalance: snapshot.AvailableBalance,
		PendingBalance:   snapshot.PendingBalance,
		TotalWithdrawn:   snapshot.TotalWithdrawn,
	}
}

// TransactionResponse is the API shape for one ledger row.
type TransactionResponse struct {
	ID            uuid.UUID             `json:"id"`
	TransactionID string                `json:"transaction_id"`
	WorkerID      uuid.UUID             `json:"worker_id"`
	Type          enums.LedgerEntryType `json:"type"`
	AmountPaise   int64                 `json:"amount_paise"`
	BalanceAfter  int64                 `json:"balance_after_paise"`
	BookingID     *uuid.UUID            `json:"booking_id,omitempty"`
	PaymentID     *uuid.UUID            `json:"payment_id,omitempty"`
	Description   string                `json:"description"`
	CreatedAt     time.Time             `json:"created_at"`
}

// NewTransactionResponses maps a slice of ledger rows.
func NewTransactionResponses(rows []models.EarningsTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		responses = append(responses, TransactionResponse{
			ID:            row.ID,
			TransactionID: row.TransactionID,
			WorkerID:      row.WorkerID,
			Type:          row.Type,
			AmountPaise:   row.AmountPaise,
			BalanceAfter:  row.BalanceAfter,
			BookingID:     row.BookingID,
			PaymentID:     row.PaymentID,
			Description:   row.Description,
			CreatedAt:     row.CreatedAt,
		})
	}
	return responses
}
