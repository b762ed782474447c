package webhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/api/responses"
	internalpayouts "github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/razorpay"
)

const signatureHeader = "X-Razorpay-Signature"

type paymentWebhookEvent struct {
	BookingID     string `json:"bookingId"`
	PaymentStatus string `json:"paymentStatus"`
	TransactionID string `json:"transactionId"`
}

// PaymentCaptured ingests customer payment notifications. A completed
// customer payment opens the worker payout for the booking; every other
// status, and a booking that already has a payout, acks with a no-op.
func PaymentCaptured(svc internalpayouts.Service, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "webhook signature missing"))
			return
		}
		if err := razorpay.ValidateWebhookSignature(payload, signature, secret); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid webhook signature"))
			return
		}

		var event paymentWebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode event"))
			return
		}

		bookingID, err := uuid.Parse(strings.TrimSpace(event.BookingID))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"booking_id":     bookingID.String(),
				"payment_status": event.PaymentStatus,
				"transaction_id": event.TransactionID,
			})
		}

		if !strings.EqualFold(event.PaymentStatus, string(enums.CustomerPaymentCompleted)) {
			if logg != nil {
				logg.Info(ctx, "payment webhook ignored")
			}
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}

		payment, err := svc.CreatePayment(ctx, internalpayouts.CreatePaymentInput{
			BookingID: bookingID,
			ActorRole: enums.ActorRoleSystem,
		})
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeConflict {
				if logg != nil {
					logg.Info(ctx, "payout already exists for booking")
				}
				responses.WriteSuccess(w, map[string]string{"status": "duplicate"})
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithPaymentID(ctx, payment.ID.String()), "payout opened from payment webhook")
		}
		responses.WriteSuccess(w, internalpayouts.NewPaymentResponse(payment))
	}
}
