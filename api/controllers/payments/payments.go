package payments

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/sahilmehra/karigarpay-backend/api/middleware"
	"github.com/sahilmehra/karigarpay-backend/api/responses"
	"github.com/sahilmehra/karigarpay-backend/api/validators"
	internalearnings "github.com/sahilmehra/karigarpay-backend/internal/earnings"
	internalpayouts "github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

type createPaymentRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid4"`
}

// Create opens a payout for a completed booking and queues it for
// deferred processing.
func Create(svc internalpayouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		actorID, role, err := parseActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := uuid.Parse(strings.TrimSpace(payload.BookingID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		payment, err := svc.CreatePayment(r.Context(), internalpayouts.CreatePaymentInput{
			BookingID:   bookingID,
			ActorUserID: actorID,
			ActorRole:   role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalpayouts.NewPaymentResponse(payment))
	}
}

// Process pushes a single pending payment through the provider leg.
func Process(svc internalpayouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		paymentID, err := parsePaymentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.ProcessPayment(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpayouts.NewPaymentResponse(payment))
	}
}

// ProcessPending sweeps every pending payment sequentially and reports
// per-item failures without aborting the batch.
func ProcessPending(svc internalpayouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		processed, err := svc.ProcessPendingPayments(r.Context())

		payload := map[string]any{"processed": processed}
		if err != nil {
			failures := make([]string, 0)
			for _, itemErr := range multierr.Errors(err) {
				failures = append(failures, itemErr.Error())
			}
			payload["failures"] = failures
		}
		responses.WriteSuccess(w, payload)
	}
}

// Cancel aborts a pending payment and returns the held amount to the
// worker's available balance.
func Cancel(svc internalpayouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		actorID, role, err := parseActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentID, err := parsePaymentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor *outbox.ActorRef
		if actorID != uuid.Nil {
			actor = &outbox.ActorRef{UserID: actorID, Role: role.String()}
		}

		payment, err := svc.CancelPayment(r.Context(), paymentID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpayouts.NewPaymentResponse(payment))
	}
}

// Detail returns a single payment.
func Detail(svc internalpayouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		paymentID, err := parsePaymentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.GetPayment(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpayouts.NewPaymentResponse(payment))
	}
}

// ListForWorker pages a worker's payments alongside their current
// earnings snapshot.
func ListForWorker(svc internalpayouts.Service, earningsSvc internalearnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || earningsSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payouts service unavailable"))
			return
		}

		rawWorkerID := strings.TrimSpace(chi.URLParam(r, "workerId"))
		workerID, err := uuid.Parse(rawWorkerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid worker id"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := internalpayouts.ListFilter{
			WorkerID: workerID,
			Params:   pagination.Params{Page: page, Limit: limit},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParsePayoutStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filter.Status = &status
		}

		payments, pageMeta, err := svc.ListWorkerPayments(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := earningsSvc.GetSnapshot(r.Context(), workerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"payments":   internalpayouts.NewPaymentResponses(payments),
			"pagination": pageMeta,
			"earnings":   internalearnings.NewSnapshotResponse(snapshot),
		})
	}
}

func parsePaymentID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "paymentId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	paymentID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment id")
	}
	return paymentID, nil
}

func parseActor(r *http.Request) (uuid.UUID, enums.ActorRole, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	role, err := enums.ParseActorRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown actor role")
	}
	return actorID, role, nil
}
