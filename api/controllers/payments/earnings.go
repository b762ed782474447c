package payments

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilmehra/karigarpay-backend/api/responses"
	"github.com/sahilmehra/karigarpay-backend/api/validators"
	internalearnings "github.com/sahilmehra/karigarpay-backend/internal/earnings"
	pkgerrors "github.com/sahilmehra/karigarpay-backend/pkg/errors"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
)

// WorkerEarnings returns the worker's balance snapshot plus a page of
// ledger rows.
func WorkerEarnings(earningsSvc internalearnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if earningsSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "earnings service unavailable"))
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

		snapshot, err := earningsSvc.GetSnapshot(r.Context(), workerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transactions, pageMeta, err := earningsSvc.ListTransactions(r.Context(), workerID, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"earnings":     internalearnings.NewSnapshotResponse(snapshot),
			"transactions": internalearnings.NewTransactionResponses(transactions),
			"pagination":   pageMeta,
		})
	}
}
