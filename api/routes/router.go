package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahilmehra/karigarpay-backend/api/controllers"
	paymentcontrollers "github.com/sahilmehra/karigarpay-backend/api/controllers/payments"
	webhookcontrollers "github.com/sahilmehra/karigarpay-backend/api/controllers/webhooks"
	"github.com/sahilmehra/karigarpay-backend/api/middleware"
	"github.com/sahilmehra/karigarpay-backend/internal/earnings"
	"github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/config"
	"github.com/sahilmehra/karigarpay-backend/pkg/db"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	payoutsSvc payouts.Service,
	earningsSvc earnings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/payments", webhookcontrollers.PaymentCaptured(payoutsSvc, cfg.Webhook.Secret, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin.String()))
			r.Post("/payments", paymentcontrollers.Create(payoutsSvc, logg))
			r.Post("/payments/process-pending", paymentcontrollers.ProcessPending(payoutsSvc, logg))
			r.Post("/payments/{paymentId}/process", paymentcontrollers.Process(payoutsSvc, logg))
			r.Post("/payments/{paymentId}/cancel", paymentcontrollers.Cancel(payoutsSvc, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin.String(), enums.ActorRoleSupport.String()))
			r.Get("/payments/{paymentId}", paymentcontrollers.Detail(payoutsSvc, logg))
			r.Get("/workers/{workerId}/payments", paymentcontrollers.ListForWorker(payoutsSvc, earningsSvc, logg))
			r.Get("/workers/{workerId}/earnings", paymentcontrollers.WorkerEarnings(earningsSvc, logg))
		})
	})

	return r
}
