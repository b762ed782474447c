package routes

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahilmehra/karigarpay-backend/internal/earnings"
	"github.com/sahilmehra/karigarpay-backend/internal/payouts"
	pkgauth "github.com/sahilmehra/karigarpay-backend/pkg/auth"
	"github.com/sahilmehra/karigarpay-backend/pkg/config"
	"github.com/sahilmehra/karigarpay-backend/pkg/db/models"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox"
	"github.com/sahilmehra/karigarpay-backend/pkg/pagination"
	"github.com/sahilmehra/karigarpay-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPayoutsService struct {
	createFn func(ctx context.Context, input payouts.CreatePaymentInput) (*models.WorkerPayment, error)
	listFn   func(ctx context.Context, filter payouts.ListFilter) ([]models.WorkerPayment, *pagination.Result, error)
}

func (s *stubPayoutsService) CreatePayment(ctx context.Context, input payouts.CreatePaymentInput) (*models.WorkerPayment, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.WorkerPayment{ID: uuid.New(), BookingID: input.BookingID, Status: enums.PayoutStatusPending}, nil
}

func (s *stubPayoutsService) ProcessPayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
	return &models.WorkerPayment{ID: paymentID, Status: enums.PayoutStatusPaid}, nil
}

func (s *stubPayoutsService) ProcessPendingPayments(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *stubPayoutsService) ReconcilePayment(ctx context.Context, paymentID uuid.UUID) (*models.WorkerPayment, error) {
	return &models.WorkerPayment{ID: paymentID, Status: enums.PayoutStatusPaid}, nil
}

func (s *stubPayoutsService) ListStuckProcessing(ctx context.Context) ([]models.WorkerPayment, error) {
	return nil, nil
}

func (s *stubPayoutsService) GetPayment(ctx context.Context, id uuid.UUID) (*models.WorkerPayment, error) {
	return &models.WorkerPayment{ID: id, Status: enums.PayoutStatusPending}, nil
}

func (s *stubPayoutsService) ListWorkerPayments(ctx context.Context, filter payouts.ListFilter) ([]models.WorkerPayment, *pagination.Result, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	result := pagination.BuildResult(filter.Params, 0)
	return nil, &result, nil
}

func (s *stubPayoutsService) CancelPayment(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) (*models.WorkerPayment, error) {
	return &models.WorkerPayment{ID: id, Status: enums.PayoutStatusCancelled}, nil
}

type stubEarningsService struct{}

func (stubEarningsService) AddEarning(ctx context.Context, tx *gorm.DB, input earnings.MutationInput) (*models.EarningsTransaction, error) {
	return nil, nil
}

func (stubEarningsService) ReverseEarning(ctx context.Context, tx *gorm.DB, input earnings.MutationInput) (*models.EarningsTransaction, error) {
	return nil, nil
}

func (stubEarningsService) HoldAmount(ctx context.Context, tx *gorm.DB, input earnings.MutationInput) (*models.EarningsTransaction, error) {
	return nil, nil
}

func (stubEarningsService) ReleaseHold(ctx context.Context, tx *gorm.DB, input earnings.MutationInput) (*models.EarningsTransaction, error) {
	return nil, nil
}

func (stubEarningsService) ProcessPayout(ctx context.Context, tx *gorm.DB, input earnings.MutationInput) (*models.EarningsTransaction, error) {
	return nil, nil
}

func (stubEarningsService) GetSnapshot(ctx context.Context, workerID uuid.UUID) (*models.WorkerEarnings, error) {
	return &models.WorkerEarnings{WorkerID: workerID, TotalEarnings: 85000, AvailableBalance: 85000}, nil
}

func (stubEarningsService) ListTransactions(ctx context.Context, workerID uuid.UUID, params pagination.Params) ([]models.EarningsTransaction, *pagination.Result, error) {
	result := pagination.BuildResult(params, 0)
	return nil, &result, nil
}

func (stubEarningsService) InvalidateSnapshot(ctx context.Context, workerID uuid.UUID) {}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Webhook: config.WebhookConfig{Secret: "webhook-secret"},
	}
}

func newTestRouter(cfg *config.Config, svc payouts.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		&redis.Client{},
		svc,
		stubEarningsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func signPayload(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), &stubPayoutsService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestAdminRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), &stubPayoutsService{})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminReadsAllowSupportRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubPayoutsService{})

	system := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/"+uuid.NewString(), nil)
	system.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleSystem))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, system)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for system role got %d", resp.Code)
	}

	support := httptest.NewRequest(http.MethodGet, "/api/admin/v1/payments/"+uuid.NewString(), nil)
	support.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleSupport))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, support)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for support role got %d", resp.Code)
	}
}

func TestAdminCreateRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubPayoutsService{})

	body := `{"bookingId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
}

func TestWorkerPaymentsListIncludesEarnings(t *testing.T) {
	cfg := testConfig()
	workerID := uuid.New()
	svc := &stubPayoutsService{
		listFn: func(ctx context.Context, filter payouts.ListFilter) ([]models.WorkerPayment, *pagination.Result, error) {
			result := pagination.BuildResult(filter.Params, 1)
			return []models.WorkerPayment{{ID: uuid.New(), WorkerID: filter.WorkerID, Status: enums.PayoutStatusPaid}}, &result, nil
		},
	}
	router := newTestRouter(cfg, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/workers/"+workerID.String()+"/payments?page=1&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Payments []json.RawMessage `json:"payments"`
			Earnings struct {
				TotalEarnings int64 `json:"total_earnings_paise"`
			} `json:"earnings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Payments) != 1 {
		t.Fatalf("expected one payment, got %d", len(envelope.Data.Payments))
	}
	if envelope.Data.Earnings.TotalEarnings != 85000 {
		t.Fatalf("expected earnings snapshot in listing, got %d", envelope.Data.Earnings.TotalEarnings)
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	router := newTestRouter(testConfig(), &stubPayoutsService{})
	body := `{"bookingId":"` + uuid.NewString() + `","paymentStatus":"completed","transactionId":"txn-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without signature got %d", resp.Code)
	}
}

func TestWebhookOpensPayoutOnCompletedPayment(t *testing.T) {
	cfg := testConfig()
	var created *payouts.CreatePaymentInput
	svc := &stubPayoutsService{
		createFn: func(ctx context.Context, input payouts.CreatePaymentInput) (*models.WorkerPayment, error) {
			created = &input
			return &models.WorkerPayment{ID: uuid.New(), BookingID: input.BookingID, Status: enums.PayoutStatusPending}, nil
		},
	}
	router := newTestRouter(cfg, svc)

	bookingID := uuid.New()
	body := `{"bookingId":"` + bookingID.String() + `","paymentStatus":"COMPLETED","transactionId":"txn-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signPayload(body, cfg.Webhook.Secret))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if created == nil {
		t.Fatal("expected CreatePayment to be invoked")
	}
	if created.BookingID != bookingID {
		t.Fatalf("unexpected booking id %s", created.BookingID)
	}
	if created.ActorRole != enums.ActorRoleSystem {
		t.Fatalf("webhook payouts must be attributed to the system actor, got %q", created.ActorRole)
	}
}

func TestWebhookIgnoresOtherStatuses(t *testing.T) {
	cfg := testConfig()
	svc := &stubPayoutsService{
		createFn: func(ctx context.Context, input payouts.CreatePaymentInput) (*models.WorkerPayment, error) {
			t.Fatal("CreatePayment must not run for non-completed statuses")
			return nil, nil
		},
	}
	router := newTestRouter(cfg, svc)

	body := `{"bookingId":"` + uuid.NewString() + `","paymentStatus":"refunded","transactionId":"txn-2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", signPayload(body, cfg.Webhook.Secret))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored status got %d", resp.Code)
	}
}
