package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sahilmehra/karigarpay-backend/pkg/config"
	"github.com/sahilmehra/karigarpay-backend/pkg/enums"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   server.URL,
		Timeout:   5 * time.Second,
	})
	return client, server
}

func TestCreatePayout_SendsBasicAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody CreatePayoutRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payouts" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if ok {
			gotAuth = user + ":" + pass
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Payout{
			ID:            "pout_123",
			FundAccountID: gotBody.FundAccountID,
			Amount:        gotBody.Amount,
			Currency:      gotBody.Currency,
			Status:        StatusQueued,
		})
	}))

	payout, err := client.CreatePayout(context.Background(), CreatePayoutRequest{
		AccountNumber: "2323230000000000",
		FundAccountID: "fa_001",
		Amount:        85000,
		Currency:      "INR",
		Mode:          "IMPS",
		ReferenceID:   "payment-1",
	})
	if err != nil {
		t.Fatalf("CreatePayout: %v", err)
	}

	if gotAuth != "rzp_test_key:rzp_test_secret" {
		t.Fatalf("unexpected basic auth %q", gotAuth)
	}
	if gotBody.Purpose != "payout" {
		t.Fatalf("expected default purpose, got %q", gotBody.Purpose)
	}
	if payout.ID != "pout_123" || payout.Amount != 85000 {
		t.Fatalf("unexpected payout %+v", payout)
	}
}

func TestCreateContact_DefaultsType(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Type != "employee" {
			t.Fatalf("expected default type employee, got %q", req.Type)
		}
		_ = json.NewEncoder(w).Encode(Contact{ID: "cont_1", Name: req.Name, Type: req.Type})
	}))

	contact, err := client.CreateContact(context.Background(), CreateContactRequest{Name: "Asha"})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if contact.ID != "cont_1" {
		t.Fatalf("unexpected contact %+v", contact)
	}
}

func TestGetPayout_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"payout not found"}}`))
	}))

	_, err := client.GetPayout(context.Background(), "pout_missing")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "BAD_REQUEST_ERROR" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestMapPayoutStatus(t *testing.T) {
	cases := map[string]enums.PayoutStatus{
		StatusProcessed:  enums.PayoutStatusPaid,
		StatusProcessing: enums.PayoutStatusProcessing,
		StatusQueued:     enums.PayoutStatusProcessing,
		StatusPending:    enums.PayoutStatusProcessing,
		StatusCancelled:  enums.PayoutStatusCancelled,
		StatusFailed:     enums.PayoutStatusFailed,
		StatusRejected:   enums.PayoutStatusFailed,
		StatusReversed:   enums.PayoutStatusFailed,
		"unknown":        enums.PayoutStatusProcessing,
	}
	for provider, want := range cases {
		if got := MapPayoutStatus(provider); got != want {
			t.Fatalf("MapPayoutStatus(%q) = %s, want %s", provider, got, want)
		}
	}
}

func TestValidateWebhookSignature(t *testing.T) {
	secret := "whsec"
	payload := []byte(`{"event":"booking.payment.completed"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	if err := ValidateWebhookSignature(payload, signature, secret); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
	if err := ValidateWebhookSignature(payload, "bad-signature", secret); err == nil {
		t.Fatal("expected invalid signature error")
	}
	if err := ValidateWebhookSignature(payload, signature, ""); err == nil {
		t.Fatal("expected missing secret error")
	}
}
