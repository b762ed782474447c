package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sahilmehra/karigarpay-backend/pkg/config"
)

// Client is a minimal RazorpayX client covering the contact, fund
// account and payout endpoints used by the payout pipeline.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

// APIError carries the provider's error body and HTTP status.
type APIError struct {
	StatusCode  int
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: status %d code %s: %s", e.StatusCode, e.Code, e.Description)
}

// New builds a client from configuration.
func New(cfg config.RazorpayConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Contact is the provider-side payee record.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"contact,omitempty"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// CreateContactRequest registers a worker as a payout contact.
type CreateContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"contact,omitempty"`
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// BankAccount is the destination account nested in a fund account.
type BankAccount struct {
	Name          string `json:"name"`
	IFSC          string `json:"ifsc"`
	AccountNumber string `json:"account_number"`
}

// FundAccount links a contact to a bank account.
type FundAccount struct {
	ID          string      `json:"id"`
	ContactID   string      `json:"contact_id"`
	AccountType string      `json:"account_type"`
	BankAccount BankAccount `json:"bank_account"`
	Active      bool        `json:"active"`
}

// CreateFundAccountRequest attaches bank details to an existing contact.
type CreateFundAccountRequest struct {
	ContactID   string      `json:"contact_id"`
	AccountType string      `json:"account_type"`
	BankAccount BankAccount `json:"bank_account"`
}

// Payout is the provider-side payout record. Amount is in paise.
type Payout struct {
	ID            string `json:"id"`
	FundAccountID string `json:"fund_account_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Mode          string `json:"mode"`
	Status        string `json:"status"`
	ReferenceID   string `json:"reference_id"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// CreatePayoutRequest initiates a payout from the platform account.
type CreatePayoutRequest struct {
	AccountNumber string `json:"account_number"`
	FundAccountID string `json:"fund_account_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Mode          string `json:"mode"`
	Purpose       string `json:"purpose"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Narration     string `json:"narration,omitempty"`
}

// CreateContact registers the payee with the provider.
func (c *Client) CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	if req.Type == "" {
		req.Type = "employee"
	}
	var out Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFundAccount attaches the worker's bank account to a contact.
func (c *Client) CreateFundAccount(ctx context.Context, req CreateFundAccountRequest) (*FundAccount, error) {
	if req.AccountType == "" {
		req.AccountType = "bank_account"
	}
	var out FundAccount
	if err := c.do(ctx, http.MethodPost, "/fund_accounts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayout initiates a payout to the given fund account.
func (c *Client) CreatePayout(ctx context.Context, req CreatePayoutRequest) (*Payout, error) {
	if req.Purpose == "" {
		req.Purpose = "payout"
	}
	var out Payout
	if err := c.do(ctx, http.MethodPost, "/payouts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayout fetches the current provider-side state of a payout.
func (c *Client) GetPayout(ctx context.Context, payoutID string) (*Payout, error) {
	var out Payout
	if err := c.do(ctx, http.MethodGet, "/payouts/"+payoutID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("razorpay: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("razorpay: build request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("razorpay: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var wrapper struct {
			Error APIError `json:"error"`
		}
		if err := json.Unmarshal(data, &wrapper); err == nil {
			apiErr.Code = wrapper.Error.Code
			apiErr.Description = wrapper.Error.Description
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("razorpay: decode response: %w", err)
	}
	return nil
}
