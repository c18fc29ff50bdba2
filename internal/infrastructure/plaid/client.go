package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout = 60 * time.Second
	apiVersion     = "2020-09-14"

	linkTokenCreatePath     = "/link/token/create"
	publicTokenExchangePath = "/item/public_token/exchange"
	authGetPath             = "/auth/get"
	transactionsGetPath     = "/transactions/get"
)

// environments maps the PLAID_ENV selector to its API base URL.
var environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Client handles communication with the Plaid API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	clientName string
	webhookURL string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Config holds the credentials and link defaults for a Client.
type Config struct {
	Environment string
	ClientID    string
	Secret      string
	ClientName  string
	WebhookURL  string
}

// NewClient creates a new Plaid API client for the given environment.
func NewClient(cfg Config) (*Client, error) {
	baseURL, ok := environments[cfg.Environment]
	if !ok {
		return nil, fmt.Errorf("unknown plaid environment %q", cfg.Environment)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:    baseURL,
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		clientName: cfg.ClientName,
		webhookURL: cfg.WebhookURL,
	}, nil
}

// LinkToken is an ephemeral token authorizing the hosted linking UI.
// It is returned to the client verbatim and never persisted.
type LinkToken struct {
	Token      string `json:"link_token"`
	Expiration string `json:"expiration"`
}

// ExchangeResult is the durable credential pair returned by a
// public-token exchange.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// Account represents an account as returned by /auth/get.
type Account struct {
	AccountID string          `json:"account_id"`
	Mask      string          `json:"mask"`
	Name      string          `json:"name"`
	Subtype   string          `json:"subtype"`
	Balances  AccountBalances `json:"balances"`
}

// AccountBalances holds the balance set for an account. Amounts decode
// into decimals so currency values survive the wire without float drift.
type AccountBalances struct {
	Current decimal.Decimal `json:"current"`
}

// AuthResult is the normalized result of /auth/get: the institution
// plus its accounts in the order Plaid returned them.
type AuthResult struct {
	InstitutionName string
	Accounts        []Account
}

type authGetResponse struct {
	Accounts []Account `json:"accounts"`
	Item     struct {
		InstitutionName string `json:"institution_name"`
		ItemID          string `json:"item_id"`
	} `json:"item"`
}

// Transaction represents a transaction as returned by /transactions/get,
// tagged with its owning account id.
type Transaction struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

type transactionsGetResponse struct {
	Transactions      []Transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
}

// APIError is a structured error payload returned by the Plaid API.
type APIError struct {
	StatusCode   int    `json:"-"`
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plaid API error (status %d): %s - %s", e.StatusCode, e.ErrorCode, e.ErrorMessage)
}

type linkTokenCreateRequest struct {
	User struct {
		ClientUserID string `json:"client_user_id"`
	} `json:"user"`
	ClientName   string   `json:"client_name"`
	CountryCodes []string `json:"country_codes"`
	Language     string   `json:"language"`
	Products     []string `json:"products"`
	Webhook      string   `json:"webhook,omitempty"`
}

// CreateLinkToken requests a link token bound to the given user.
// The token initiates the hosted linking UI and expires on its own;
// nothing is stored server-side.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error) {
	body := linkTokenCreateRequest{
		ClientName:   c.clientName,
		CountryCodes: []string{"US"},
		Language:     "en",
		Products:     []string{"auth", "transactions"},
		Webhook:      c.webhookURL,
	}
	body.User.ClientUserID = userID

	var token LinkToken
	if err := c.post(ctx, linkTokenCreatePath, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ExchangePublicToken swaps a one-time public token for a durable
// access token and item id. The public token is consumed by Plaid on
// first successful use.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	body := map[string]string{"public_token": publicToken}

	var result ExchangeResult
	if err := c.post(ctx, publicTokenExchangePath, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAuth fetches the linked institution's name and accounts.
func (c *Client) GetAuth(ctx context.Context, accessToken string) (*AuthResult, error) {
	body := map[string]string{"access_token": accessToken}

	var resp authGetResponse
	if err := c.post(ctx, authGetPath, body, &resp); err != nil {
		return nil, err
	}

	institution := resp.Item.InstitutionName
	if institution == "" {
		institution = "Unknown Bank"
	}

	return &AuthResult{
		InstitutionName: institution,
		Accounts:        resp.Accounts,
	}, nil
}

type transactionsGetRequest struct {
	AccessToken string `json:"access_token"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Options     struct {
		Count int `json:"count"`
	} `json:"options"`
}

// GetTransactions fetches transactions for the given date range
// (YYYY-MM-DD, inclusive), capped at count, in the order Plaid returns
// them (most recent first).
func (c *Client) GetTransactions(ctx context.Context, accessToken, startDate, endDate string, count int) ([]Transaction, error) {
	body := transactionsGetRequest{
		AccessToken: accessToken,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	body.Options.Count = count

	var resp transactionsGetResponse
	if err := c.post(ctx, transactionsGetPath, body, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// post executes one authenticated call against the Plaid API and
// decodes the response into out. Non-200 responses decode into APIError
// when Plaid supplied a structured payload.
func (c *Client) post(ctx context.Context, path string, reqBody, out interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", c.clientID)
	req.Header.Set("PLAID-SECRET", c.secret)
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.ErrorCode == "" {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
