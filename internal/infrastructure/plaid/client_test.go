package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		clientID:   "test-client-id",
		secret:     "test-secret",
		clientName: "iOS Demo",
		webhookURL: "https://sample-webhook-uri.com",
	}
}

func TestNewClient_UnknownEnvironment(t *testing.T) {
	_, err := NewClient(Config{Environment: "staging"})
	if err == nil {
		t.Error("NewClient() expected error for unknown environment, got nil")
	}
}

func TestCreateLinkToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != linkTokenCreatePath {
			t.Errorf("path = %q, want %q", r.URL.Path, linkTokenCreatePath)
		}
		if got := r.Header.Get("PLAID-CLIENT-ID"); got != "test-client-id" {
			t.Errorf("PLAID-CLIENT-ID header = %q, want %q", got, "test-client-id")
		}
		if got := r.Header.Get("Plaid-Version"); got != apiVersion {
			t.Errorf("Plaid-Version header = %q, want %q", got, apiVersion)
		}

		var req linkTokenCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.User.ClientUserID != "user-42" {
			t.Errorf("client_user_id = %q, want %q", req.User.ClientUserID, "user-42")
		}
		if len(req.Products) != 2 || req.Products[0] != "auth" || req.Products[1] != "transactions" {
			t.Errorf("products = %v, want [auth transactions]", req.Products)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"link_token": "link-sandbox-abc",
			"expiration": "2026-01-01T12:00:00Z",
		})
	}))
	defer srv.Close()

	token, err := newTestClient(srv).CreateLinkToken(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("CreateLinkToken() failed: %v", err)
	}
	if token.Token != "link-sandbox-abc" {
		t.Errorf("Token = %q, want %q", token.Token, "link-sandbox-abc")
	}
	if token.Expiration != "2026-01-01T12:00:00Z" {
		t.Errorf("Expiration = %q, want %q", token.Expiration, "2026-01-01T12:00:00Z")
	}
}

func TestExchangePublicToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["public_token"] != "public-sandbox-xyz" {
			t.Errorf("public_token = %q, want %q", req["public_token"], "public-sandbox-xyz")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-sandbox-123",
			"item_id":      "item-1",
		})
	}))
	defer srv.Close()

	result, err := newTestClient(srv).ExchangePublicToken(context.Background(), "public-sandbox-xyz")
	if err != nil {
		t.Fatalf("ExchangePublicToken() failed: %v", err)
	}
	if result.AccessToken != "access-sandbox-123" {
		t.Errorf("AccessToken = %q, want %q", result.AccessToken, "access-sandbox-123")
	}
	if result.ItemID != "item-1" {
		t.Errorf("ItemID = %q, want %q", result.ItemID, "item-1")
	}
}

func TestGetAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accounts": []map[string]interface{}{
				{
					"account_id": "acc-1",
					"mask":       "1111",
					"name":       "Checking",
					"subtype":    "checking",
					"balances":   map[string]interface{}{"current": 500.00},
				},
				{
					"account_id": "acc-2",
					"mask":       "2222",
					"name":       "Savings",
					"subtype":    "savings",
					"balances":   map[string]interface{}{"current": 2000.00},
				},
			},
			"item": map[string]interface{}{"institution_name": "First Platypus Bank", "item_id": "item-1"},
		})
	}))
	defer srv.Close()

	auth, err := newTestClient(srv).GetAuth(context.Background(), "access-sandbox-123")
	if err != nil {
		t.Fatalf("GetAuth() failed: %v", err)
	}
	if auth.InstitutionName != "First Platypus Bank" {
		t.Errorf("InstitutionName = %q, want %q", auth.InstitutionName, "First Platypus Bank")
	}
	if len(auth.Accounts) != 2 {
		t.Fatalf("len(Accounts) = %d, want 2", len(auth.Accounts))
	}
	// Order must follow the API response
	if auth.Accounts[0].AccountID != "acc-1" || auth.Accounts[1].AccountID != "acc-2" {
		t.Errorf("account order = [%s %s], want [acc-1 acc-2]", auth.Accounts[0].AccountID, auth.Accounts[1].AccountID)
	}
	if !auth.Accounts[0].Balances.Current.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Balances.Current = %s, want 500", auth.Accounts[0].Balances.Current)
	}
}

func TestGetAuth_MissingInstitutionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accounts": []map[string]interface{}{},
			"item":     map[string]interface{}{"item_id": "item-1"},
		})
	}))
	defer srv.Close()

	auth, err := newTestClient(srv).GetAuth(context.Background(), "access-sandbox-123")
	if err != nil {
		t.Fatalf("GetAuth() failed: %v", err)
	}
	if auth.InstitutionName != "Unknown Bank" {
		t.Errorf("InstitutionName = %q, want %q", auth.InstitutionName, "Unknown Bank")
	}
}

func TestGetTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transactionsGetRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.StartDate != "2026-08-01" || req.EndDate != "2026-08-31" {
			t.Errorf("date range = %s..%s, want 2026-08-01..2026-08-31", req.StartDate, req.EndDate)
		}
		if req.Options.Count != 10 {
			t.Errorf("options.count = %d, want 10", req.Options.Count)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transactions": []map[string]interface{}{
				{"account_id": "acc-1", "name": "Uber", "amount": 6.33, "date": "2026-08-30"},
				{"account_id": "acc-2", "name": "Starbucks", "amount": 4.50, "date": "2026-08-29"},
			},
			"total_transactions": 2,
		})
	}))
	defer srv.Close()

	txns, err := newTestClient(srv).GetTransactions(context.Background(), "access-sandbox-123", "2026-08-01", "2026-08-31", 10)
	if err != nil {
		t.Fatalf("GetTransactions() failed: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("len(txns) = %d, want 2", len(txns))
	}
	if txns[0].Name != "Uber" || txns[0].AccountID != "acc-1" {
		t.Errorf("txns[0] = %+v, want Uber on acc-1", txns[0])
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error_type":    "INVALID_INPUT",
			"error_code":    "INVALID_PUBLIC_TOKEN",
			"error_message": "provided public token is in an invalid format",
			"request_id":    "req-1",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ExchangePublicToken(context.Background(), "bogus")
	if err == nil {
		t.Fatal("ExchangePublicToken() expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.ErrorCode != "INVALID_PUBLIC_TOKEN" {
		t.Errorf("ErrorCode = %q, want %q", apiErr.ErrorCode, "INVALID_PUBLIC_TOKEN")
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
}

func TestAPIError_UnstructuredBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).GetAuth(context.Background(), "access-sandbox-123")
	if err == nil {
		t.Fatal("GetAuth() expected error, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("unstructured body should not decode into APIError, got %+v", apiErr)
	}
}
