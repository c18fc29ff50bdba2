// Package http exposes the backend's API surface for the mobile client.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finlink/internal/domain/banklink"
	"finlink/internal/domain/user"
	"finlink/internal/infrastructure/plaid"
	"finlink/internal/shared/middleware"
)

// BankLinkService is the pipeline surface the handlers depend on.
// Implemented by *banklink.Service.
type BankLinkService interface {
	IssueLinkToken(ctx context.Context, userID string) (*banklink.LinkToken, error)
	CompleteLink(ctx context.Context, userID, publicToken string) error
	Refresh(ctx context.Context, userID string) ([]user.AccountSnapshot, error)
	GetStatus(ctx context.Context, userID string) (user.Status, error)
}

type LinkHandler struct {
	service BankLinkService
}

func NewLinkHandler(service BankLinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// HandleUserInfo handles GET /server/get_user_info
func (h *LinkHandler) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, http.MethodGet)
	if !ok {
		return
	}

	status, err := h.service.GetStatus(r.Context(), userID)
	if err != nil {
		log.Printf("Error retrieving user info for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Error retrieving user info")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId":     userID,
		"userStatus": status,
	})
}

// HandleGenerateLinkToken handles POST /server/generate_link_token
func (h *LinkHandler) HandleGenerateLinkToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, http.MethodPost)
	if !ok {
		return
	}

	token, err := h.service.IssueLinkToken(r.Context(), userID)
	if err != nil {
		log.Printf("Error generating link token for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"linkToken":  token.Token,
		"expiration": token.Expiration,
	})
}

type swapPublicTokenRequest struct {
	PublicToken string `json:"public_token"`
}

// HandleSwapPublicToken handles POST /server/swap_public_token
func (h *LinkHandler) HandleSwapPublicToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, http.MethodPost)
	if !ok {
		return
	}

	var req swapPublicTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PublicToken == "" {
		writeError(w, http.StatusBadRequest, "public_token is required")
		return
	}

	if err := h.service.CompleteLink(r.Context(), userID, req.PublicToken); err != nil {
		log.Printf("Error swapping public token for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleSimpleAuth handles GET /server/simple_auth
func (h *LinkHandler) HandleSimpleAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, http.MethodGet)
	if !ok {
		return
	}

	accounts, err := h.service.Refresh(r.Context(), userID)
	if err != nil {
		log.Printf("Error refreshing bank data for %s: %v", userID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bankAccounts": accounts,
	})
}

// requireUser enforces the HTTP method and extracts the authenticated
// user id set by the auth middleware.
func requireUser(w http.ResponseWriter, r *http.Request, method string) (string, bool) {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return "", false
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

// writeServiceError maps pipeline errors onto the API's error contract:
// a missing link is the caller's problem (400), aggregator errors keep
// their code and message (500), everything else is a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, banklink.ErrNotLinked) {
		writeError(w, http.StatusBadRequest, "User has no linked bank account.")
		return
	}

	var apiErr *plaid.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error_code":    apiErr.ErrorCode,
			"error_message": apiErr.ErrorMessage,
		})
		return
	}

	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
