package user

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no document exists for the user.
var ErrNotFound = errors.New("user record not found")

// Store defines the interface for per-user record persistence.
// Both writes are merge upserts: they create the document if absent and
// leave fields outside their field set untouched.
type Store interface {
	Get(ctx context.Context, userID string) (*Record, error)
	// SaveLink stores the exchanged credential and marks the user connected.
	// Existing bankAccounts are not touched.
	SaveLink(ctx context.Context, userID, accessToken, itemID string) error
	// SaveAccounts replaces the bankAccounts array wholesale.
	SaveAccounts(ctx context.Context, userID string, accounts []AccountSnapshot) error
}
