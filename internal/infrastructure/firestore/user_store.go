// Package firestore persists per-user records in a Firestore collection.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finlink/internal/domain/user"
)

const usersCollection = "users"

// UserStore implements user.Store on top of Firestore. Documents are
// keyed by user id; both writes use merge semantics so each write
// touches only its own field set.
type UserStore struct {
	client *firestore.Client
}

// Ensure UserStore implements user.Store
var _ user.Store = (*UserStore)(nil)

// NewUserStore creates a Firestore-backed user record store.
func NewUserStore(client *firestore.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) doc(userID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID)
}

// Get loads the record for userID, or user.ErrNotFound when no
// document exists yet.
func (s *UserStore) Get(ctx context.Context, userID string) (*user.Record, error) {
	snap, err := s.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	var record user.Record
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %w", err)
	}
	record.UserID = userID

	return &record, nil
}

// SaveLink upserts the credential pair and marks the user connected.
// A single merge write keeps the operation atomic; bankAccounts are
// outside its field set and stay untouched.
func (s *UserStore) SaveLink(ctx context.Context, userID, accessToken, itemID string) error {
	_, err := s.doc(userID).Set(ctx, map[string]interface{}{
		"access_token": accessToken,
		"item_id":      itemID,
		"user_status":  user.StatusConnected,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	return nil
}

// SaveAccounts replaces the bankAccounts array wholesale in one merge
// write. Concurrent refreshes race here; the last write wins.
func (s *UserStore) SaveAccounts(ctx context.Context, userID string, accounts []user.AccountSnapshot) error {
	_, err := s.doc(userID).Set(ctx, map[string]interface{}{
		"bankAccounts": accounts,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to store bank accounts: %w", err)
	}
	return nil
}
