// Package banklink provides the domain service for linking bank
// accounts and refreshing their data through the aggregator.
package banklink

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finlink/internal/domain/user"
	"finlink/internal/infrastructure/plaid"
)

// ErrNotLinked is returned when an operation requires a linked bank
// account and the user has none.
var ErrNotLinked = errors.New("user has no linked bank account")

// Config holds the transaction fetch window for refreshes.
type Config struct {
	TransactionDays  int // trailing window in days
	TransactionCount int // per-refresh fetch cap
}

// LinkToken is an ephemeral token for the hosted linking UI, returned
// to the client verbatim together with its expiration.
type LinkToken struct {
	Token      string
	Expiration string
}

// Service orchestrates link-token issuance, token exchange and
// account/transaction refresh. It holds no mutable state of its own;
// everything persistent lives in the injected store.
type Service struct {
	client plaid.ClientInterface
	store  user.Store
	cfg    Config
}

// NewService creates a new bank link service.
func NewService(client plaid.ClientInterface, store user.Store, cfg Config) *Service {
	return &Service{
		client: client,
		store:  store,
		cfg:    cfg,
	}
}

// IssueLinkToken requests a link token bound to userID. No persisted
// state is touched; the token is consumed by the hosted linking UI.
func (s *Service) IssueLinkToken(ctx context.Context, userID string) (*LinkToken, error) {
	token, err := s.client.CreateLinkToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create link token: %w", err)
	}
	return &LinkToken{Token: token.Token, Expiration: token.Expiration}, nil
}

// CompleteLink exchanges a one-time public token for a durable access
// token and stores it for userID in a single merge write. On exchange
// failure nothing is written. A repeated successful link overwrites the
// stored credential (last write wins).
func (s *Service) CompleteLink(ctx context.Context, userID, publicToken string) error {
	result, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return fmt.Errorf("failed to exchange public token: %w", err)
	}

	if err := s.store.SaveLink(ctx, userID, result.AccessToken, result.ItemID); err != nil {
		return err
	}

	log.Printf("User %s: bank link completed (item %s)", userID, result.ItemID)
	return nil
}

// Refresh fetches the user's accounts and recent transactions from the
// aggregator, normalizes them into snapshots, and replaces the stored
// bankAccounts array in one merge write. Any fetch failure aborts
// before the write, leaving the previous snapshot intact.
func (s *Service) Refresh(ctx context.Context, userID string) ([]user.AccountSnapshot, error) {
	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrNotLinked
		}
		return nil, err
	}
	if !record.Linked() {
		return nil, ErrNotLinked
	}

	auth, err := s.client.GetAuth(ctx, record.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -s.cfg.TransactionDays)
	transactions, err := s.client.GetTransactions(
		ctx,
		record.AccessToken,
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"),
		s.cfg.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	// Account and transaction order follow the aggregator's response.
	snapshots := make([]user.AccountSnapshot, 0, len(auth.Accounts))
	for _, account := range auth.Accounts {
		names := []string{}
		for _, txn := range transactions {
			if txn.AccountID == account.AccountID {
				names = append(names, txn.Name)
			}
		}

		snapshots = append(snapshots, user.AccountSnapshot{
			InstitutionName: auth.InstitutionName,
			Mask:            account.Mask,
			Name:            account.Name,
			Subtype:         account.Subtype,
			Balance:         account.Balances.Current.InexactFloat64(),
			Transactions:    names,
		})
	}

	if err := s.store.SaveAccounts(ctx, userID, snapshots); err != nil {
		return nil, err
	}

	log.Printf("User %s: refreshed %d accounts, %d transactions", userID, len(snapshots), len(transactions))
	return snapshots, nil
}

// GetStatus reports the user's connection status. A user with no record
// yet is simply disconnected, not an error.
func (s *Service) GetStatus(ctx context.Context, userID string) (user.Status, error) {
	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.StatusDisconnected, nil
		}
		return "", err
	}
	return record.CurrentStatus(), nil
}
