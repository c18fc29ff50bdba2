package plaid

import (
	"context"
)

// ClientInterface defines the methods required from the Plaid API client
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)
	GetAuth(ctx context.Context, accessToken string) (*AuthResult, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string, count int) ([]Transaction, error)
}
