package main

import (
	"context"
	"log"

	"finlink/internal/domain/banklink"
	"finlink/internal/infrastructure/firebase"
	"finlink/internal/infrastructure/firestore"
	"finlink/internal/infrastructure/plaid"
	httphandlers "finlink/internal/interfaces/http"
	"finlink/internal/shared/config"
	"finlink/internal/shared/middleware"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Firebase *firebase.Client

	// Handlers
	LinkHandler *httphandlers.LinkHandler

	// Auth
	Verifier middleware.TokenVerifier
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Initialize Firebase Admin SDK (auth + firestore)
	fb, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to Firebase")

	// Initialize the user record store
	userStore := firestore.NewUserStore(fb.Firestore())

	// Initialize the Plaid client
	plaidClient, err := plaid.NewClient(plaid.Config{
		Environment: cfg.Plaid.Environment,
		ClientID:    cfg.Plaid.ClientID,
		Secret:      cfg.Plaid.Secret,
		ClientName:  cfg.Plaid.ClientName,
		WebhookURL:  cfg.Plaid.WebhookURL,
	})
	if err != nil {
		return nil, err
	}

	// Initialize the bank link pipeline
	linkService := banklink.NewService(plaidClient, userStore, banklink.Config{
		TransactionDays:  cfg.Sync.TransactionDays,
		TransactionCount: cfg.Sync.TransactionCount,
	})

	return &Dependencies{
		Firebase:    fb,
		LinkHandler: httphandlers.NewLinkHandler(linkService),
		Verifier:    fb,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Firebase != nil {
		if err := d.Firebase.Close(); err != nil {
			log.Printf("Error closing Firebase client: %v", err)
		}
	}
}
