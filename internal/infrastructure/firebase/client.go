package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Client bundles the Firebase Admin services the backend depends on:
// ID-token verification and the Firestore document store.
type Client struct {
	authClient *auth.Client
	firestore  *firestore.Client
}

// NewClient initializes a Firebase app from a service-account
// credentials file and returns Auth and Firestore clients.
// projectID may be empty when the credentials file carries it.
func NewClient(ctx context.Context, credentialsFile, projectID string) (*Client, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return &Client{authClient: authClient, firestore: fsClient}, nil
}

// VerifyIDToken validates a Firebase ID token and returns the stable
// user id it is bound to.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := c.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("invalid authentication token: %w", err)
	}
	return token.UID, nil
}

// Firestore returns the shared Firestore client handle.
func (c *Client) Firestore() *firestore.Client {
	return c.firestore
}

// Close releases the underlying Firestore connection.
func (c *Client) Close() error {
	return c.firestore.Close()
}
