package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Plaid     PlaidConfig
	Firebase  FirebaseConfig
	Sync      SyncConfig
	TLS       TLSConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type PlaidConfig struct {
	Environment string // sandbox, development, production
	ClientID    string
	Secret      string
	ClientName  string
	WebhookURL  string
}

type FirebaseConfig struct {
	CredentialsFile string
	ProjectID       string
}

type SyncConfig struct {
	TransactionDays  int
	TransactionCount int
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

var plaidEnvironments = map[string]struct{}{
	"sandbox":     {},
	"development": {},
	"production":  {},
}

func Load() (*Config, error) {

	txnDays, err := strconv.Atoi(getEnv("SYNC_TRANSACTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_TRANSACTION_DAYS: %w", err)
	}
	txnCount, err := strconv.Atoi(getEnv("SYNC_TRANSACTION_COUNT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_TRANSACTION_COUNT: %w", err)
	}

	// Parse TLS configuration
	tlsEnabled := getBoolEnv("TLS_ENABLED", false)
	tlsCertPath := getEnv("TLS_CERT_PATH", "")
	tlsKeyPath := getEnv("TLS_KEY_PATH", "")
	tlsRedirectHTTP := getBoolEnv("TLS_REDIRECT_HTTP", false)

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Plaid: PlaidConfig{
			Environment: getEnv("PLAID_ENV", "sandbox"),
			ClientID:    getEnv("PLAID_CLIENT_ID", ""),
			Secret:      getEnv("PLAID_SECRET", ""),
			ClientName:  getEnv("PLAID_CLIENT_NAME", "iOS Demo"),
			WebhookURL:  getEnv("PLAID_WEBHOOK_URL", "https://sample-webhook-uri.com"),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json"),
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
		},
		Sync: SyncConfig{
			TransactionDays:  txnDays,
			TransactionCount: txnCount,
		},
		TLS: TLSConfig{
			Enabled:      tlsEnabled,
			CertPath:     tlsCertPath,
			KeyPath:      tlsKeyPath,
			RedirectHTTP: tlsRedirectHTTP,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finlink-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.Plaid.ClientID == "" {
		return nil, fmt.Errorf("PLAID_CLIENT_ID is required")
	}
	if cfg.Plaid.Secret == "" {
		return nil, fmt.Errorf("PLAID_SECRET is required")
	}
	if _, ok := plaidEnvironments[cfg.Plaid.Environment]; !ok {
		return nil, fmt.Errorf("invalid PLAID_ENV %q (want sandbox, development or production)", cfg.Plaid.Environment)
	}
	if cfg.Sync.TransactionDays <= 0 {
		return nil, fmt.Errorf("SYNC_TRANSACTION_DAYS must be positive")
	}
	if cfg.Sync.TransactionCount <= 0 {
		return nil, fmt.Errorf("SYNC_TRANSACTION_COUNT must be positive")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
