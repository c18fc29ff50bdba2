package main

import (
	"log"
	"net/http"

	httphandlers "finlink/internal/interfaces/http"
	"finlink/internal/shared/config"
	"finlink/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// All /server routes require an authenticated user
	authMiddleware := middleware.Auth(deps.Verifier)

	mux.Handle("/server/get_user_info", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleUserInfo)))
	mux.Handle("/server/generate_link_token", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleGenerateLinkToken)))
	mux.Handle("/server/swap_public_token", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleSwapPublicToken)))
	mux.Handle("/server/simple_auth", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleSimpleAuth)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(mux))

	// Apply telemetry middleware when enabled
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
