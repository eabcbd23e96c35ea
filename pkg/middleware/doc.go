// Package middleware provides HTTP middleware for authentication and rate limiting.
//
// # Overview
//
// This package implements API key authentication backed by a hot-reloaded
// key file, and per-client token bucket rate limiting.
//
// # Middleware Components
//
// ApiKeyMiddleware: key file authentication
//
//	keyring, _ := middleware.LoadKeyring("/etc/depot/api_keys", logger)
//	keyring.Watch() // pick up key file edits without a restart
//	router.Use(middleware.ApiKeyMiddleware(keyring, false))
//	// Validates "Authorization: ApiKey <username>:<key>" headers
//
// The key file holds one "username:key" credential per line; blank lines
// and '#' comments are ignored.
//
// RateLimiter: in-memory token bucket rate limiting
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
//	router.Use(limiter.Middleware)
//
// Clients are keyed by authenticated username, falling back to remote IP.
//
// # Related Packages
//
//   - pkg/httputil: error response helpers
//   - pkg/observability: request context accessors
package middleware
