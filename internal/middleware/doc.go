// Package middleware provides HTTP middleware for the festival API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: admin token validation and claims extraction
//   - RequireRole: role gate, runs after Auth
//   - RateLimit: request rate limiting per account/IP
//   - RequestID, Logger, Recovery, CORS, Compress
//
// # Authentication
//
// Auth validates the bearer token and puts the claims in the request
// context. Handlers read them via helpers:
//
//	accountID := middleware.GetAccountID(r.Context())
//	role := middleware.GetRole(r.Context())
//
// Role gates compose with the model's capability checks:
//
//	middleware.RequireRole(model.CanManageContent)
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetAccountID(ctx): Returns authenticated account ID
//   - GetRole(ctx): Returns the caller's role
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
