// Package handler provides HTTP request handlers for the festival API.
//
// The handler package contains all HTTP endpoint implementations organized by
// domain. Each handler struct encapsulates the dependencies needed to serve
// requests for a specific feature area (activities, registrations, uploads, etc.).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts a config struct with dependencies
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Paginated list of resources
//   - WritePage: Paginated list with page metadata
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Staff handlers require authentication via JWT tokens. The auth middleware
// validates the token and makes the account ID available via
// middleware.GetAccountID(r). Public handlers (activity browsing, registration,
// tracking-code lookup) require no token.
//
// # Example Usage
//
//	handler := NewActivityHandler(ActivityHandlerConfig{
//	    Activities: activityService,
//	})
//	mux.HandleFunc("GET /v1/admin/activities", handler.List)
//	mux.HandleFunc("POST /v1/admin/activities", handler.Create)
package handler
