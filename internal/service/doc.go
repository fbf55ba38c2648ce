// Package service implements the business logic layer for the festival API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Listing Pipeline
//
// List operations share one pipeline in query.go: the repository pushes at
// most one filter and the sort server-side; everything it did not push is
// applied here, in a fixed order (search, filter, sort, paginate). The
// returned page totals always describe the filtered set, never the raw
// fetch, so the same query yields the same totals on every page.
package service
