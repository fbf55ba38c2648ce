// Package database provides the database abstraction layer for the
// festival API.
//
// The Database interface abstracts SurrealDB operations so repositories
// stay independent of the driver:
//   - Query: returns multiple results (SELECT queries returning lists)
//   - QueryOne: returns a single result (SELECT by ID)
//   - Execute: no return value (CREATE/UPDATE/DELETE mutations)
//
// # Transactions
//
// Transactions here are SCRIPT-BASED: multi-statement SurrealQL wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION and executed in one round trip.
// Scripts may THROW a reason string; the reason survives into the returned
// error text so repositories can map it to a typed failure (see
// ThrowReason). The store retries conflicting concurrent writes
// internally, so a committed script is an atomic read-check-write.
//
// Use AtomicBatch (transaction.go) for mutations that must succeed
// together, such as a registration insert plus its parent counter update.
//
// # Errors
//
// Standard errors for common failure cases, checked with errors.Is:
//   - ErrNotFound: record does not exist
//   - ErrDuplicate: unique constraint violation
//   - ErrConnection: connection issues
//   - ErrQuery: query execution failures
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
