// Package repository implements data access against SurrealDB.
//
// Repositories hold a database.Database, issue raw SurrealQL with $var
// parameters, and convert the driver's map results into model types.
// Mutations that must be atomic with their denormalized counter updates
// use a single transaction script or an AtomicBatch; nothing in this
// package performs read-check-write sequences in Go.
//
// Activity listings go through a small query planner: a single native
// constraint (plus its sort) is pushed to the store, anything richer is
// fetched broadly and handed to the service layer for client-side
// filtering and sorting. This avoids depending on composite indexes the
// deployment does not guarantee.
package repository
