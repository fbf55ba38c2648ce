// Package model defines the domain types for the festival content
// management API.
//
// All entities are document-shaped: they are stored in SurrealDB without
// relational constraints, and partial updates only ever touch the fields
// a caller explicitly provides. Enumerations are plain string constants,
// matching how they are stored.
//
// Errors returned to HTTP clients use RFC 9457 Problem Details (see
// errors.go) with a closed ErrorCode enum; services never surface raw
// database error text.
package model
