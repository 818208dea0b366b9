// Package credstore provides the enrollment.Store implementations: a
// Postgres store for production, whose partial unique index enforces the
// one-active-credential-per-user invariant across service instances, and an
// in-memory store with the same conflict semantics for tests and local
// development. The Postgres store optionally encrypts secrets at rest with
// AES-256-GCM.
package credstore
