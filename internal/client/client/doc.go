// Package client contains the client-side building blocks that talk to a
// remote document collection and bootstrap local persistence.
//
// # Overview
//
// The package provides:
//  1. RemoteStore, a transport-agnostic capability for a live document
//     collection: Subscribe (full snapshots), Insert and Delete.
//  2. Two implementations: GRPCStore, a client of the registo document
//     server, and FirestoreStore, backed by Google Cloud Firestore.
//  3. Open, which turns configuration into a RemoteStore, or nil when no
//     usable remote backend is configured.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures are mapped to sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrIndexRequired,
// ErrSubscriptionClosed and common.ErrorNotFound.
package client
