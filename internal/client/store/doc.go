// Package store is the on-device key-value storage of the client.
//
// Values live in a local SQLite database (modernc.org/sqlite, schema applied
// with goose) and are sealed with AES-GCM under a per-device key, standing
// in for the platform secure store. Only the fixed keys declared in
// internal/common are accepted.
//
// TokenStore layers the session semantics on top: the access/refresh pair is
// written in one transaction, so readers never observe a half-rotated pair.
package store
