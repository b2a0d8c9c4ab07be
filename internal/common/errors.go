// Package common defines shared constants and sentinel errors used across
// the POS client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured marks a missing remote identifier (ledger or catalog
	// id). It is permanent: retrying without operator intervention never
	// succeeds. The message contains "not found" so locally detected and
	// remotely reported configuration errors classify the same way.
	ErrNotConfigured = errors.New("not found: remote identifier is not configured")

	// ErrOffline is returned by manual sync attempts while disconnected.
	ErrOffline = errors.New("offline")

	// ErrInternal is a generic service-level failure.
	ErrInternal = errors.New("internal error")
)
