// Package common defines shared constants and sentinel errors used across
// the FieldSync layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("local store unavailable")
	ErrEncoding         = errors.New("payload not serializable")
	ErrInvalidTTL       = errors.New("ttl must be a positive duration")

	// Network-level errors.
	ErrOffline         = errors.New("no network connectivity")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRemote          = errors.New("remote error")

	// Outbox errors.
	ErrDrainInProgress = errors.New("outbox drain already in progress")
)
