// Copyright 2025 Certen Protocol
//
// Sentinel errors for repository operations: explicit errors instead of
// nil, nil returns.

package database

import "errors"

// Sentinel errors for database operations.
var (
	// ErrNotFound is returned when a requested entity is not found in the database.
	ErrNotFound = errors.New("entity not found")

	// ErrCertificateNotFound is returned when a certificate is not found.
	ErrCertificateNotFound = errors.New("certificate not found")

	// ErrOpenMessageNotFound is returned when an open message is not found.
	ErrOpenMessageNotFound = errors.New("open message not found")

	// ErrAlreadyCertified is returned when a single signature is registered
	// against an open message that has already been certified.
	ErrAlreadyCertified = errors.New("open message already certified")

	// ErrExpired is returned when a single signature is registered against
	// an open message that has expired.
	ErrExpired = errors.New("open message expired")

	// ErrChainTypeMismatch is returned when a certificate names a parent
	// from a different chain.
	ErrChainTypeMismatch = errors.New("parent certificate belongs to a different chain")
)
