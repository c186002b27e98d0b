// Copyright 2025 Certen Protocol
//
// Package signable assembles the protocol.Message each chain's signers
// actually sign over, for a given epoch.

package signable

import (
	"context"

	"github.com/certen/independant-validator/pkg/chain"
	"github.com/certen/independant-validator/pkg/protocol"
)

// Builder computes the protocol message to sign for an epoch.
type Builder interface {
	Compute(ctx context.Context, epoch chain.Epoch) (*protocol.Message, error)
}
