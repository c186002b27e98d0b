// Copyright 2025 Certen Protocol
//
// Package chain defines the universal chain-observer abstraction that every
// supported proof-of-stake chain (Cardano, Ethereum, ...) implements. Stake
// aggregation and signature certification operate only against this
// interface, never against a chain-specific client directly.

package chain

import (
	"context"
	"encoding/hex"
	"time"
)

// ChainID identifies a chain instance, e.g. "cardano-mainnet" or
// "ethereum-mainnet".
type ChainID string

func (c ChainID) String() string { return string(c) }

// Epoch is a chain-native epoch number.
type Epoch uint64

// EpochInfo describes one epoch of a chain.
type EpochInfo struct {
	ChainID     ChainID
	EpochNumber uint64
	StartTime   time.Time
	// EndTime is nil while the epoch is still ongoing.
	EndTime *time.Time
}

// ValidatorID identifies a validator/signer within a chain's stake
// distribution. Its concrete form is chain-specific (a pool ID for Cardano,
// a validator public key for Ethereum).
type ValidatorID string

// StakeDistribution is the per-validator stake weighting for one epoch.
type StakeDistribution struct {
	Epoch      uint64
	Validators map[ValidatorID]uint64
	TotalStake uint64
}

// NewStakeDistribution returns an empty distribution for the given epoch.
func NewStakeDistribution(epoch uint64) StakeDistribution {
	return StakeDistribution{Epoch: epoch, Validators: make(map[ValidatorID]uint64)}
}

// AddValidator adds a validator's stake, keeping TotalStake consistent.
func (s *StakeDistribution) AddValidator(id ValidatorID, stake uint64) {
	if s.Validators == nil {
		s.Validators = make(map[ValidatorID]uint64)
	}
	s.Validators[id] = stake
	s.TotalStake += stake
}

// ValidatorCount returns the number of validators in the distribution.
func (s StakeDistribution) ValidatorCount() int {
	return len(s.Validators)
}

// GetStake returns the stake for a validator and whether it was present.
func (s StakeDistribution) GetStake(id ValidatorID) (uint64, bool) {
	stake, ok := s.Validators[id]
	return stake, ok
}

// CommitmentType is a closed tag naming what a StateCommitment's Value
// actually represents.
type CommitmentType string

const (
	CommitmentStateRoot        CommitmentType = "StateRoot"
	CommitmentAccountsHash     CommitmentType = "AccountsHash"
	CommitmentImmutableFileSet CommitmentType = "ImmutableFileSet"
	CommitmentParachainHead    CommitmentType = "ParachainHead"
)

// CustomCommitment builds a CommitmentType for a chain-specific tag not
// covered by the closed set above.
func CustomCommitment(name string) CommitmentType {
	return CommitmentType("Custom:" + name)
}

// StateCommitment is the chain-observed state snapshot certified for one
// epoch.
type StateCommitment struct {
	ChainID        ChainID
	Epoch          uint64
	CommitmentType CommitmentType
	Value          []byte
	BlockNumber    uint64
	Metadata       map[string]string
}

// ValueHex returns Value hex-encoded with a 0x prefix.
func (c StateCommitment) ValueHex() string {
	return "0x" + hex.EncodeToString(c.Value)
}

// Observer is the universal chain-observer interface. Each supported chain
// provides one implementation; certification logic depends only on this.
type Observer interface {
	ChainID() ChainID
	CurrentEpoch(ctx context.Context) (EpochInfo, error)
	StakeDistribution(ctx context.Context, epoch uint64) (StakeDistribution, error)
	StateCommitment(ctx context.Context, epoch uint64) (StateCommitment, error)
	IsValidatorActive(ctx context.Context, id ValidatorID, epoch uint64) (bool, error)
	Metadata() map[string]string
}
