// Copyright 2025 Certen Protocol

package chain

import (
	"context"
	"time"
)

// FakeObserver is a deterministic, in-memory Observer used by tests and by
// the dependency builder when no real chain observer is configured for a
// chain the aggregator still needs to answer queries about.
type FakeObserver struct {
	id          ChainID
	epoch       uint64
	stake       StakeDistribution
	commitment  StateCommitment
	activeStake map[ValidatorID]bool
}

// NewFakeObserver returns a FakeObserver reporting epoch 0 and an empty
// stake distribution until seeded.
func NewFakeObserver(id ChainID) *FakeObserver {
	return &FakeObserver{
		id:          id,
		stake:       NewStakeDistribution(0),
		activeStake: make(map[ValidatorID]bool),
	}
}

// SetEpoch sets the epoch CurrentEpoch reports.
func (f *FakeObserver) SetEpoch(epoch uint64) { f.epoch = epoch }

// SetStakeDistribution seeds the distribution returned for any epoch.
func (f *FakeObserver) SetStakeDistribution(d StakeDistribution) {
	f.stake = d
	f.activeStake = make(map[ValidatorID]bool, len(d.Validators))
	for id := range d.Validators {
		f.activeStake[id] = true
	}
}

// SetCommitment seeds the commitment returned for any epoch.
func (f *FakeObserver) SetCommitment(c StateCommitment) { f.commitment = c }

func (f *FakeObserver) ChainID() ChainID { return f.id }

func (f *FakeObserver) CurrentEpoch(ctx context.Context) (EpochInfo, error) {
	return EpochInfo{ChainID: f.id, EpochNumber: f.epoch, StartTime: time.Unix(0, 0)}, nil
}

func (f *FakeObserver) StakeDistribution(ctx context.Context, epoch uint64) (StakeDistribution, error) {
	return f.stake, nil
}

func (f *FakeObserver) StateCommitment(ctx context.Context, epoch uint64) (StateCommitment, error) {
	return f.commitment, nil
}

func (f *FakeObserver) IsValidatorActive(ctx context.Context, id ValidatorID, epoch uint64) (bool, error) {
	return f.activeStake[id], nil
}

func (f *FakeObserver) Metadata() map[string]string {
	return map[string]string{"kind": "fake", "chain_id": string(f.id)}
}
