// Copyright 2025 Certen Protocol

package cardano

import "context"

// FakeCardanoObserver is a deterministic CardanoObserver test double, used
// by dependency-builder tests and wherever no real Cardano node connection
// is required.
type FakeCardanoObserver struct {
	Epoch      uint64
	Stake      map[string]uint64
	ChainPoint ChainPoint
}

// NewFakeCardanoObserver returns a FakeCardanoObserver with empty state.
func NewFakeCardanoObserver() *FakeCardanoObserver {
	return &FakeCardanoObserver{Stake: make(map[string]uint64)}
}

func (f *FakeCardanoObserver) CurrentEpoch(ctx context.Context) (uint64, bool, error) {
	return f.Epoch, true, nil
}

func (f *FakeCardanoObserver) CurrentStakeDistribution(ctx context.Context) (map[string]uint64, bool, error) {
	return f.Stake, true, nil
}

func (f *FakeCardanoObserver) CurrentChainPoint(ctx context.Context) (ChainPoint, bool, error) {
	return f.ChainPoint, true, nil
}
