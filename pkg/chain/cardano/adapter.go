// Copyright 2025 Certen Protocol
//
// Adapter wraps an external Cardano chain observer collaborator into the
// universal chain.Observer interface. It does not talk to a Cardano node
// directly — CardanoObserver is provided by the embedding application.

package cardano

import (
	"context"
	"fmt"

	"github.com/certen/independant-validator/pkg/chain"
)

// ChainPoint identifies a point on the Cardano chain.
type ChainPoint struct {
	Slot        uint64
	BlockNumber uint64
	BlockHash   string
}

// CardanoObserver is the external collaborator this adapter wraps. A real
// implementation talks to a cardano-node; FakeCardanoObserver is a
// deterministic test double.
type CardanoObserver interface {
	CurrentEpoch(ctx context.Context) (epoch uint64, ok bool, err error)
	CurrentStakeDistribution(ctx context.Context) (stake map[string]uint64, ok bool, err error)
	CurrentChainPoint(ctx context.Context) (point ChainPoint, ok bool, err error)
}

// Adapter implements chain.Observer over a CardanoObserver.
type Adapter struct {
	chainID  chain.ChainID
	observer CardanoObserver
}

// NewAdapter builds an Adapter for the given network name (e.g. "mainnet"),
// chain_id = "cardano-{network}".
func NewAdapter(network string, observer CardanoObserver) *Adapter {
	return &Adapter{chainID: chain.ChainID("cardano-" + network), observer: observer}
}

func (a *Adapter) ChainID() chain.ChainID { return a.chainID }

// CurrentEpoch reports StartTime as the zero time: the underlying
// CardanoObserver does not expose slot-to-wallclock conversion, and this
// adapter does not attempt to derive one.
func (a *Adapter) CurrentEpoch(ctx context.Context) (chain.EpochInfo, error) {
	epoch, ok, err := a.observer.CurrentEpoch(ctx)
	if err != nil {
		return chain.EpochInfo{}, chain.NewObserverError(a.chainID, chain.KindEpochQuery, err)
	}
	if !ok {
		return chain.EpochInfo{}, chain.NewObserverError(a.chainID, chain.KindEpochQuery, fmt.Errorf("no epoch available"))
	}
	return chain.EpochInfo{ChainID: a.chainID, EpochNumber: epoch}, nil
}

// StakeDistribution ignores the requested epoch and returns the underlying
// observer's *current* stake distribution. Historical accuracy for past
// epochs is left entirely to the underlying chain observer.
func (a *Adapter) StakeDistribution(ctx context.Context, epoch uint64) (chain.StakeDistribution, error) {
	stake, ok, err := a.observer.CurrentStakeDistribution(ctx)
	if err != nil {
		return chain.StakeDistribution{}, chain.NewObserverError(a.chainID, chain.KindStakeDistribution, err)
	}
	if !ok {
		return chain.StakeDistribution{}, chain.NewObserverError(a.chainID, chain.KindStakeDistribution, fmt.Errorf("no stake distribution available"))
	}

	dist := chain.NewStakeDistribution(epoch)
	for id, s := range stake {
		dist.AddValidator(chain.ValidatorID(id), s)
	}
	return dist, nil
}

// StateCommitment returns a placeholder ImmutableFileSet commitment built
// from the current chain point. Computing the real immutable-file digest is
// delegated to an ImmutableDigester collaborator this adapter does not
// implement.
func (a *Adapter) StateCommitment(ctx context.Context, epoch uint64) (chain.StateCommitment, error) {
	point, ok, err := a.observer.CurrentChainPoint(ctx)
	if err != nil {
		return chain.StateCommitment{}, chain.NewObserverError(a.chainID, chain.KindStateCommitment, err)
	}
	if !ok {
		return chain.StateCommitment{}, chain.NewObserverError(a.chainID, chain.KindStateCommitment, fmt.Errorf("no chain point available"))
	}

	return chain.StateCommitment{
		ChainID:        a.chainID,
		Epoch:          epoch,
		CommitmentType: chain.CommitmentImmutableFileSet,
		Value:          []byte(fmt.Sprintf("%+v", point)),
		BlockNumber:    point.BlockNumber,
		Metadata: map[string]string{
			"slot":       fmtUint(point.Slot),
			"block_hash": point.BlockHash,
		},
	}, nil
}

func (a *Adapter) IsValidatorActive(ctx context.Context, id chain.ValidatorID, epoch uint64) (bool, error) {
	stake, ok, err := a.observer.CurrentStakeDistribution(ctx)
	if err != nil {
		return false, chain.NewObserverError(a.chainID, chain.KindChainSpecific, err)
	}
	if !ok {
		return false, nil
	}
	_, active := stake[string(id)]
	return active, nil
}

func (a *Adapter) Metadata() map[string]string {
	return map[string]string{"kind": "cardano", "chain_id": string(a.chainID)}
}

// ImmutableDigester would compute the real immutable-file digest for a
// Cardano chain point; no implementation ships with this core.
type ImmutableDigester interface {
	Digest(ctx context.Context, point ChainPoint) ([]byte, error)
}
