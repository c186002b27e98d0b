// Copyright 2025 Certen Protocol
//
// Observer implements chain.Observer against an Ethereum Beacon Node:
// epoch/slot arithmetic, stake distribution from active validators, and a
// state commitment taken from the finalized epoch's last slot's execution
// payload.

package ethereum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/certen/independant-validator/pkg/chain"
	"github.com/certen/independant-validator/pkg/chain/ethereum/beacon"
)

const (
	SlotsPerEpoch                      = 32
	SecondsPerSlot                     = 12
	FinalityMarginEpochs               = 2
	DefaultCertificationIntervalEpochs = 675
)

// ErrNoExecutionPayload is returned when a finalized block has no execution
// payload (pre-Merge), so no state commitment can be computed for an epoch.
var ErrNoExecutionPayload = fmt.Errorf("ethereum: finalized block has no execution payload")

// ErrInvalidEpoch is returned for an epoch argument that cannot be resolved
// against the beacon chain.
var ErrInvalidEpoch = fmt.Errorf("ethereum: invalid epoch")

// Observer observes an Ethereum beacon chain.
type Observer struct {
	chainID                     chain.ChainID
	beaconClient                *beacon.Client
	certificationIntervalEpochs uint64
}

// NewObserver constructs an Observer for the given network name
// ("mainnet", "holesky", "sepolia"), backed by beaconClient.
func NewObserver(network string, beaconClient *beacon.Client) *Observer {
	return &Observer{
		chainID:                     chain.ChainID("ethereum-" + network),
		beaconClient:                beaconClient,
		certificationIntervalEpochs: DefaultCertificationIntervalEpochs,
	}
}

// WithCertificationIntervalEpochs overrides the default certification
// interval (mostly useful for tests).
func (o *Observer) WithCertificationIntervalEpochs(interval uint64) *Observer {
	o.certificationIntervalEpochs = interval
	return o
}

func (o *Observer) ChainID() chain.ChainID { return o.chainID }

// CertificationEpoch rounds currentEpoch down to the nearest multiple of the
// certification interval, after subtracting the finality margin. Matches:
// ((current_epoch - 2) / interval) * interval, saturating at zero.
func (o *Observer) CertificationEpoch(currentEpoch uint64) uint64 {
	return CalculateCertificationEpoch(currentEpoch, o.certificationIntervalEpochs)
}

// CalculateCertificationEpoch is the free-function form of
// Observer.CertificationEpoch, usable without a live observer.
func CalculateCertificationEpoch(currentEpoch, intervalEpochs uint64) uint64 {
	if intervalEpochs == 0 {
		intervalEpochs = DefaultCertificationIntervalEpochs
	}
	var finalized uint64
	if currentEpoch > FinalityMarginEpochs {
		finalized = currentEpoch - FinalityMarginEpochs
	}
	return (finalized / intervalEpochs) * intervalEpochs
}

func (o *Observer) CurrentEpoch(ctx context.Context) (chain.EpochInfo, error) {
	slot, err := o.beaconClient.CurrentSlot(ctx)
	if err != nil {
		return chain.EpochInfo{}, chain.NewObserverError(o.chainID, chain.KindEpochQuery, err)
	}
	genesisTime, err := o.beaconClient.GenesisTime(ctx)
	if err != nil {
		return chain.EpochInfo{}, chain.NewObserverError(o.chainID, chain.KindEpochQuery, err)
	}

	epoch := slot / SlotsPerEpoch
	start := time.Unix(genesisTime, 0).Add(time.Duration(epoch*SlotsPerEpoch*SecondsPerSlot) * time.Second)

	return chain.EpochInfo{
		ChainID:     o.chainID,
		EpochNumber: epoch,
		StartTime:   start,
		EndTime:     nil,
	}, nil
}

func (o *Observer) StakeDistribution(ctx context.Context, epoch uint64) (chain.StakeDistribution, error) {
	validators, err := o.beaconClient.ValidatorsByEpoch(ctx, epoch)
	if err != nil {
		return chain.StakeDistribution{}, chain.NewObserverError(o.chainID, chain.KindStakeDistribution, err)
	}

	dist := chain.NewStakeDistribution(epoch)
	for _, v := range validators {
		if !v.Status.IsActive() {
			continue
		}
		stake, err := v.EffectiveBalanceGwei()
		if err != nil {
			return chain.StakeDistribution{}, chain.NewObserverError(o.chainID, chain.KindStakeDistribution, err)
		}
		dist.AddValidator(chain.ValidatorID(v.Validator.Pubkey), stake)
	}

	return dist, nil
}

func (o *Observer) StateCommitment(ctx context.Context, epoch uint64) (chain.StateCommitment, error) {
	lastSlot := (epoch+1)*SlotsPerEpoch - 1

	block, err := o.beaconClient.BlockBySlot(ctx, lastSlot)
	if err != nil {
		return chain.StateCommitment{}, chain.NewObserverError(o.chainID, chain.KindStateCommitment, err)
	}

	payload := block.Message.Body.ExecutionPayload
	if payload == nil {
		return chain.StateCommitment{}, chain.NewObserverError(o.chainID, chain.KindStateCommitment, ErrNoExecutionPayload)
	}

	stateRoot, err := payload.StateRootBytes()
	if err != nil {
		return chain.StateCommitment{}, chain.NewObserverError(o.chainID, chain.KindStateCommitment, err)
	}
	blockNumber, err := payload.BlockNumberU64()
	if err != nil {
		return chain.StateCommitment{}, chain.NewObserverError(o.chainID, chain.KindStateCommitment, err)
	}

	return chain.StateCommitment{
		ChainID:        o.chainID,
		Epoch:          epoch,
		CommitmentType: chain.CommitmentStateRoot,
		Value:          stateRoot,
		BlockNumber:    blockNumber,
		Metadata: map[string]string{
			"slot":        fmtUint(lastSlot),
			"block_hash":  payload.BlockHash,
			"beacon_root": block.Message.StateRoot,
			"parent_hash": payload.ParentHash,
		},
	}, nil
}

func (o *Observer) IsValidatorActive(ctx context.Context, id chain.ValidatorID, epoch uint64) (bool, error) {
	info, err := o.beaconClient.ValidatorByPubkey(ctx, string(id), epoch)
	if err != nil {
		if errors.Is(err, beacon.ErrNotFound) {
			return false, chain.NewObserverError(o.chainID, chain.KindValidatorNotFound, err)
		}
		return false, chain.NewObserverError(o.chainID, chain.KindChainSpecific, err)
	}
	return info.Status.IsActive(), nil
}

func (o *Observer) Metadata() map[string]string {
	return map[string]string{
		"kind":                          "ethereum",
		"chain_id":                      string(o.chainID),
		"certification_interval_epochs": fmtUint(o.certificationIntervalEpochs),
	}
}
