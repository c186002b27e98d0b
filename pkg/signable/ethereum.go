// Copyright 2025 Certen Protocol
//
// EthereumBuilder assembles the protocol message parts for an Ethereum
// epoch's state root, in a fixed order: epoch, state root, beacon block
// number.

package signable

import (
	"context"
	"fmt"
	"strconv"

	"github.com/certen/independant-validator/pkg/chain"
	"github.com/certen/independant-validator/pkg/protocol"
)

// StateRootRetriever resolves an Ethereum epoch's state-root data. Returning
// nil, nil means no data is available yet for that epoch.
type StateRootRetriever interface {
	Retrieve(ctx context.Context, epoch uint64) (*StateRootData, error)
}

// StateRootData is the raw data EthereumBuilder assembles into a message.
type StateRootData struct {
	StateRootHex string
	BlockNumber  uint64
}

// EthereumBuilder implements Builder for Ethereum epochs.
type EthereumBuilder struct {
	retriever StateRootRetriever
}

// NewEthereumBuilder constructs an EthereumBuilder.
func NewEthereumBuilder(retriever StateRootRetriever) *EthereumBuilder {
	return &EthereumBuilder{retriever: retriever}
}

func (b *EthereumBuilder) Compute(ctx context.Context, epoch chain.Epoch) (*protocol.Message, error) {
	data, err := b.retriever.Retrieve(ctx, uint64(epoch))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("no Ethereum state root data available for epoch %d", epoch)
	}

	msg := protocol.NewMessage()
	msg.Set(protocol.PartEthereumEpoch, strconv.FormatUint(uint64(epoch), 10))
	msg.Set(protocol.PartEthereumStateRoot, data.StateRootHex)
	msg.Set(protocol.PartEthereumBeaconBlockNumber, strconv.FormatUint(data.BlockNumber, 10))
	return msg, nil
}

// UniversalStateRootRetriever bridges any chain.Observer into a
// StateRootRetriever, returning nil, nil for a future epoch rather than an
// error.
type UniversalStateRootRetriever struct {
	observer chain.Observer
}

// NewUniversalStateRootRetriever wraps observer.
func NewUniversalStateRootRetriever(observer chain.Observer) *UniversalStateRootRetriever {
	return &UniversalStateRootRetriever{observer: observer}
}

func (r *UniversalStateRootRetriever) Retrieve(ctx context.Context, epoch uint64) (*StateRootData, error) {
	current, err := r.observer.CurrentEpoch(ctx)
	if err != nil {
		return nil, err
	}
	if epoch > current.EpochNumber {
		return nil, nil
	}

	commitment, err := r.observer.StateCommitment(ctx, epoch)
	if err != nil {
		return nil, err
	}

	return &StateRootData{
		StateRootHex: commitment.ValueHex(),
		BlockNumber:  commitment.BlockNumber,
	}, nil
}
