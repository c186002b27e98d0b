// Copyright 2025 Certen Protocol
//
// CardanoBuilder assembles the protocol message parts for a Cardano epoch's
// immutable file set.

package signable

import (
	"context"
	"fmt"
	"strconv"

	"github.com/certen/independant-validator/pkg/chain"
	"github.com/certen/independant-validator/pkg/protocol"
)

// ImmutableDigestRetriever resolves a Cardano epoch's immutable-file digest.
type ImmutableDigestRetriever interface {
	Retrieve(ctx context.Context, epoch uint64) (digestHex string, ok bool, err error)
}

// CardanoBuilder implements Builder for Cardano epochs.
type CardanoBuilder struct {
	retriever ImmutableDigestRetriever
}

// NewCardanoBuilder constructs a CardanoBuilder.
func NewCardanoBuilder(retriever ImmutableDigestRetriever) *CardanoBuilder {
	return &CardanoBuilder{retriever: retriever}
}

func (b *CardanoBuilder) Compute(ctx context.Context, epoch chain.Epoch) (*protocol.Message, error) {
	digest, ok, err := b.retriever.Retrieve(ctx, uint64(epoch))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no Cardano immutable file digest available for epoch %d", epoch)
	}

	msg := protocol.NewMessage()
	msg.Set(protocol.PartCardanoEpoch, strconv.FormatUint(uint64(epoch), 10))
	msg.Set(protocol.PartCardanoImmutableFileDigest, digest)
	return msg, nil
}

// UniversalImmutableDigestRetriever bridges any chain.Observer into an
// ImmutableDigestRetriever, mirroring UniversalStateRootRetriever's future
// epoch handling: a future epoch reports ok=false rather than an error.
type UniversalImmutableDigestRetriever struct {
	observer chain.Observer
}

// NewUniversalImmutableDigestRetriever wraps observer.
func NewUniversalImmutableDigestRetriever(observer chain.Observer) *UniversalImmutableDigestRetriever {
	return &UniversalImmutableDigestRetriever{observer: observer}
}

func (r *UniversalImmutableDigestRetriever) Retrieve(ctx context.Context, epoch uint64) (string, bool, error) {
	current, err := r.observer.CurrentEpoch(ctx)
	if err != nil {
		return "", false, err
	}
	if epoch > current.EpochNumber {
		return "", false, nil
	}

	commitment, err := r.observer.StateCommitment(ctx, epoch)
	if err != nil {
		return "", false, err
	}

	return commitment.ValueHex(), true, nil
}
