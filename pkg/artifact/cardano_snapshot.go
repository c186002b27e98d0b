// Copyright 2025 Certen Protocol
//
// CardanoSnapshot is the certified artifact for a Cardano epoch's immutable
// file set, the chain-specific counterpart to EthereumStateRoot.

package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// CardanoSnapshot is the per-epoch Cardano immutable-files artifact.
type CardanoSnapshot struct {
	Epoch               uint64    `json:"epoch"`
	ImmutableFileDigest string    `json:"immutable_file_digest"`
	Hash                string    `json:"hash"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewCardanoSnapshot builds a CardanoSnapshot and computes its hash.
func NewCardanoSnapshot(epoch uint64, immutableFileDigest string) CardanoSnapshot {
	h := sha256.New()
	h.Write([]byte(strconv.FormatUint(epoch, 10)))
	h.Write([]byte(immutableFileDigest))
	return CardanoSnapshot{
		Epoch:               epoch,
		ImmutableFileDigest: immutableFileDigest,
		Hash:                hex.EncodeToString(h.Sum(nil)),
		CreatedAt:           time.Now(),
	}
}

// CardanoSnapshotData is what a CardanoSnapshotRetriever returns for one epoch.
type CardanoSnapshotData struct {
	ImmutableFileDigest string
}

// CardanoSnapshotRetriever resolves the raw snapshot data for an epoch.
type CardanoSnapshotRetriever interface {
	Retrieve(epoch uint64) (*CardanoSnapshotData, error)
}

// CardanoBuilder is the Builder for Cardano snapshot artifacts.
type CardanoBuilder struct {
	retriever CardanoSnapshotRetriever
}

// NewCardanoBuilder constructs a CardanoBuilder.
func NewCardanoBuilder(retriever CardanoSnapshotRetriever) *CardanoBuilder {
	return &CardanoBuilder{retriever: retriever}
}

// ComputeArtifact computes the snapshot artifact for epoch.
func (b *CardanoBuilder) ComputeArtifact(epoch uint64, certificate any) (CardanoSnapshot, error) {
	data, err := b.retriever.Retrieve(epoch)
	if err != nil {
		return CardanoSnapshot{}, err
	}
	if data == nil {
		return CardanoSnapshot{}, fmt.Errorf("no Cardano snapshot found for epoch '%d'", epoch)
	}
	return NewCardanoSnapshot(epoch, data.ImmutableFileDigest), nil
}
