// Copyright 2025 Certen Protocol
//
// EthereumStateRoot is the certified artifact clients download for an
// Ethereum epoch. Hash is
// hex(SHA256(ascii(epoch) || state_root || ascii(block_number))), with no
// "0x" prefix on the resulting hash string.

package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// EthereumStateRoot is the per-epoch Ethereum state-root artifact.
type EthereumStateRoot struct {
	Epoch       uint64    `json:"epoch"`
	StateRoot   string    `json:"state_root"`
	BlockNumber uint64    `json:"block_number"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEthereumStateRoot builds an EthereumStateRoot and computes its hash
// immediately.
func NewEthereumStateRoot(epoch uint64, stateRoot string, blockNumber uint64) EthereumStateRoot {
	return EthereumStateRoot{
		Epoch:       epoch,
		StateRoot:   stateRoot,
		BlockNumber: blockNumber,
		Hash:        computeEthereumStateRootHash(epoch, stateRoot, blockNumber),
		CreatedAt:   time.Now(),
	}
}

func computeEthereumStateRootHash(epoch uint64, stateRoot string, blockNumber uint64) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatUint(epoch, 10)))
	h.Write([]byte(stateRoot))
	h.Write([]byte(strconv.FormatUint(blockNumber, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// StateRootData is what a StateRootRetriever returns for one epoch.
type StateRootData struct {
	StateRoot   string
	BlockNumber uint64
}

// StateRootRetriever resolves the raw state-root data for an epoch. nil,
// nil means no data is available yet for that epoch.
type StateRootRetriever interface {
	Retrieve(epoch uint64) (*StateRootData, error)
}

// Builder computes the certified artifact for an epoch.
type Builder interface {
	ComputeArtifact(epoch uint64, certificate any) (EthereumStateRoot, error)
}

// EthereumBuilder is the Builder for Ethereum state-root artifacts.
type EthereumBuilder struct {
	retriever StateRootRetriever
}

// NewEthereumBuilder constructs an EthereumBuilder.
func NewEthereumBuilder(retriever StateRootRetriever) *EthereumBuilder {
	return &EthereumBuilder{retriever: retriever}
}

// ComputeArtifact computes the artifact for epoch. The certificate argument
// is accepted for lineage only — it is not consumed by the hash.
func (b *EthereumBuilder) ComputeArtifact(epoch uint64, certificate any) (EthereumStateRoot, error) {
	data, err := b.retriever.Retrieve(epoch)
	if err != nil {
		return EthereumStateRoot{}, err
	}
	if data == nil {
		return EthereumStateRoot{}, fmt.Errorf("no Ethereum state root found for epoch '%d'", epoch)
	}
	return NewEthereumStateRoot(epoch, data.StateRoot, data.BlockNumber), nil
}
