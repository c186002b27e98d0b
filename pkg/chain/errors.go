// Copyright 2025 Certen Protocol

package chain

import "fmt"

// Kind classifies an ObserverError, grounded on the closed set of chain
// observer failures every implementation can hit.
type Kind string

const (
	KindEpochQuery        Kind = "epoch_query"
	KindStakeDistribution Kind = "stake_distribution"
	KindStateCommitment   Kind = "state_commitment"
	KindNotFound          Kind = "not_found"
	KindValidatorNotFound Kind = "validator_not_found"
	KindInvalidData       Kind = "invalid_data"
	KindChainSpecific     Kind = "chain_specific"
)

// ObserverError wraps a chain-observer failure with its chain and kind.
type ObserverError struct {
	Kind  Kind
	Chain ChainID
	Err   error
}

func (e *ObserverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chain %s: %s: %v", e.Chain, e.Kind, e.Err)
	}
	return fmt.Sprintf("chain %s: %s", e.Chain, e.Kind)
}

func (e *ObserverError) Unwrap() error { return e.Err }

// NewObserverError builds an ObserverError.
func NewObserverError(chain ChainID, kind Kind, err error) *ObserverError {
	return &ObserverError{Kind: kind, Chain: chain, Err: err}
}
