// Copyright 2025 Certen Protocol

package registration

import "context"

// StakeThresholdGate is a minimal ThresholdGate: an open message certifies
// as soon as registered stake meets or exceeds the configured quorum. Real
// deployments may swap in a gate that also verifies the aggregated
// multi-signature before certifying; this core treats that as a later,
// external concern (ThresholdGate only decides when, not whether the
// aggregate verifies).
type StakeThresholdGate struct{}

// NewStakeThresholdGate constructs a StakeThresholdGate.
func NewStakeThresholdGate() *StakeThresholdGate {
	return &StakeThresholdGate{}
}

func (g *StakeThresholdGate) EvaluateThreshold(ctx context.Context, openMessageID []byte, totalStake, quorumStake uint64) (bool, error) {
	return totalStake >= quorumStake, nil
}
