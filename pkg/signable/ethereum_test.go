// Copyright 2025 Certen Protocol

package signable

import (
	"context"
	"testing"

	"github.com/certen/independant-validator/pkg/chain"
	"github.com/certen/independant-validator/pkg/protocol"
)

type fakeRetriever struct {
	data *StateRootData
}

func (f *fakeRetriever) Retrieve(ctx context.Context, epoch uint64) (*StateRootData, error) {
	return f.data, nil
}

func TestEthereumBuilder_Compute_BuildsPartsInFixedOrder(t *testing.T) {
	builder := NewEthereumBuilder(&fakeRetriever{data: &StateRootData{StateRootHex: "0xabc", BlockNumber: 12345}})

	msg, err := builder.Compute(context.Background(), chain.Epoch(100))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := []protocol.PartKey{
		protocol.PartEthereumEpoch,
		protocol.PartEthereumStateRoot,
		protocol.PartEthereumBeaconBlockNumber,
	}
	got := msg.Parts()
	if len(got) != len(want) {
		t.Fatalf("Parts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Parts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEthereumBuilder_Compute_MissingDataIsError(t *testing.T) {
	builder := NewEthereumBuilder(&fakeRetriever{})

	if _, err := builder.Compute(context.Background(), chain.Epoch(100)); err == nil {
		t.Fatal("expected error naming the epoch for missing data")
	}
}

func TestUniversalStateRootRetriever_FutureEpochReturnsNilNotError(t *testing.T) {
	obs := chain.NewFakeObserver("ethereum-mainnet")
	obs.SetEpoch(10)

	retriever := NewUniversalStateRootRetriever(obs)
	data, err := retriever.Retrieve(context.Background(), 11)
	if err != nil {
		t.Fatalf("Retrieve() error = %v, want nil", err)
	}
	if data != nil {
		t.Errorf("Retrieve() = %+v, want nil for a future epoch", data)
	}
}
