// Copyright 2025 Certen Protocol

package artifact

import (
	"errors"
	"testing"
)

func TestNewEthereumStateRoot_HashIsDeterministic(t *testing.T) {
	a := NewEthereumStateRoot(100, "0x1234567890abcdef", 12345)
	b := NewEthereumStateRoot(100, "0x1234567890abcdef", 12345)

	if a.Hash != b.Hash {
		t.Errorf("Hash differs for identical inputs: %q != %q", a.Hash, b.Hash)
	}
	if a.Hash == "" {
		t.Error("Hash must not be empty")
	}
}

func TestNewEthereumStateRoot_HashSensitiveToStateRoot(t *testing.T) {
	a := NewEthereumStateRoot(100, "0x1234567890abcdef", 12345)
	b := NewEthereumStateRoot(100, "0xfedcba0987654321", 12345)

	if a.Hash == b.Hash {
		t.Error("Hash must change when state_root changes")
	}
}

func TestNewEthereumStateRoot_HashSensitiveToEpochAndBlockNumber(t *testing.T) {
	base := NewEthereumStateRoot(100, "0x1234567890abcdef", 12345)

	if diffEpoch := NewEthereumStateRoot(101, "0x1234567890abcdef", 12345); diffEpoch.Hash == base.Hash {
		t.Error("Hash must change when epoch changes")
	}
	if diffBlock := NewEthereumStateRoot(100, "0x1234567890abcdef", 12346); diffBlock.Hash == base.Hash {
		t.Error("Hash must change when block_number changes")
	}
}

type fakeRetriever struct {
	data *StateRootData
	err  error
}

func (f *fakeRetriever) Retrieve(epoch uint64) (*StateRootData, error) {
	return f.data, f.err
}

func TestEthereumBuilder_ComputeArtifact_MissingDataIsError(t *testing.T) {
	builder := NewEthereumBuilder(&fakeRetriever{})

	_, err := builder.ComputeArtifact(100, nil)
	if err == nil {
		t.Fatal("expected error for missing state root data")
	}
}

func TestEthereumBuilder_ComputeArtifact_IgnoresCertificateArgument(t *testing.T) {
	builder := NewEthereumBuilder(&fakeRetriever{data: &StateRootData{StateRoot: "0xabc", BlockNumber: 1}})

	withNilCert, err := builder.ComputeArtifact(100, nil)
	if err != nil {
		t.Fatalf("ComputeArtifact() error = %v", err)
	}
	withOtherCert, err := builder.ComputeArtifact(100, "some certificate")
	if err != nil {
		t.Fatalf("ComputeArtifact() error = %v", err)
	}
	if withNilCert.Hash != withOtherCert.Hash {
		t.Error("certificate argument must not affect the computed hash")
	}
}

func TestEthereumBuilder_ComputeArtifact_PropagatesRetrieverError(t *testing.T) {
	wantErr := errors.New("boom")
	builder := NewEthereumBuilder(&fakeRetriever{err: wantErr})

	_, err := builder.ComputeArtifact(100, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("ComputeArtifact() error = %v, want %v", err, wantErr)
	}
}
