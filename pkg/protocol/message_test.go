// Copyright 2025 Certen Protocol

package protocol

import "testing"

func TestMessage_CanonicalHashIgnoresInsertionOrder(t *testing.T) {
	a := NewMessage()
	a.Set(PartEthereumEpoch, "100")
	a.Set(PartEthereumStateRoot, "0x1234")

	b := NewMessage()
	b.Set(PartEthereumStateRoot, "0x1234")
	b.Set(PartEthereumEpoch, "100")

	if a.CanonicalHash() != b.CanonicalHash() {
		t.Error("CanonicalHash() must be stable regardless of part insertion order")
	}
}

func TestMessage_CanonicalHashChangesWithValues(t *testing.T) {
	a := NewMessage()
	a.Set(PartEthereumStateRoot, "0x1234")

	b := NewMessage()
	b.Set(PartEthereumStateRoot, "0x5678")

	if a.CanonicalHash() == b.CanonicalHash() {
		t.Error("CanonicalHash() must change when a part's value changes")
	}
}

func TestMessage_CanonicalHashIsDeterministic(t *testing.T) {
	build := func() *Message {
		m := NewMessage()
		m.Set(PartEthereumEpoch, "100")
		m.Set(PartEthereumStateRoot, "0x1234")
		m.Set(PartEthereumBeaconBlockNumber, "12345")
		return m
	}

	if build().CanonicalHash() != build().CanonicalHash() {
		t.Error("CanonicalHash() must be deterministic for identical inputs")
	}
}

func TestMessage_GetReturnsPresence(t *testing.T) {
	m := NewMessage()
	if _, ok := m.Get(PartEthereumEpoch); ok {
		t.Error("Get() on empty message should report absent")
	}
	m.Set(PartEthereumEpoch, "5")
	v, ok := m.Get(PartEthereumEpoch)
	if !ok || v != "5" {
		t.Errorf("Get() = (%q, %v), want (5, true)", v, ok)
	}
}
