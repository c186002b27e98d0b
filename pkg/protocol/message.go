// Copyright 2025 Certen Protocol
//
// Package protocol builds the canonical, ordered message signers actually
// sign over: an ordered set of named parts whose canonical hash is stable
// regardless of insertion order, so each chain's signable builder controls
// exactly what enters the hash.

package protocol

import (
	"crypto/sha256"
	"sort"
	"strings"
)

// PartKey names one contribution to a protocol message.
type PartKey string

const (
	PartEthereumEpoch              PartKey = "EthereumEpoch"
	PartEthereumStateRoot          PartKey = "EthereumStateRoot"
	PartEthereumBeaconBlockNumber  PartKey = "EthereumBeaconBlockNumber"
	PartCardanoEpoch               PartKey = "CardanoEpoch"
	PartCardanoImmutableFileDigest PartKey = "CardanoImmutableFileDigest"
)

// Message is an ordered set of signable parts. Insertion order is preserved
// for display and serialization; the canonical hash sorts by key so two
// messages with the same parts hash identically no matter how they were
// assembled.
type Message struct {
	order []PartKey
	parts map[PartKey]string
}

// NewMessage returns an empty Message.
func NewMessage() *Message {
	return &Message{parts: make(map[PartKey]string)}
}

// Set appends (or overwrites in place) a part.
func (m *Message) Set(key PartKey, value string) {
	if _, exists := m.parts[key]; !exists {
		m.order = append(m.order, key)
	}
	m.parts[key] = value
}

// Get returns a part's value and whether it is present.
func (m *Message) Get(key PartKey) (string, bool) {
	v, ok := m.parts[key]
	return v, ok
}

// Parts returns the parts in insertion order.
func (m *Message) Parts() []PartKey {
	return append([]PartKey(nil), m.order...)
}

// CanonicalHash hashes the message's parts, sorted by key, as
// "key1=value1\nkey2=value2\n...". Insertion order does not affect the hash.
func (m *Message) CanonicalHash() [32]byte {
	keys := make([]PartKey, 0, len(m.parts))
	for key := range m.parts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(string(key))
		b.WriteByte('=')
		b.WriteString(m.parts[key])
		b.WriteByte('\n')
	}
	return sha256.Sum256([]byte(b.String()))
}
