// Copyright 2025 Certen Protocol
//
// Database Types for certificate, open-message and single-signature storage.
// These types map directly to the PostgreSQL schema defined in
// migrations/001_initial_schema.sql.

package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// CERTIFICATE TYPES
// ============================================================================

// Certificate represents a signed, stake-certified protocol message for a
// chain/epoch pair. Maps to: certificate table.
type Certificate struct {
	CertificateID             string          `db:"certificate_id" json:"certificate_id"`
	ParentID                  *string         `db:"parent_id" json:"parent_id,omitempty"`
	ChainType                 string          `db:"chain_type" json:"chain_type"`
	SignedEntityType          string          `db:"signed_entity_type" json:"signed_entity_type"`
	Epoch                     uint64          `db:"epoch" json:"epoch"`
	Message                   string          `db:"message" json:"message"`
	AggregateVerificationKey  string          `db:"aggregate_verification_key" json:"aggregate_verification_key"`
	MultiSignature            string          `db:"multi_signature" json:"multi_signature"`
	Signers                   json.RawMessage `db:"signers" json:"signers"`
	Artifact                  json.RawMessage `db:"artifact" json:"artifact,omitempty"`
	CreatedAt                 time.Time       `db:"created_at" json:"created_at"`
}

// NewCertificate is used to create a new certificate. ChainType defaults to
// "cardano" when left empty, matching the legacy (pre chain-type) schema.
type NewCertificate struct {
	CertificateID            string
	ParentID                 string
	ChainType                string
	SignedEntityType         string
	Epoch                    uint64
	Message                  string
	AggregateVerificationKey string
	MultiSignature           string
	Signers                  json.RawMessage
	Artifact                 json.RawMessage
}

// ============================================================================
// OPEN MESSAGE TYPES
// ============================================================================

// OpenMessage represents a protocol message awaiting enough single
// signatures to be certified. Maps to: open_message table.
type OpenMessage struct {
	OpenMessageID    uuid.UUID       `db:"open_message_id" json:"open_message_id"`
	ChainID          string          `db:"chain_id" json:"chain_id"`
	SignedEntityType string          `db:"signed_entity_type" json:"signed_entity_type"`
	Epoch            uint64          `db:"epoch" json:"epoch"`
	ProtocolMessage  json.RawMessage `db:"protocol_message" json:"protocol_message"`
	IsCertified      bool            `db:"is_certified" json:"is_certified"`
	IsExpired        bool            `db:"is_expired" json:"is_expired"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// NewOpenMessage is used to open a new message for signing.
type NewOpenMessage struct {
	ChainID          string
	SignedEntityType string
	Epoch            uint64
	ProtocolMessage  json.RawMessage
}

// ============================================================================
// SINGLE SIGNATURE TYPES
// ============================================================================

// SingleSignature represents one signer's contribution towards an open
// message. Maps to: single_signature table.
type SingleSignature struct {
	OpenMessageID           uuid.UUID `db:"open_message_id" json:"open_message_id"`
	SignerID                string    `db:"signer_id" json:"signer_id"`
	SignatureBytes          []byte    `db:"signature_bytes" json:"signature_bytes"`
	RegistrationEpochOffset int64     `db:"registration_epoch_offset" json:"registration_epoch_offset"`
	StakeAtSigning          uint64    `db:"stake_at_signing" json:"stake_at_signing"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

// NewSingleSignature is used to register (or re-register) a single signature.
type NewSingleSignature struct {
	OpenMessageID           uuid.UUID
	SignerID                string
	SignatureBytes          []byte
	RegistrationEpochOffset int64
	StakeAtSigning          uint64
}

// ============================================================================
// UUID HELPERS
// ============================================================================

// ParseUUID parses a string into a UUID.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// NewUUID generates a new random UUID.
func NewUUID() uuid.UUID {
	return uuid.New()
}
