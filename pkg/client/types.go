// Copyright 2025 Certen Protocol

package client

import "encoding/json"

// CertificateSummary is one row of a certificate list response.
type CertificateSummary struct {
	CertificateID    string `json:"certificate_id"`
	ChainType        string `json:"chain_type"`
	SignedEntityType string `json:"signed_entity_type"`
	Epoch            uint64 `json:"epoch"`
	CreatedAt        string `json:"created_at"`
}

// Certificate is the full certificate detail response.
type Certificate struct {
	CertificateID            string          `json:"certificate_id"`
	ParentID                 *string         `json:"parent_id,omitempty"`
	ChainType                string          `json:"chain_type"`
	SignedEntityType         string          `json:"signed_entity_type"`
	Epoch                    uint64          `json:"epoch"`
	Message                  string          `json:"message"`
	AggregateVerificationKey string          `json:"aggregate_verification_key"`
	MultiSignature           string          `json:"multi_signature"`
	Signers                  json.RawMessage `json:"signers"`
	Artifact                 json.RawMessage `json:"artifact,omitempty"`
	CreatedAt                string          `json:"created_at"`
}

// RegisterSignatureRequest is the wire body for POST /{chain}/register-signatures.
type RegisterSignatureRequest struct {
	SignedEntityType string `json:"signed_entity_type"`
	SignedMessage    string `json:"signed_message"`
	Signature        string `json:"signature"`
	SignerPartyID    string `json:"signer_party_id"`
	PublicKey        string `json:"public_key"`
	Stake            uint64 `json:"stake"`
}
