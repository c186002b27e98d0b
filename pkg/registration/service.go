// Copyright 2025 Certen Protocol
//
// Package registration implements single-signature registration against an
// open message: decode, authenticate, upsert, and (by delegation) gate
// certification once enough stake has signed.

package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/certen/independant-validator/pkg/database"
)

// OpenMessageStore is the subset of database.OpenMessageRepository this
// service depends on, narrowed to an interface so it can be exercised
// without a real database in tests.
type OpenMessageStore interface {
	GetActive(ctx context.Context, chainID, signedEntityType string) (*database.OpenMessage, error)
	MarkCertified(ctx context.Context, id uuid.UUID) error
}

// SingleSignatureStore is the subset of database.SingleSignatureRepository
// this service depends on.
type SingleSignatureStore interface {
	Upsert(ctx context.Context, n database.NewSingleSignature) (*database.SingleSignature, error)
	TotalStake(ctx context.Context, openMessageID uuid.UUID) (uint64, error)
}

// Status is the outcome of registering a single signature.
type Status string

const (
	StatusRegistered Status = "Registered"
	StatusBuffered   Status = "Buffered"
)

// Sentinel errors surfaced to the HTTP layer for status-code mapping.
var (
	ErrAlreadyCertified     = errors.New("registration: open message already certified")
	ErrExpired              = errors.New("registration: open message expired")
	ErrNotFound             = errors.New("registration: open message not found")
	ErrAuthenticationFailed = errors.New("registration: signature authentication failed")
)

// SignerRetrievalEpochOffset is how many epochs before the open message's
// epoch the signer's stake was fixed. The registration epoch persisted with
// each signature is the open-message epoch minus this offset.
const SignerRetrievalEpochOffset = 1

// SingleSignature is the authenticated payload a signer submits.
type SingleSignature struct {
	SignerID  string
	Signature []byte
	PublicKey []byte
	Stake     uint64
}

// Authenticator verifies a single signature against the signed message.
type Authenticator interface {
	Authenticate(sig SingleSignature, signedMessage []byte) (bool, error)
}

// ThresholdGate decides, after a signature is stored, whether enough stake
// has now signed to certify the open message. The actual multi-signature
// aggregation that produces a certificate is this collaborator's job, not
// this service's.
type ThresholdGate interface {
	EvaluateThreshold(ctx context.Context, openMessageID []byte, totalStake, quorumStake uint64) (certified bool, err error)
}

// Service registers single signatures against open messages.
type Service struct {
	openMessages OpenMessageStore
	signatures   SingleSignatureStore
	authn        Authenticator
	gate         ThresholdGate
	quorumStake  uint64
}

// NewService constructs a Service. quorumStake is the absolute stake
// threshold the ThresholdGate is asked to evaluate against.
func NewService(openMessages OpenMessageStore, signatures SingleSignatureStore, authn Authenticator, gate ThresholdGate, quorumStake uint64) *Service {
	return &Service{openMessages: openMessages, signatures: signatures, authn: authn, gate: gate, quorumStake: quorumStake}
}

// RegisterSingleSignature implements the five-step registration flow:
// decode (by the caller), authenticate, look up the open message, upsert
// the signature, and report whether it was immediately usable or buffered
// pending more signers.
func (s *Service) RegisterSingleSignature(ctx context.Context, chainID, signedEntityType string, sig SingleSignature, signedMessage []byte) (Status, error) {
	ok, err := s.authn.Authenticate(sig, signedMessage)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if !ok {
		return "", ErrAuthenticationFailed
	}

	om, err := s.openMessages.GetActive(ctx, chainID, signedEntityType)
	if err != nil {
		if errors.Is(err, database.ErrOpenMessageNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if om.IsCertified {
		return "", ErrAlreadyCertified
	}
	if om.IsExpired {
		return "", ErrExpired
	}

	registrationEpoch := int64(om.Epoch) - SignerRetrievalEpochOffset
	if registrationEpoch < 0 {
		registrationEpoch = 0
	}
	_, err = s.signatures.Upsert(ctx, database.NewSingleSignature{
		OpenMessageID:           om.OpenMessageID,
		SignerID:                sig.SignerID,
		SignatureBytes:          sig.Signature,
		RegistrationEpochOffset: registrationEpoch,
		StakeAtSigning:          sig.Stake,
	})
	if err != nil {
		return "", err
	}

	totalStake, err := s.signatures.TotalStake(ctx, om.OpenMessageID)
	if err != nil {
		return "", err
	}

	certified, err := s.gate.EvaluateThreshold(ctx, om.OpenMessageID[:], totalStake, s.quorumStake)
	if err != nil {
		return "", err
	}
	if certified {
		if err := s.openMessages.MarkCertified(ctx, om.OpenMessageID); err != nil {
			return "", err
		}
		return StatusRegistered, nil
	}

	return StatusBuffered, nil
}
