// Copyright 2025 Certen Protocol

package registration

import (
	"fmt"

	"github.com/certen/independant-validator/pkg/crypto/bls"
)

// BLSAuthenticator authenticates single signatures with the BLS12-381
// primitive in pkg/crypto/bls.
type BLSAuthenticator struct{}

// NewBLSAuthenticator constructs a BLSAuthenticator.
func NewBLSAuthenticator() *BLSAuthenticator {
	return &BLSAuthenticator{}
}

func (a *BLSAuthenticator) Authenticate(sig SingleSignature, signedMessage []byte) (bool, error) {
	pubKey, err := bls.PublicKeyFromBytes(sig.PublicKey)
	if err != nil {
		return false, fmt.Errorf("invalid public key: %w", err)
	}
	signature, err := bls.SignatureFromBytes(sig.Signature)
	if err != nil {
		return false, fmt.Errorf("invalid signature: %w", err)
	}
	return pubKey.VerifyWithDomain(signature, signedMessage, bls.DomainSingleSignature), nil
}
