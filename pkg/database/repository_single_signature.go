// Copyright 2025 Certen Protocol
//
// SingleSignatureRepository - storage for per-signer contributions to an
// open message. Isolation between chains comes from the open_message_id
// foreign key scoping, not from a chain_type column here.

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SingleSignatureRepository provides access to the single_signature table.
type SingleSignatureRepository struct {
	client *Client
}

// NewSingleSignatureRepository creates a new single signature repository.
func NewSingleSignatureRepository(client *Client) *SingleSignatureRepository {
	return &SingleSignatureRepository{client: client}
}

// Upsert registers a single signature for (open_message_id, signer_id).
// Re-registration of the same signer against the same open message is a
// no-op beyond refreshing the stored signature bytes and stake snapshot.
func (r *SingleSignatureRepository) Upsert(ctx context.Context, n NewSingleSignature) (*SingleSignature, error) {
	query := `
		INSERT INTO single_signature (
			open_message_id, signer_id, signature_bytes, registration_epoch_offset, stake_at_signing
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (open_message_id, signer_id) DO UPDATE SET
			signature_bytes = EXCLUDED.signature_bytes,
			stake_at_signing = EXCLUDED.stake_at_signing
		RETURNING open_message_id, signer_id, signature_bytes, registration_epoch_offset,
			stake_at_signing, created_at
	`

	var sig SingleSignature
	err := r.client.QueryRowContext(ctx, query,
		n.OpenMessageID, n.SignerID, n.SignatureBytes, n.RegistrationEpochOffset, n.StakeAtSigning,
	).Scan(
		&sig.OpenMessageID, &sig.SignerID, &sig.SignatureBytes, &sig.RegistrationEpochOffset,
		&sig.StakeAtSigning, &sig.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert single signature: %w", err)
	}

	return &sig, nil
}

// ListByOpenMessage returns every signature registered against an open message.
func (r *SingleSignatureRepository) ListByOpenMessage(ctx context.Context, openMessageID uuid.UUID) ([]SingleSignature, error) {
	query := `
		SELECT open_message_id, signer_id, signature_bytes, registration_epoch_offset,
			stake_at_signing, created_at
		FROM single_signature
		WHERE open_message_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.client.QueryContext(ctx, query, openMessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list single signatures: %w", err)
	}
	defer rows.Close()

	var sigs []SingleSignature
	for rows.Next() {
		var sig SingleSignature
		if err := rows.Scan(
			&sig.OpenMessageID, &sig.SignerID, &sig.SignatureBytes, &sig.RegistrationEpochOffset,
			&sig.StakeAtSigning, &sig.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan single signature: %w", err)
		}
		sigs = append(sigs, sig)
	}

	return sigs, rows.Err()
}

// TotalStake sums stake_at_signing across all signers of an open message.
func (r *SingleSignatureRepository) TotalStake(ctx context.Context, openMessageID uuid.UUID) (uint64, error) {
	var total uint64
	err := r.client.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(stake_at_signing), 0) FROM single_signature WHERE open_message_id = $1`,
		openMessageID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum stake: %w", err)
	}
	return total, nil
}
