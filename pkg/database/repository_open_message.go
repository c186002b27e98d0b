// Copyright 2025 Certen Protocol
//
// OpenMessageRepository - storage for protocol messages awaiting signatures.

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// OpenMessageRepository provides access to the open_message table.
type OpenMessageRepository struct {
	client *Client
}

// NewOpenMessageRepository creates a new open message repository.
func NewOpenMessageRepository(client *Client) *OpenMessageRepository {
	return &OpenMessageRepository{client: client}
}

// Create opens a new message for signing.
func (r *OpenMessageRepository) Create(ctx context.Context, n NewOpenMessage) (*OpenMessage, error) {
	id := uuid.New()

	query := `
		INSERT INTO open_message (open_message_id, chain_id, signed_entity_type, epoch, protocol_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING open_message_id, chain_id, signed_entity_type, epoch, protocol_message,
			is_certified, is_expired, created_at
	`

	var om OpenMessage
	err := r.client.QueryRowContext(ctx, query, id, n.ChainID, n.SignedEntityType, n.Epoch, n.ProtocolMessage).Scan(
		&om.OpenMessageID, &om.ChainID, &om.SignedEntityType, &om.Epoch, &om.ProtocolMessage,
		&om.IsCertified, &om.IsExpired, &om.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create open message: %w", err)
	}

	return &om, nil
}

// GetByID retrieves an open message by ID.
func (r *OpenMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*OpenMessage, error) {
	query := `
		SELECT open_message_id, chain_id, signed_entity_type, epoch, protocol_message,
			is_certified, is_expired, created_at
		FROM open_message
		WHERE open_message_id = $1
	`

	var om OpenMessage
	err := r.client.QueryRowContext(ctx, query, id).Scan(
		&om.OpenMessageID, &om.ChainID, &om.SignedEntityType, &om.Epoch, &om.ProtocolMessage,
		&om.IsCertified, &om.IsExpired, &om.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOpenMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open message: %w", err)
	}

	return &om, nil
}

// GetActive returns the currently active (not expired) open message for a
// chain/signed-entity-type pair, if any.
func (r *OpenMessageRepository) GetActive(ctx context.Context, chainID, signedEntityType string) (*OpenMessage, error) {
	query := `
		SELECT open_message_id, chain_id, signed_entity_type, epoch, protocol_message,
			is_certified, is_expired, created_at
		FROM open_message
		WHERE chain_id = $1 AND signed_entity_type = $2 AND NOT is_expired
	`

	var om OpenMessage
	err := r.client.QueryRowContext(ctx, query, chainID, signedEntityType).Scan(
		&om.OpenMessageID, &om.ChainID, &om.SignedEntityType, &om.Epoch, &om.ProtocolMessage,
		&om.IsCertified, &om.IsExpired, &om.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOpenMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active open message: %w", err)
	}

	return &om, nil
}

// MarkCertified marks an open message as certified.
func (r *OpenMessageRepository) MarkCertified(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.ExecContext(ctx, `UPDATE open_message SET is_certified = true WHERE open_message_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark open message certified: %w", err)
	}
	return nil
}

// MarkExpired marks an open message as expired.
func (r *OpenMessageRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.ExecContext(ctx, `UPDATE open_message SET is_expired = true WHERE open_message_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark open message expired: %w", err)
	}
	return nil
}
