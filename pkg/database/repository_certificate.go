// Copyright 2025 Certen Protocol
//
// CertificateRepository - storage for certified protocol messages.

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// CertificateRepository provides access to the certificate table.
type CertificateRepository struct {
	client *Client
}

// NewCertificateRepository creates a new certificate repository.
func NewCertificateRepository(client *Client) *CertificateRepository {
	return &CertificateRepository{client: client}
}

// Create inserts a new certificate. ChainType defaults to "cardano" when the
// caller passes an empty string, matching the legacy pre-chain-type schema.
func (r *CertificateRepository) Create(ctx context.Context, n NewCertificate) (*Certificate, error) {
	chainType := n.ChainType
	if chainType == "" {
		chainType = "cardano"
	}

	signers := n.Signers
	if signers == nil {
		signers = []byte("[]")
	}

	var parentID sql.NullString
	if n.ParentID != "" {
		parentID = sql.NullString{String: n.ParentID, Valid: true}

		// A certificate chain never crosses chains: the parent must carry
		// the same chain_type as the child being inserted.
		var parentChainType string
		err := r.client.QueryRowContext(ctx,
			`SELECT chain_type FROM certificate WHERE certificate_id = $1`, n.ParentID,
		).Scan(&parentChainType)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("parent certificate %s: %w", n.ParentID, ErrCertificateNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check parent certificate: %w", err)
		}
		if parentChainType != chainType {
			return nil, fmt.Errorf("parent %s has chain_type %q, child has %q: %w",
				n.ParentID, parentChainType, chainType, ErrChainTypeMismatch)
		}
	}

	query := `
		INSERT INTO certificate (
			certificate_id, parent_id, chain_type, signed_entity_type, epoch,
			message, aggregate_verification_key, multi_signature, signers, artifact
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (certificate_id) DO UPDATE SET
			multi_signature = EXCLUDED.multi_signature,
			signers = EXCLUDED.signers,
			artifact = EXCLUDED.artifact
		RETURNING certificate_id, parent_id, chain_type, signed_entity_type, epoch,
			message, aggregate_verification_key, multi_signature, signers, artifact, created_at
	`

	var cert Certificate
	var gotParentID sql.NullString
	err := r.client.QueryRowContext(ctx, query,
		n.CertificateID, parentID, chainType, n.SignedEntityType, n.Epoch,
		n.Message, n.AggregateVerificationKey, n.MultiSignature, signers, n.Artifact,
	).Scan(
		&cert.CertificateID, &gotParentID, &cert.ChainType, &cert.SignedEntityType, &cert.Epoch,
		&cert.Message, &cert.AggregateVerificationKey, &cert.MultiSignature, &cert.Signers,
		&cert.Artifact, &cert.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	if gotParentID.Valid {
		cert.ParentID = &gotParentID.String
	}

	return &cert, nil
}

// GetByHash retrieves a certificate by its ID, scoped to a chain type.
func (r *CertificateRepository) GetByHash(ctx context.Context, chainType, certificateID string) (*Certificate, error) {
	query := `
		SELECT certificate_id, parent_id, chain_type, signed_entity_type, epoch,
			message, aggregate_verification_key, multi_signature, signers, artifact, created_at
		FROM certificate
		WHERE certificate_id = $1 AND chain_type = $2
	`

	var cert Certificate
	var parentID sql.NullString
	err := r.client.QueryRowContext(ctx, query, certificateID, chainType).Scan(
		&cert.CertificateID, &parentID, &cert.ChainType, &cert.SignedEntityType, &cert.Epoch,
		&cert.Message, &cert.AggregateVerificationKey, &cert.MultiSignature, &cert.Signers,
		&cert.Artifact, &cert.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCertificateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	if parentID.Valid {
		cert.ParentID = &parentID.String
	}

	return &cert, nil
}

// List returns the most recent certificates for a chain type, newest first.
func (r *CertificateRepository) List(ctx context.Context, chainType string, limit int) ([]Certificate, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT certificate_id, parent_id, chain_type, signed_entity_type, epoch,
			message, aggregate_verification_key, multi_signature, signers, artifact, created_at
		FROM certificate
		WHERE chain_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.client.QueryContext(ctx, query, chainType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	var certs []Certificate
	for rows.Next() {
		var cert Certificate
		var parentID sql.NullString
		if err := rows.Scan(
			&cert.CertificateID, &parentID, &cert.ChainType, &cert.SignedEntityType, &cert.Epoch,
			&cert.Message, &cert.AggregateVerificationKey, &cert.MultiSignature, &cert.Signers,
			&cert.Artifact, &cert.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		if parentID.Valid {
			cert.ParentID = &parentID.String
		}
		certs = append(certs, cert)
	}

	return certs, rows.Err()
}

// Latest returns the most recently created certificate for a chain type.
func (r *CertificateRepository) Latest(ctx context.Context, chainType string) (*Certificate, error) {
	certs, err := r.List(ctx, chainType, 1)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, ErrCertificateNotFound
	}
	return &certs[0], nil
}

// Genesis returns the most recently created parentless (genesis) certificate
// for a chain type.
func (r *CertificateRepository) Genesis(ctx context.Context, chainType string) (*Certificate, error) {
	query := `
		SELECT certificate_id, parent_id, chain_type, signed_entity_type, epoch,
			message, aggregate_verification_key, multi_signature, signers, artifact, created_at
		FROM certificate
		WHERE chain_type = $1 AND parent_id IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var cert Certificate
	var parentID sql.NullString
	err := r.client.QueryRowContext(ctx, query, chainType).Scan(
		&cert.CertificateID, &parentID, &cert.ChainType, &cert.SignedEntityType, &cert.Epoch,
		&cert.Message, &cert.AggregateVerificationKey, &cert.MultiSignature, &cert.Signers,
		&cert.Artifact, &cert.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCertificateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get genesis certificate: %w", err)
	}
	if parentID.Valid {
		cert.ParentID = &parentID.String
	}

	return &cert, nil
}
