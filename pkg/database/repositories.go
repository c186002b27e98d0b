// Copyright 2025 Certen Protocol
//
// Repositories - convenience wrapper for all database repositories.
// Provides a single point of access to all repository types.

package database

// Repositories holds all repository instances.
type Repositories struct {
	Certificates     *CertificateRepository
	OpenMessages     *OpenMessageRepository
	SingleSignatures *SingleSignatureRepository
}

// NewRepositories creates all repositories with the given client.
func NewRepositories(client *Client) *Repositories {
	return &Repositories{
		Certificates:     NewCertificateRepository(client),
		OpenMessages:     NewOpenMessageRepository(client),
		SingleSignatures: NewSingleSignatureRepository(client),
	}
}
