// Copyright 2025 Certen Protocol

package database

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	connStr := os.Getenv("CERTEN_TEST_DB")
	if connStr == "" {
		os.Exit(0)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		panic(err)
	}
	testDB = db
	defer db.Close()

	os.Exit(m.Run())
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	if _, err := testDB.Exec(`
		DROP TABLE IF EXISTS single_signature, open_message, certificate, schema_migrations CASCADE
	`); err != nil {
		t.Fatalf("failed to reset schema: %v", err)
	}
	sql, err := os.ReadFile("migrations/001_initial_schema.sql")
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}
	if _, err := testDB.Exec(string(sql)); err != nil {
		t.Fatalf("failed to apply migration: %v", err)
	}
	return &Client{db: testDB}
}

func TestCertificateRepository_DefaultsChainTypeToCardano(t *testing.T) {
	client := newTestClient(t)
	repo := NewCertificateRepository(client)

	cert, err := repo.Create(context.Background(), NewCertificate{
		CertificateID:            "legacy-cert-1",
		SignedEntityType:         "CardanoImmutableFiles",
		Epoch:                    10,
		Message:                  "deadbeef",
		AggregateVerificationKey: "avk",
		MultiSignature:           "sig",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cert.ChainType != "cardano" {
		t.Errorf("ChainType = %q, want cardano", cert.ChainType)
	}
}

func TestCertificateRepository_MixedChainCertificatesDontInterfere(t *testing.T) {
	client := newTestClient(t)
	repo := NewCertificateRepository(client)
	ctx := context.Background()

	if _, err := repo.Create(ctx, NewCertificate{
		CertificateID: "cardano-epoch-10", ChainType: "cardano",
		SignedEntityType: "CardanoImmutableFiles", Epoch: 10,
		Message: "m1", AggregateVerificationKey: "avk1", MultiSignature: "sig1",
	}); err != nil {
		t.Fatalf("Create(cardano) error = %v", err)
	}
	if _, err := repo.Create(ctx, NewCertificate{
		CertificateID: "ethereum-epoch-10", ChainType: "ethereum",
		SignedEntityType: "EthereumStateRoot", Epoch: 10,
		Message: "m2", AggregateVerificationKey: "avk2", MultiSignature: "sig2",
	}); err != nil {
		t.Fatalf("Create(ethereum) error = %v", err)
	}

	cardanoCerts, err := repo.List(ctx, "cardano", 10)
	if err != nil {
		t.Fatalf("List(cardano) error = %v", err)
	}
	if len(cardanoCerts) != 1 || cardanoCerts[0].CertificateID != "cardano-epoch-10" {
		t.Errorf("List(cardano) = %+v, want exactly the cardano certificate", cardanoCerts)
	}

	ethCerts, err := repo.List(ctx, "ethereum", 10)
	if err != nil {
		t.Fatalf("List(ethereum) error = %v", err)
	}
	if len(ethCerts) != 1 || ethCerts[0].CertificateID != "ethereum-epoch-10" {
		t.Errorf("List(ethereum) = %+v, want exactly the ethereum certificate", ethCerts)
	}
}

func TestSingleSignatureRepository_UpsertIsIdempotent(t *testing.T) {
	client := newTestClient(t)
	omRepo := NewOpenMessageRepository(client)
	sigRepo := NewSingleSignatureRepository(client)
	ctx := context.Background()

	om, err := omRepo.Create(ctx, NewOpenMessage{
		ChainID: "ethereum-mainnet", SignedEntityType: "EthereumStateRoot", Epoch: 10,
		ProtocolMessage: []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("Create(open message) error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := sigRepo.Upsert(ctx, NewSingleSignature{
			OpenMessageID: om.OpenMessageID, SignerID: "signer-1",
			SignatureBytes: []byte("sig"), StakeAtSigning: 1000,
		}); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	sigs, err := sigRepo.ListByOpenMessage(ctx, om.OpenMessageID)
	if err != nil {
		t.Fatalf("ListByOpenMessage() error = %v", err)
	}
	if len(sigs) != 1 {
		t.Errorf("len(sigs) = %d, want 1 (re-registration must not duplicate)", len(sigs))
	}
}
