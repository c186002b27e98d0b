// Copyright 2025 Certen Protocol

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ListCertificates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ethereum/certificates" {
			t.Errorf("path = %s, want /ethereum/certificates", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"certificates": []CertificateSummary{
				{CertificateID: "abc", ChainType: "ethereum", SignedEntityType: "EthereumStateRoot", Epoch: 10},
				{CertificateID: "def", ChainType: "ethereum", SignedEntityType: "EthereumStateRoot", Epoch: 9},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	certs, err := c.ListCertificates(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListCertificates() error = %v", err)
	}
	if len(certs) != 1 {
		t.Fatalf("len(certs) = %d, want 1", len(certs))
	}
	if certs[0].CertificateID != "abc" {
		t.Errorf("CertificateID = %q, want abc", certs[0].CertificateID)
	}
}

func TestClient_GetCertificate_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "CERTIFICATE_NOT_FOUND", "message": "no certificate"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetCertificate(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Code != "CERTIFICATE_NOT_FOUND" {
		t.Errorf("Code = %q, want CERTIFICATE_NOT_FOUND", apiErr.Code)
	}
}

func TestClient_RegisterSignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req RegisterSignatureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"status": "Registered"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	status, err := c.RegisterSignature(context.Background(), RegisterSignatureRequest{
		SignedEntityType: "EthereumStateRoot",
		SignerPartyID:    "signer-1",
		Stake:            100,
	})
	if err != nil {
		t.Fatalf("RegisterSignature() error = %v", err)
	}
	if status != "Registered" {
		t.Errorf("status = %q, want Registered", status)
	}
}
