// Copyright 2025 Certen Protocol

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/certen/independant-validator/pkg/database"
	"github.com/certen/independant-validator/pkg/registration"
)

type stubAuthenticator struct{ ok bool }

func (s stubAuthenticator) Authenticate(sig registration.SingleSignature, signedMessage []byte) (bool, error) {
	return s.ok, nil
}

type stubGate struct{ certified bool }

func (s stubGate) EvaluateThreshold(ctx context.Context, openMessageID []byte, totalStake, quorumStake uint64) (bool, error) {
	return s.certified, nil
}

type stubOpenMessages struct {
	om  *database.OpenMessage
	err error
}

func (s *stubOpenMessages) GetActive(ctx context.Context, chainID, signedEntityType string) (*database.OpenMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.om, nil
}

func (s *stubOpenMessages) MarkCertified(ctx context.Context, id uuid.UUID) error { return nil }

type stubSignatures struct{}

func (s *stubSignatures) Upsert(ctx context.Context, n database.NewSingleSignature) (*database.SingleSignature, error) {
	return &database.SingleSignature{}, nil
}

func (s *stubSignatures) TotalStake(ctx context.Context, openMessageID uuid.UUID) (uint64, error) {
	return 0, nil
}

func newTestSignatureHandlers(authOK, certified bool, om *database.OpenMessage, lookupErr error) *SignatureHandlers {
	service := registration.NewService(
		&stubOpenMessages{om: om, err: lookupErr},
		&stubSignatures{},
		stubAuthenticator{ok: authOK},
		stubGate{certified: certified},
		1000,
	)
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewSignatureHandlers(service, metrics, nil)
}

func postRegister(h *SignatureHandlers, chainID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(registerSignatureRequest{
		SignedEntityType: "EthereumStateRoot",
		SignedMessage:    "deadbeef",
		Signature:        "aa",
		SignerPartyID:    "signer-1",
		PublicKey:        "bb",
		Stake:            100,
	})
	req := httptest.NewRequest("POST", "/"+chainID+"/register-signatures", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, req, chainID)
	return rec
}

func TestHandleRegister_AuthenticationFailureReturns400(t *testing.T) {
	h := newTestSignatureHandlers(false, false, &database.OpenMessage{}, nil)
	rec := postRegister(h, "ethereum")
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRegister_NotFoundReturns404(t *testing.T) {
	h := newTestSignatureHandlers(true, false, nil, database.ErrOpenMessageNotFound)
	rec := postRegister(h, "ethereum")
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	return body.Error.Code
}

func TestHandleRegister_AlreadyCertifiedReturns410(t *testing.T) {
	h := newTestSignatureHandlers(true, false, &database.OpenMessage{IsCertified: true}, nil)
	rec := postRegister(h, "ethereum")
	if rec.Code != 410 {
		t.Errorf("status = %d, want 410", rec.Code)
	}
	if code := errorCode(t, rec); code != "already_certified" {
		t.Errorf("body code = %q, want already_certified", code)
	}
}

func TestHandleRegister_ExpiredReturns410(t *testing.T) {
	h := newTestSignatureHandlers(true, false, &database.OpenMessage{IsExpired: true}, nil)
	rec := postRegister(h, "ethereum")
	if rec.Code != 410 {
		t.Errorf("status = %d, want 410", rec.Code)
	}
	if code := errorCode(t, rec); code != "expired" {
		t.Errorf("body code = %q, want expired", code)
	}
}

func TestHandleRegister_BufferedReturns202(t *testing.T) {
	h := newTestSignatureHandlers(true, false, &database.OpenMessage{}, nil)
	rec := postRegister(h, "ethereum")
	if rec.Code != 202 {
		t.Errorf("status = %d, want 202", rec.Code)
	}
}

func TestHandleRegister_RegisteredReturns201(t *testing.T) {
	h := newTestSignatureHandlers(true, true, &database.OpenMessage{}, nil)
	rec := postRegister(h, "ethereum")
	if rec.Code != 201 {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestHandleRegister_MalformedSignatureReturns400(t *testing.T) {
	h := newTestSignatureHandlers(true, false, &database.OpenMessage{}, nil)
	body, _ := json.Marshal(registerSignatureRequest{
		SignedEntityType: "EthereumStateRoot",
		Signature:        "not-hex",
		PublicKey:        "bb",
	})
	req := httptest.NewRequest("POST", "/ethereum/register-signatures", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, req, "ethereum")
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
