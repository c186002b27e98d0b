// Copyright 2025 Certen Protocol

package beacon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":404,"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestClient_CurrentSlot(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/eth/v1/beacon/headers/head": `{"data":{"header":{"message":{"slot":"123456"}}}}`,
	})
	defer srv.Close()

	slot, err := NewClient(srv.URL).CurrentSlot(context.Background())
	if err != nil {
		t.Fatalf("CurrentSlot() error = %v", err)
	}
	if slot != 123456 {
		t.Errorf("CurrentSlot() = %d, want 123456", slot)
	}
}

func TestClient_NotFoundMapsToErrNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()

	_, err := NewClient(srv.URL).BlockBySlot(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestClient_ServerErrorMapsToNodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Genesis(context.Background())
	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("error = %v, want *NodeError", err)
	}
	if nodeErr.Status != 500 {
		t.Errorf("Status = %d, want 500", nodeErr.Status)
	}
}

func TestClient_MalformedBodyMapsToErrDeserialization(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/eth/v1/beacon/genesis": `{not json`,
	})
	defer srv.Close()

	_, err := NewClient(srv.URL).Genesis(context.Background())
	if !errors.Is(err, ErrDeserialization) {
		t.Errorf("error = %v, want ErrDeserialization", err)
	}
}

func TestClient_TransportFailureMapsToErrRequestFailed(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.Close() // connection refused from here on

	_, err := NewClient(srv.URL).CurrentSlot(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("error = %v, want ErrRequestFailed", err)
	}
}

func TestValidatorStatus_IsActive(t *testing.T) {
	tests := []struct {
		status ValidatorStatus
		want   bool
	}{
		{StatusActiveOngoing, true},
		{StatusActiveExiting, true},
		{StatusActiveSlashed, true},
		{StatusPendingQueued, false},
		{StatusExitedUnslashed, false},
		{StatusWithdrawalDone, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsActive(); got != tt.want {
			t.Errorf("IsActive(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestClient_GenesisTime(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/eth/v1/beacon/genesis": `{"data":{"genesis_time":"1606824023","genesis_validators_root":"0x4b36"}}`,
	})
	defer srv.Close()

	ts, err := NewClient(srv.URL).GenesisTime(context.Background())
	if err != nil {
		t.Fatalf("GenesisTime() error = %v", err)
	}
	if ts != 1606824023 {
		t.Errorf("GenesisTime() = %d, want 1606824023", ts)
	}
}
