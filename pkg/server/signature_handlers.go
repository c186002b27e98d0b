// Copyright 2025 Certen Protocol
//
// Signature Registration API Handlers
// Decodes wire single-signature submissions and hands them to
// pkg/registration, mapping its outcomes onto HTTP status codes.

package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/certen/independant-validator/pkg/registration"
)

// SignatureHandlers provides the HTTP handler for single-signature
// registration.
type SignatureHandlers struct {
	service *registration.Service
	logger  *log.Logger
	metrics *Metrics
}

// NewSignatureHandlers creates new signature-registration handlers.
func NewSignatureHandlers(service *registration.Service, metrics *Metrics, logger *log.Logger) *SignatureHandlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[RegistrationAPI] ", log.LstdFlags)
	}
	return &SignatureHandlers{service: service, logger: logger, metrics: metrics}
}

// registerSignatureRequest is the wire body for POST /{chain}/register-signatures.
type registerSignatureRequest struct {
	SignedEntityType string `json:"signed_entity_type"`
	SignedMessage    string `json:"signed_message"`
	Signature        string `json:"signature"`
	SignerPartyID    string `json:"signer_party_id"`
	PublicKey        string `json:"public_key"`
	Stake            uint64 `json:"stake"`
}

// HandleRegister handles POST /{chain}/register-signatures.
func (h *SignatureHandlers) HandleRegister(w http.ResponseWriter, r *http.Request, chainID string) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	if h.metrics != nil {
		h.metrics.SignatureRegistrationsReceived.WithLabelValues("HTTP").Inc()
	}

	var req registerSignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BODY", "Malformed JSON body")
		return
	}

	sigBytes, err := hex.DecodeString(req.Signature)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SIGNATURE", "Signature must be hex-encoded")
		return
	}
	pubKeyBytes, err := hex.DecodeString(req.PublicKey)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_PUBLIC_KEY", "Public key must be hex-encoded")
		return
	}

	sig := registration.SingleSignature{
		SignerID:  req.SignerPartyID,
		Signature: sigBytes,
		PublicKey: pubKeyBytes,
		Stake:     req.Stake,
	}

	status, err := h.service.RegisterSingleSignature(r.Context(), chainID, req.SignedEntityType, sig, []byte(req.SignedMessage))
	if err != nil {
		switch {
		case errors.Is(err, registration.ErrAuthenticationFailed):
			h.writeError(w, http.StatusBadRequest, "AUTHENTICATION_FAILED", "Signature authentication failed")
		case errors.Is(err, registration.ErrNotFound):
			h.writeError(w, http.StatusNotFound, "NOT_FOUND", "No open message for this chain and entity type")
		case errors.Is(err, registration.ErrAlreadyCertified):
			h.writeError(w, http.StatusGone, "already_certified", "Open message is already certified")
		case errors.Is(err, registration.ErrExpired):
			h.writeError(w, http.StatusGone, "expired", "Open message has expired")
		default:
			h.logger.Printf("Error registering signature: %v", err)
			h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register signature")
		}
		return
	}

	switch status {
	case registration.StatusRegistered:
		h.writeJSON(w, http.StatusCreated, map[string]interface{}{"status": status})
	case registration.StatusBuffered:
		h.writeJSON(w, http.StatusAccepted, map[string]interface{}{"status": status})
	default:
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected registration status")
	}
}

func (h *SignatureHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Error encoding response: %v", err)
	}
}

func (h *SignatureHandlers) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
