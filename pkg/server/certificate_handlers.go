// Copyright 2025 Certen Protocol
//
// Certificate API Handlers
// Serves append-only certificate and artifact state for external customers
// and auditing nodes, scoped per chain type.

package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/certen/independant-validator/pkg/database"
)

// CertificateHandlers provides HTTP handlers for certificate discovery.
type CertificateHandlers struct {
	repos   *database.Repositories
	logger  *log.Logger
	metrics *Metrics
}

// NewCertificateHandlers creates new certificate handlers.
func NewCertificateHandlers(repos *database.Repositories, metrics *Metrics, logger *log.Logger) *CertificateHandlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[CertificateAPI] ", log.LstdFlags)
	}
	return &CertificateHandlers{repos: repos, logger: logger, metrics: metrics}
}

// certificateSummary is the shape returned by the list endpoint: enough to
// identify a certificate without shipping its full signer set and artifact.
type certificateSummary struct {
	CertificateID    string `json:"certificate_id"`
	ChainType        string `json:"chain_type"`
	SignedEntityType string `json:"signed_entity_type"`
	Epoch            uint64 `json:"epoch"`
	CreatedAt        string `json:"created_at"`
}

func toSummary(c database.Certificate) certificateSummary {
	return certificateSummary{
		CertificateID:    c.CertificateID,
		ChainType:        c.ChainType,
		SignedEntityType: c.SignedEntityType,
		Epoch:            c.Epoch,
		CreatedAt:        c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleList handles GET /{chain}/certificates: the ≤20 newest summaries.
func (h *CertificateHandlers) HandleList(w http.ResponseWriter, r *http.Request, chainType string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	certs, err := h.repos.Certificates.List(r.Context(), chainType, 20)
	if err != nil {
		h.logger.Printf("Error listing certificates: %v", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list certificates")
		return
	}

	summaries := make([]certificateSummary, 0, len(certs))
	for _, c := range certs {
		summaries = append(summaries, toSummary(c))
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"chain_type":   chainType,
		"certificates": summaries,
		"count":        len(summaries),
	})
}

// HandleGenesis handles GET /{chain}/certificate/genesis.
func (h *CertificateHandlers) HandleGenesis(w http.ResponseWriter, r *http.Request, chainType string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	cert, err := h.repos.Certificates.Genesis(r.Context(), chainType)
	if err == database.ErrCertificateNotFound {
		h.writeError(w, http.StatusNotFound, "CERTIFICATE_NOT_FOUND", "No genesis certificate for this chain")
		return
	}
	if err != nil {
		h.logger.Printf("Error getting genesis certificate: %v", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve genesis certificate")
		return
	}

	h.countDetailServed(r)
	h.writeJSON(w, http.StatusOK, cert)
}

// HandleGetByHash handles GET /{chain}/certificate/{hash}.
func (h *CertificateHandlers) HandleGetByHash(w http.ResponseWriter, r *http.Request, chainType, hash string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	hash = strings.TrimSuffix(hash, "/")
	if hash == "" {
		h.writeError(w, http.StatusBadRequest, "INVALID_HASH", "Certificate hash is required")
		return
	}

	cert, err := h.repos.Certificates.GetByHash(r.Context(), chainType, hash)
	if err == database.ErrCertificateNotFound {
		h.writeError(w, http.StatusNotFound, "CERTIFICATE_NOT_FOUND", "No certificate for this hash")
		return
	}
	if err != nil {
		h.logger.Printf("Error getting certificate: %v", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve certificate")
		return
	}

	h.countDetailServed(r)
	h.writeJSON(w, http.StatusOK, cert)
}

func (h *CertificateHandlers) countDetailServed(r *http.Request) {
	if h.metrics == nil {
		return
	}
	clientType := r.Header.Get("X-Client-Type")
	if clientType == "" {
		clientType = "unknown"
	}
	h.metrics.CertificateDetailServed.WithLabelValues("HTTP", clientType).Inc()
}

func (h *CertificateHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Error encoding response: %v", err)
	}
}

func (h *CertificateHandlers) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
