// Copyright 2025 Certen Protocol
//
// Router wires the asymmetric multi-chain HTTP surface: legacy
// Cardano-default paths plus explicit per-chain mirrors, all dispatching to
// the same handlers with a chain_type parameter. Plain net/http, manual path
// parsing.

package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen/independant-validator/pkg/database"
	"github.com/certen/independant-validator/pkg/registration"
)

const legacyChainType = "cardano"

// Router is the certification core's HTTP surface.
type Router struct {
	certificates *CertificateHandlers
	signatures   *SignatureHandlers
	metrics      *Metrics
	registry     *prometheus.Registry
	logger       *log.Logger
}

// NewRouter constructs a Router over repos and the registration service. Each
// Router owns its own Prometheus registry, served on /metrics.
func NewRouter(repos *database.Repositories, regService *registration.Service, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(log.Writer(), "[Router] ", log.LstdFlags)
	}
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	return &Router{
		certificates: NewCertificateHandlers(repos, metrics, logger),
		signatures:   NewSignatureHandlers(regService, metrics, logger),
		metrics:      metrics,
		registry:     registry,
		logger:       logger,
	}
}

// Mux builds the *http.ServeMux with every route registered.
func (rt *Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	// Legacy, chain-implicit routes (default cardano).
	mux.HandleFunc("/certificates", func(w http.ResponseWriter, r *http.Request) {
		rt.certificates.HandleList(w, r, legacyChainType)
	})
	mux.HandleFunc("/certificate/genesis", func(w http.ResponseWriter, r *http.Request) {
		rt.certificates.HandleGenesis(w, r, legacyChainType)
	})
	mux.HandleFunc("/certificate/", func(w http.ResponseWriter, r *http.Request) {
		hash := strings.TrimPrefix(r.URL.Path, "/certificate/")
		if hash == "genesis" {
			rt.certificates.HandleGenesis(w, r, legacyChainType)
			return
		}
		rt.certificates.HandleGetByHash(w, r, legacyChainType, hash)
	})
	mux.HandleFunc("/register-signatures", func(w http.ResponseWriter, r *http.Request) {
		rt.signatures.HandleRegister(w, r, legacyChainType)
	})

	// Explicit per-chain mirrors.
	for _, chainType := range []string{"cardano", "ethereum"} {
		ct := chainType
		prefix := "/" + ct

		mux.HandleFunc(prefix+"/certificates", func(w http.ResponseWriter, r *http.Request) {
			rt.certificates.HandleList(w, r, ct)
		})
		mux.HandleFunc(prefix+"/certificate/genesis", func(w http.ResponseWriter, r *http.Request) {
			rt.certificates.HandleGenesis(w, r, ct)
		})
		mux.HandleFunc(prefix+"/certificate/", func(w http.ResponseWriter, r *http.Request) {
			hash := strings.TrimPrefix(r.URL.Path, prefix+"/certificate/")
			if hash == "genesis" {
				rt.certificates.HandleGenesis(w, r, ct)
				return
			}
			rt.certificates.HandleGetByHash(w, r, ct, hash)
		})
		mux.HandleFunc(prefix+"/register-signatures", func(w http.ResponseWriter, r *http.Request) {
			rt.signatures.HandleRegister(w, r, ct)
		})
	}

	mux.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", rt.handleHealthz)

	return mux
}

func (rt *Router) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
