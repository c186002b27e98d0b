// Copyright 2025 Certen Protocol
//
// cmd/aggregator is the certification core's server entrypoint: load
// configuration, wire dependencies, serve the HTTP surface, shut down
// gracefully on SIGINT/SIGTERM.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/certen/independant-validator/pkg/config"
	"github.com/certen/independant-validator/pkg/depbuilder"
	"github.com/certen/independant-validator/pkg/server"
)

var startTime = time.Now()

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("🚀 Starting Certen certification aggregator")

	var (
		validatorID = flag.String("validator-id", "", "Validator ID (overrides VALIDATOR_ID env var)")
		configFile  = flag.String("config", "", "Path to JSON configuration file (layered over env vars)")
		showHelp    = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if *configFile != "" {
		fc, err := config.LoadFile(*configFile)
		if err != nil {
			log.Fatal("Failed to load configuration file:", err)
		}
		fc.Apply(cfg)
		log.Printf("📋 Applied configuration file: %s", *configFile)
	}
	if *validatorID != "" {
		log.Printf("📋 CLI flag override: using validator ID from command line: %s", *validatorID)
		cfg.ValidatorID = *validatorID
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	log.Printf("📋 Validator ID: %s", cfg.ValidatorID)

	// ==========================================================================
	// PHASE 1: Build dependencies (database, BLS key, chain observers, signable
	// and artifact builders, optional Firestore sync).
	// ==========================================================================
	log.Println("🗄️ [Phase 1] Wiring dependencies...")
	deps, err := depbuilder.Build(context.Background(), cfg, nil, log.New(log.Writer(), "[DepBuilder] ", log.LstdFlags))
	if err != nil {
		log.Fatalf("❌ [Phase 1] Dependency wiring failed: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Printf("⚠️ dependency shutdown error: %v", err)
		}
	}()
	log.Println("✅ [Phase 1] Dependencies wired")

	if deps.EthereumObserver != nil {
		log.Printf("✅ [Phase 1] Ethereum observer enabled (network=%s)", cfg.EthereumNetwork)
	}
	if deps.CardanoObserver != nil {
		log.Printf("✅ [Phase 1] Cardano observer enabled (network=%s)", cfg.CardanoNetwork)
	}
	if deps.Firestore != nil && deps.Firestore.IsEnabled() {
		log.Println("✅ [Phase 1] Firestore real-time sync enabled")
	}

	// ==========================================================================
	// PHASE 2: HTTP surface.
	// ==========================================================================
	log.Println("🌐 [Phase 2] Configuring HTTP router...")
	router := server.NewRouter(deps.Repos, deps.RegistrationService, log.New(log.Writer(), "[Server] ", log.LstdFlags))
	mux := router.Mux()
	mux.HandleFunc("/health", handleHealth(deps))

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}
	log.Println("✅ [Phase 2] HTTP router configured")

	go func() {
		log.Printf("🌐 Certen aggregator API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server:", err)
		}
	}()

	log.Printf("✅ Certen aggregator ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("🛑 Shutting down Certen aggregator...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Printf("✅ Certen aggregator stopped")
}

// healthResponse reports liveness of the three backing dependencies.
type healthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	Ethereum      string `json:"ethereum"`
	Cardano       string `json:"cardano"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func handleHealth(deps *depbuilder.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:        "ok",
			Database:      "disabled",
			Ethereum:      "disabled",
			Cardano:       "disabled",
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
		}
		if deps.DB != nil {
			if err := deps.DB.Ping(r.Context()); err != nil {
				resp.Database = "disconnected"
				resp.Status = "degraded"
			} else {
				resp.Database = "connected"
			}
		}
		if deps.EthereumObserver != nil {
			resp.Ethereum = "enabled"
		}
		if deps.CardanoObserver != nil {
			resp.Cardano = "enabled"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func printHelp() {
	fmt.Println("Certen certification aggregator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  aggregator [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --validator-id string   Validator ID (overrides VALIDATOR_ID env var)")
	fmt.Println("  --config string         Path to JSON configuration file (layered over env vars)")
	fmt.Println("  --help                  Show this help message")
}
