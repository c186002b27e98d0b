// Copyright 2025 Certen Protocol
//
// Certification Configuration Loader
//
// This file provides the secondary, YAML-based configuration path for the
// aggregator: a deployment-level file describing quorum, chain, and
// monitoring settings, with ${VAR_NAME} substitution from the process
// environment before parsing. It layers on top of, and does not replace,
// the primary env-var Config loaded by Load() in config.go.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// CertificationConfig holds deployment-level certification settings loaded
// from a YAML file.
type CertificationConfig struct {
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	Quorum     QuorumSettings     `yaml:"quorum"`
	Ethereum   EthereumSettings   `yaml:"ethereum"`
	Cardano    CardanoSettings    `yaml:"cardano"`
	Database   DatabaseSettings   `yaml:"database"`
	Security   SecuritySettings   `yaml:"security"`
	Monitoring MonitoringSettings `yaml:"monitoring"`
}

// QuorumSettings controls how much stake must sign before an open message
// is certified.
type QuorumSettings struct {
	QuorumFraction             float64  `yaml:"quorum_fraction"`
	RegistrationTimeout        Duration `yaml:"registration_timeout"`
	EnableSignatureAggregation bool     `yaml:"enable_signature_aggregation"`
}

// EthereumSettings configures the Ethereum beacon-chain observer.
type EthereumSettings struct {
	Network                     string `yaml:"network"`
	BeaconEndpoint              string `yaml:"beacon_endpoint"`
	CertificationIntervalEpochs uint64 `yaml:"certification_interval_epochs"`
}

// CardanoSettings configures the Cardano chain observer.
type CardanoSettings struct {
	Network string `yaml:"network"`
}

// DatabaseSettings contains database connection pool tuning.
type DatabaseSettings struct {
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
}

// SecuritySettings contains API surface security configuration.
type SecuritySettings struct {
	CORSOrigins []string `yaml:"cors_origins"`
	TLSEnabled  bool     `yaml:"tls_enabled"`
}

// MonitoringSettings configures metrics and health-check behavior.
type MonitoringSettings struct {
	MetricsEnabled     bool     `yaml:"metrics_enabled"`
	HealthCheckTimeout Duration `yaml:"health_check_timeout"`
}

// Duration wraps time.Duration for YAML unmarshaling of strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// LoadCertificationConfig loads certification configuration from a YAML
// file. ${VAR_NAME} and ${VAR_NAME:-default} references are substituted
// from the process environment before parsing.
func LoadCertificationConfig(path string) (*CertificationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg CertificationConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *CertificationConfig) applyDefaults() {
	if c.Quorum.QuorumFraction == 0 {
		c.Quorum.QuorumFraction = 0.667
	}
	if c.Quorum.RegistrationTimeout == 0 {
		c.Quorum.RegistrationTimeout = Duration(30 * time.Second)
	}
	if c.Ethereum.CertificationIntervalEpochs == 0 {
		c.Ethereum.CertificationIntervalEpochs = 675
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = Duration(time.Hour)
	}
	if c.Monitoring.HealthCheckTimeout == 0 {
		c.Monitoring.HealthCheckTimeout = Duration(5 * time.Second)
	}
}

// Validate checks that required fields are present for the configured
// environment.
func (c *CertificationConfig) Validate() error {
	if c.Quorum.QuorumFraction <= 0 || c.Quorum.QuorumFraction > 1 {
		return fmt.Errorf("quorum.quorum_fraction must be in (0, 1], got %f", c.Quorum.QuorumFraction)
	}
	if c.Environment == "production" && c.Ethereum.BeaconEndpoint == "" && c.Ethereum.Network != "" {
		return fmt.Errorf("ethereum.beacon_endpoint is required in production when ethereum.network is set")
	}
	return nil
}

// IsProduction reports whether this configuration targets production.
func (c *CertificationConfig) IsProduction() bool {
	return c.Environment == "production"
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} and ${VAR_NAME:-default} references
// with values from the process environment.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		varName := groups[1]
		defaultValue := groups[3]

		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return defaultValue
	})
}
