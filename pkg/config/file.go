// Copyright 2025 Certen Protocol
//
// JSON configuration file loader. The file is optional and layers over the
// env-var Config from Load(): only the recognized fields below are applied,
// unknown fields are ignored, and a field absent from the file leaves the
// env-derived value untouched.

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileConfig is the recognized JSON configuration file surface.
type FileConfig struct {
	Network                             *string `json:"network"`
	SignedEntityTypes                   *string `json:"signed_entity_types"` // comma-joined
	EnableEthereumObserver              *bool   `json:"enable_ethereum_observer"`
	EthereumBeaconEndpoint              *string `json:"ethereum_beacon_endpoint"`
	EthereumNetwork                     *string `json:"ethereum_network"`
	EthereumCertificationIntervalEpochs *uint64 `json:"ethereum_certification_interval_epochs"`
	CardanoNetwork                      *string `json:"cardano_network"`
	QuorumStake                         *uint64 `json:"quorum_stake"`
	DatabaseURL                         *string `json:"database_url"`
}

// LoadFile reads a JSON configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// Apply overlays the file's set fields onto c.
func (fc *FileConfig) Apply(c *Config) {
	if fc.Network != nil {
		c.CardanoNetwork = *fc.Network
	}
	if fc.SignedEntityTypes != nil {
		c.SignedEntityTypes = parseCommaList(*fc.SignedEntityTypes)
	}
	if fc.EnableEthereumObserver != nil {
		c.EnableEthereumObserver = *fc.EnableEthereumObserver
	}
	if fc.EthereumBeaconEndpoint != nil {
		c.EthereumBeaconEndpoint = *fc.EthereumBeaconEndpoint
	}
	if fc.EthereumNetwork != nil {
		c.EthereumNetwork = *fc.EthereumNetwork
	}
	if fc.EthereumCertificationIntervalEpochs != nil {
		c.EthereumCertificationIntervalEpochs = *fc.EthereumCertificationIntervalEpochs
	}
	if fc.CardanoNetwork != nil {
		c.CardanoNetwork = *fc.CardanoNetwork
	}
	if fc.QuorumStake != nil {
		c.QuorumStake = *fc.QuorumStake
	}
	if fc.DatabaseURL != nil {
		c.DatabaseURL = *fc.DatabaseURL
	}
}
