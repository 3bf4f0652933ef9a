// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package config loads the scanner's YAML configuration document into a
// ScanConfig, applying defaults for fields operators commonly omit.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeConfig describes how to reach the Bitcoin node's RPC endpoint.
type NodeConfig struct {
	RPCHost     string `yaml:"rpc_host"`
	RPCUser     string `yaml:"rpc_user"`
	RPCPass     string `yaml:"rpc_pass"`
	UseTLS      bool   `yaml:"use_tls"`
	Proxy       string `yaml:"proxy"`
	MaxInFlight int    `yaml:"max_in_flight"`
}

// StorageConfig describes where discovered inscriptions are written.
type StorageConfig struct {
	ImageDir string `yaml:"image_dir"`
	TextLog  string `yaml:"text_log"`
}

// ProcessingConfig describes the scan range and the Parallel Driver's
// chunk size. BatchSize is the single value the core engine itself
// consumes (§6); StartHeight and WorkerCount belong to the surrounding
// program.
type ProcessingConfig struct {
	BatchSize   int    `yaml:"batch_size"`
	StartHeight uint64 `yaml:"start_height"`
	WorkerCount int    `yaml:"worker_count"`
}

// ScanConfig is the root of the YAML configuration document.
type ScanConfig struct {
	Node       NodeConfig       `yaml:"node"`
	Storage    StorageConfig    `yaml:"storage"`
	Processing ProcessingConfig `yaml:"processing"`
}

// defaults mirror the original Rust implementation's Default impl,
// restated as the zero-value fallbacks applied after parsing.
const (
	defaultRPCHost     = "127.0.0.1:8332"
	defaultImageDir    = "./data/images"
	defaultTextLog     = "./data/inscriptions.log"
	defaultBatchSize   = 1000
	defaultMaxInFlight = 16
)

// Load reads and parses the YAML document at path, applying defaults for
// zero-valued optional fields. worker_count is left at 0 ("use the
// logical CPU count", resolved by the Parallel Driver itself) and an empty
// proxy is left empty ("no SOCKS5 proxy"); both are valid, meaningful
// zero values, not omissions to paper over.
func Load(path string) (*ScanConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg ScanConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in zero-valued optional fields in place.
func applyDefaults(cfg *ScanConfig) {
	if cfg.Node.RPCHost == "" {
		cfg.Node.RPCHost = defaultRPCHost
	}
	if cfg.Node.MaxInFlight <= 0 {
		cfg.Node.MaxInFlight = defaultMaxInFlight
	}
	if cfg.Storage.ImageDir == "" {
		cfg.Storage.ImageDir = defaultImageDir
	}
	if cfg.Storage.TextLog == "" {
		cfg.Storage.TextLog = defaultTextLog
	}
	if cfg.Processing.BatchSize <= 0 {
		cfg.Processing.BatchSize = defaultBatchSize
	}
}
