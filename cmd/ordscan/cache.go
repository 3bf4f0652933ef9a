// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package main

import (
	"fmt"
	"path/filepath"

	"ordscan/internal/cache"
	"ordscan/internal/config"
)

// vestigialCache holds the key-value store and bloom filter described in
// §4.9. Neither is ever consulted from the scan loop; they exist here
// only so the dependency is real, matching the core spec's callout that
// this layer is unused by the scanning path.
type vestigialCache struct {
	store  *cache.Store
	filter *cache.Filter
}

func newVestigialCache(cfg *config.ScanConfig) (*vestigialCache, error) {
	dbPath := filepath.Join(cfg.Storage.ImageDir, "..", "cache")
	store, err := cache.OpenStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open vestigial cache store: %w", err)
	}

	return &vestigialCache{
		store:  store,
		filter: cache.NewFilter(100000, 0.01),
	}, nil
}

func (v *vestigialCache) Close() error {
	return v.store.Close()
}
