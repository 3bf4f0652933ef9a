// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package cache carries the vestigial key-value store and approximate-
// membership filter described in §4.9: both are fully implemented and
// tested, but the scan path in cmd/ordscan never calls either. They are
// constructed once at startup for completeness and otherwise untouched.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"
)

// CacheEntry is an opaque key/value pair whose Value is encoded with
// encoding/gob before being written to the Store under the raw Key,
// present purely so the store has
// something realistic to hold in its own tests.
type CacheEntry struct {
	Key   string
	Value []byte
}

// Store is a Snappy-compressed goleveldb-backed key-value store,
// mirroring the original implementation's Snappy-compressed RocksDB.
type Store struct {
	db *leveldb.DB
}

// OpenStore opens (creating if necessary) a leveldb database at path.
func OpenStore(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to open store at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put gob-encodes entry.Value, Snappy-compresses it, and writes it under
// entry.Key.
func (s *Store) Put(entry CacheEntry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry.Value); err != nil {
		return fmt.Errorf("cache: encode value for key %q: %w", entry.Key, err)
	}

	compressed := snappy.Encode(nil, buf.Bytes())
	if err := s.db.Put([]byte(entry.Key), compressed, nil); err != nil {
		return fmt.Errorf("cache: put key %q: %w", entry.Key, err)
	}
	return nil
}

// Get reads back the value stored under key, reversing Put's Snappy
// compression and gob encoding. ok is false if the key is absent.
func (s *Store) Get(key string) (value []byte, ok bool, err error) {
	compressed, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get key %q: %w", key, err)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false, fmt.Errorf("cache: decompress key %q: %w", key, err)
	}

	var out []byte
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("cache: decode key %q: %w", key, err)
	}
	return out, true, nil
}

// Delete removes key, if present.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("cache: delete key %q: %w", key, err)
	}
	return nil
}
