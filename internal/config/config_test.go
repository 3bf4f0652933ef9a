// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ordscan/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFullDocument(t *testing.T) {
	path := writeConfig(t, `
node:
  rpc_host: 127.0.0.1:18332
  rpc_user: alice
  rpc_pass: secret
  use_tls: true
  proxy: 127.0.0.1:9050
  max_in_flight: 4
storage:
  image_dir: /tmp/images
  text_log: /tmp/inscriptions.log
processing:
  batch_size: 50
  start_height: 840000
  worker_count: 8
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:18332", cfg.Node.RPCHost)
	require.Equal(t, "alice", cfg.Node.RPCUser)
	require.True(t, cfg.Node.UseTLS)
	require.Equal(t, "127.0.0.1:9050", cfg.Node.Proxy)
	require.Equal(t, 4, cfg.Node.MaxInFlight)
	require.Equal(t, "/tmp/images", cfg.Storage.ImageDir)
	require.Equal(t, 50, cfg.Processing.BatchSize)
	require.Equal(t, uint64(840000), cfg.Processing.StartHeight)
	require.Equal(t, 8, cfg.Processing.WorkerCount)
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeConfig(t, `
node:
  rpc_user: alice
  rpc_pass: secret
storage: {}
processing: {}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8332", cfg.Node.RPCHost)
	require.Equal(t, "", cfg.Node.Proxy)
	require.Equal(t, 16, cfg.Node.MaxInFlight)
	require.Equal(t, "./data/images", cfg.Storage.ImageDir)
	require.Equal(t, "./data/inscriptions.log", cfg.Storage.TextLog)
	require.Equal(t, 1000, cfg.Processing.BatchSize)
	require.Equal(t, 0, cfg.Processing.WorkerCount)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
