// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package applog sets up the rotating, subsystem-tagged logging backend
// shared by every package in this program, following the btcsuite/btcd
// convention of a single process-wide backend handing out named Logger
// instances to each subsystem.
package applog

import (
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// defaultMaxRolls is the number of rotated log files kept alongside the
// active one.
const defaultMaxRolls = 3

// defaultMaxSizeKB is the size, in kilobytes, at which the active log
// file is rotated.
const defaultMaxSizeKB = 10 * 1024

// Backend owns the rotating writer and hands out per-subsystem loggers.
type Backend struct {
	backend *btclog.Backend
	rotator *rotator.Rotator
}

// New creates a Backend writing to both stdout and a rotating file at
// logPath. Pass an empty logPath to log to stdout only. The backend
// itself carries no default level; every subsystem logger handed out by
// Logger sets its own, per the btcsuite/btcd convention of leveling by
// subsystem rather than by backend.
func New(logPath string) (*Backend, error) {
	var writer io.Writer = os.Stdout

	var r *rotator.Rotator
	if logPath != "" {
		var err error
		r, err = rotator.New(logPath, defaultMaxSizeKB, false, defaultMaxRolls)
		if err != nil {
			return nil, fmt.Errorf("applog: failed to create log rotator: %w", err)
		}
		writer = io.MultiWriter(os.Stdout, r)
	}

	return &Backend{
		backend: btclog.NewBackend(writer),
		rotator: r,
	}, nil
}

// Logger returns a named subsystem logger at the given level, the
// btcsuite/btcd convention for tagging log lines by originating package
// (e.g. "NODE", "PIPE", "STOR").
func (b *Backend) Logger(subsystemTag string, level btclog.Level) btclog.Logger {
	l := b.backend.Logger(subsystemTag)
	l.SetLevel(level)
	return l
}

// Close flushes and closes the underlying rotator, if any.
func (b *Backend) Close() error {
	if b.rotator == nil {
		return nil
	}
	return b.rotator.Close()
}
