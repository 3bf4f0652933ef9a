// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package metrics tracks scan throughput with atomic counters, restated
// from the original implementation's AtomicU64-based Metrics/
// MetricsSnapshot pair. No dedicated metrics-export library appears
// anywhere in the example pack for this concern, so sync/atomic is used
// directly.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics accumulates scan counters for the lifetime of one process run.
// Safe for concurrent use by every pipeline worker.
type Metrics struct {
	blocksProcessed    atomic.Uint64
	textFound          atomic.Uint64
	imagesFound        atomic.Uint64
	unknownFound       atomic.Uint64
	scriptDecodeErrors atomic.Uint64
	processingMicros   atomic.Uint64
	start              time.Time
}

// New returns a Metrics with its wall-clock start time set to now.
func New() *Metrics {
	return &Metrics{start: time.Now()}
}

// AddBlocksProcessed records count additional blocks having been scanned.
func (m *Metrics) AddBlocksProcessed(count uint64) {
	m.blocksProcessed.Add(count)
}

// AddInscriptionFound increments the counter matching which variant was
// found: "text", "image", or "unknown". An unrecognized kind is ignored.
func (m *Metrics) AddInscriptionFound(kind string) {
	switch kind {
	case "text":
		m.textFound.Add(1)
	case "image":
		m.imagesFound.Add(1)
	case "unknown":
		m.unknownFound.Add(1)
	}
}

// AddScriptDecodeError records one script that failed to decode cleanly.
func (m *Metrics) AddScriptDecodeError() {
	m.scriptDecodeErrors.Add(1)
}

// AddProcessingTime accumulates wall time spent inside the Parallel
// Driver, independent of the overall process lifetime tracked by start.
func (m *Metrics) AddProcessingTime(d time.Duration) {
	m.processingMicros.Add(uint64(d.Microseconds()))
}

// Snapshot is an immutable point-in-time read of the running counters,
// with rates derived at read time rather than maintained incrementally.
type Snapshot struct {
	BlocksProcessed      uint64
	TextFound            uint64
	ImagesFound          uint64
	UnknownFound         uint64
	ScriptDecodeErrors   uint64
	ProcessingTime       time.Duration
	TotalTime            time.Duration
	BlocksPerSecond      float64
	InscriptionsPerBlock float64
}

// Snapshot reads every counter and derives the rate fields from them.
func (m *Metrics) Snapshot() Snapshot {
	blocks := m.blocksProcessed.Load()
	text := m.textFound.Load()
	images := m.imagesFound.Load()
	unknown := m.unknownFound.Load()
	inscriptions := text + images + unknown
	totalTime := time.Since(m.start)

	var blocksPerSecond, inscriptionsPerBlock float64
	if secs := totalTime.Seconds(); secs > 0 {
		blocksPerSecond = float64(blocks) / secs
	}
	if blocks > 0 {
		inscriptionsPerBlock = float64(inscriptions) / float64(blocks)
	}

	return Snapshot{
		BlocksProcessed:      blocks,
		TextFound:            text,
		ImagesFound:          images,
		UnknownFound:         unknown,
		ScriptDecodeErrors:   m.scriptDecodeErrors.Load(),
		ProcessingTime:       time.Duration(m.processingMicros.Load()) * time.Microsecond,
		TotalTime:            totalTime,
		BlocksPerSecond:      blocksPerSecond,
		InscriptionsPerBlock: inscriptionsPerBlock,
	}
}
