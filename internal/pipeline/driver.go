// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package pipeline fans a batch of fetched blocks across a bounded worker
// pool, running the inscription parser over every transaction and
// collecting results in strict input order.
package pipeline

import (
	"context"
	"runtime"

	"github.com/btcsuite/btcd/wire"
	"golang.org/x/sync/errgroup"

	"ordscan/internal/inscription"
)

// Driver partitions block batches into fixed-size chunks and processes
// them with at most workers goroutines at a time. The goroutines are
// started for each ProcessBlocks call; none are kept between calls.
type Driver struct {
	batchSize int
	workers   int
}

// NewDriver constructs a Driver. batchSize is the caller-configured chunk
// size; workers bounds concurrency, and 0 means runtime.NumCPU(), the
// number of logical CPUs usable by the process (physical cores are not
// counted separately).
func NewDriver(batchSize, workers int) *Driver {
	if batchSize <= 0 {
		batchSize = 1
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Driver{batchSize: batchSize, workers: workers}
}

// BatchSize returns the chunk size this Driver partitions block batches
// into, for callers (e.g. the CLI's scan loop) sizing their own fetch
// requests to match.
func (d *Driver) BatchSize() int {
	return d.batchSize
}

// ProcessBlocks is the Parallel Driver's public operation. It returns the
// inscriptions found across blocks, in (block_index, tx_index,
// input-before-output) order: parallelism is an implementation of that
// sequential order, never a weakening of it. The Parser cannot fail, so
// the only error this can return is ctx cancellation between chunks.
func (d *Driver) ProcessBlocks(ctx context.Context, blocks []*wire.MsgBlock) ([]inscription.Inscription, error) {
	chunks := chunkBlocks(blocks, d.batchSize)

	// Indexed by chunk position so results are concatenated in input
	// order regardless of which worker finishes first. A shared mutable
	// queue would not give this guarantee.
	perChunk := make([][]inscription.Inscription, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perChunk[i] = processChunk(chunk)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range perChunk {
		total += len(c)
	}

	out := make([]inscription.Inscription, 0, total)
	for _, c := range perChunk {
		out = append(out, c...)
	}

	return out, nil
}

// processChunk runs the parser over every transaction of every block in
// chunk, in order, collecting into a single per-chunk slice.
func processChunk(chunk []*wire.MsgBlock) []inscription.Inscription {
	var out []inscription.Inscription
	for _, block := range chunk {
		if block == nil {
			continue
		}
		for _, tx := range block.Transactions {
			if ins, ok := inscription.ParseTransaction(tx); ok {
				out = append(out, *ins)
			}
		}
	}
	return out
}

// chunkBlocks splits blocks into fixed-size, contiguous, order-preserving
// chunks of at most size elements each.
func chunkBlocks(blocks []*wire.MsgBlock, size int) [][]*wire.MsgBlock {
	if len(blocks) == 0 {
		return nil
	}

	chunks := make([][]*wire.MsgBlock, 0, (len(blocks)+size-1)/size)
	for start := 0; start < len(blocks); start += size {
		end := start + size
		if end > len(blocks) {
			end = len(blocks)
		}
		chunks = append(chunks, blocks[start:end])
	}

	return chunks
}
