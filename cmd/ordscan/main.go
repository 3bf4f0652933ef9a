// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Command ordscan walks a Bitcoin node's block range, detects ordinal
// inscriptions, classifies their payloads, and persists them to disk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"

	"ordscan/internal/applog"
	"ordscan/internal/config"
	"ordscan/internal/inscription"
	"ordscan/internal/metrics"
	"ordscan/internal/node"
	"ordscan/internal/pipeline"
	"ordscan/internal/storage"
)

// options are the command's flags, parsed with the struct-tag-driven
// github.com/jessevdk/go-flags idiom the teacher's dependency graph
// already assumes.
type options struct {
	ConfigPath  string `short:"c" long:"config" description:"path to the YAML config file" default:"ordscan.yaml"`
	StartHeight uint64 `long:"start-height" description:"override processing.start_height from the config file"`
	EndHeight   uint64 `long:"end-height" description:"stop scanning before this height (required unless --mock)"`
	Mock        bool   `long:"mock" description:"generate synthetic blocks instead of querying a live node"`
	LogPath     string `long:"log-path" description:"rotating log file path; empty logs to stdout only"`
	Verbose     bool   `short:"v" long:"verbose" description:"enable debug-level logging"`
}

var log = btclog.Disabled

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		return err
	}

	level := btclog.LevelInfo
	if opts.Verbose {
		level = btclog.LevelDebug
	}

	backend, err := applog.New(opts.LogPath)
	if err != nil {
		return fmt.Errorf("ordscan: %w", err)
	}
	defer backend.Close()

	log = backend.Logger("MAIN", level)
	node.UseLogger(backend.Logger("NODE", level))

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("ordscan: %w", err)
	}

	startHeight := cfg.Processing.StartHeight
	if opts.StartHeight != 0 {
		startHeight = opts.StartHeight
	}

	if !opts.Mock && opts.EndHeight == 0 {
		return fmt.Errorf("ordscan: --end-height is required unless --mock")
	}

	sink, err := storage.New(cfg.Storage.ImageDir, cfg.Storage.TextLog)
	if err != nil {
		return fmt.Errorf("ordscan: %w", err)
	}
	defer sink.Close()

	// Constructed for completeness per §4.9; never consulted by the
	// scan loop below.
	vestigialCache, err := newVestigialCache(cfg)
	if err != nil {
		return fmt.Errorf("ordscan: %w", err)
	}
	defer vestigialCache.Close()

	driver := pipeline.NewDriver(cfg.Processing.BatchSize, cfg.Processing.WorkerCount)
	stats := metrics.New()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.Mock {
		return scan(ctx, startHeight, mockEndHeight(opts, startHeight), mockFetcher{}, driver, sink, stats)
	}

	client, err := node.New(node.Config{
		RPCHost:     cfg.Node.RPCHost,
		RPCUser:     cfg.Node.RPCUser,
		RPCPass:     cfg.Node.RPCPass,
		UseTLS:      cfg.Node.UseTLS,
		Proxy:       cfg.Node.Proxy,
		MaxInFlight: cfg.Node.MaxInFlight,
	})
	if err != nil {
		return fmt.Errorf("ordscan: %w", err)
	}
	defer client.Shutdown()

	return scan(ctx, startHeight, opts.EndHeight, client, driver, sink, stats)
}

func mockEndHeight(opts options, start uint64) uint64 {
	if opts.EndHeight > start {
		return opts.EndHeight
	}
	return start + 10
}

// blockFetcher is the block source contract of §6, narrowed to what
// scan needs; *node.Client satisfies it directly, mockFetcher stands in
// for --mock runs.
type blockFetcher interface {
	FetchBlockRange(ctx context.Context, start, endExclusive uint64) ([]*wire.MsgBlock, error)
}

// scan walks [start, end) in batch-size chunks: fetch, run the Parallel
// Driver, store every resulting inscription, log progress.
func scan(ctx context.Context, start, end uint64, fetcher blockFetcher, driver *pipeline.Driver, sink *storage.Sink, stats *metrics.Metrics) error {
	batchSize := uint64(driver.BatchSize())
	if batchSize == 0 {
		batchSize = 1
	}

	for height := start; height < end; height += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunkEnd := height + batchSize
		if chunkEnd > end {
			chunkEnd = end
		}

		blocks, err := fetcher.FetchBlockRange(ctx, height, chunkEnd)
		if err != nil {
			return fmt.Errorf("fetch blocks %d..%d: %w", height, chunkEnd, err)
		}
		stats.AddBlocksProcessed(uint64(len(blocks)))

		inscriptions, err := driver.ProcessBlocks(ctx, blocks)
		if err != nil {
			return fmt.Errorf("process blocks %d..%d: %w", height, chunkEnd, err)
		}

		for _, ins := range inscriptions {
			stats.AddInscriptionFound(inscriptionKind(ins))
			if err := sink.StoreInscription(ins); err != nil {
				log.Errorf("failed to store inscription %s: %v", ins.TxID, err)
			}
		}

		log.Infof("processed blocks %d..%d, found %d inscriptions", height, chunkEnd, len(inscriptions))
	}

	snap := stats.Snapshot()
	log.Infof("scan complete: %d blocks, %d text, %d image, %d unknown, %.2f blocks/sec",
		snap.BlocksProcessed, snap.TextFound, snap.ImagesFound, snap.UnknownFound, snap.BlocksPerSecond)

	return nil
}

// inscriptionKind names ins's content variant for metrics purposes.
func inscriptionKind(ins inscription.Inscription) string {
	switch ins.Content.(type) {
	case inscription.Text:
		return "text"
	case inscription.Image:
		return "image"
	default:
		return "unknown"
	}
}
