// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package node implements the block source collaborator: a thin wrapper
// around a bitcoind JSON-RPC client that fetches a contiguous range of
// blocks by height, tolerating gaps left by individually unfetchable
// heights.
package node

import (
	"context"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/lru"
)

// seenHashCacheSize bounds the debug-only "already fetched this run" LRU.
// It has no effect on scanning semantics; the range fetch below never
// consults it to skip or deduplicate a height, preserving the core's
// non-goal of no cross-block deduplication.
const seenHashCacheSize uint64 = 4096

// Config holds the parameters needed to dial a node's RPC endpoint.
type Config struct {
	RPCHost     string
	RPCUser     string
	RPCPass     string
	UseTLS      bool
	Proxy       string
	MaxInFlight int
}

// rpcAPI is the subset of rpcclient.Client this package calls, narrowed
// to a small interface so tests can substitute a fake transport instead
// of dialing a real bitcoind.
type rpcAPI interface {
	GetBlockHash(height int64) (*chainhash.Hash, error)
	GetBlock(hash *chainhash.Hash) (*wire.MsgBlock, error)
	Shutdown()
}

// Client fetches blocks from a bitcoind-compatible JSON-RPC endpoint in
// request/response (HTTP POST) mode. It never opens the notification/
// websocket mode: a fixed historical range has no use for push updates.
type Client struct {
	rpc      rpcAPI
	inFlight chan struct{}
	seenHash *lru.Cache[chainhash.Hash]
}

// New dials the RPC endpoint described by cfg. The connection is made in
// HTTP POST mode (HTTPPostMode, with DisableTLS set from cfg.UseTLS), with
// no reconnection goroutine: a dead connection surfaces as a call error.
func New(cfg Config) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.RPCHost,
		User:         cfg.RPCUser,
		Pass:         cfg.RPCPass,
		HTTPPostMode: true,
		DisableTLS:   !cfg.UseTLS,
	}
	if cfg.Proxy != "" {
		connCfg.Proxy = cfg.Proxy
	}

	rpc, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("node: failed to dial rpc endpoint: %w", err)
	}

	return newClient(rpc, cfg.MaxInFlight), nil
}

// newClient builds a Client around any rpcAPI implementation, real or
// fake, bounding concurrent fetches to maxInFlight (at least 1).
func newClient(rpc rpcAPI, maxInFlight int) *Client {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}

	return &Client{
		rpc:      rpc,
		inFlight: make(chan struct{}, maxInFlight),
		seenHash: lru.NewCache[chainhash.Hash](seenHashCacheSize),
	}
}

// Shutdown releases the underlying RPC connection.
func (c *Client) Shutdown() {
	c.rpc.Shutdown()
}

// FetchBlockRange walks start..endExclusive, returning every block it
// could fetch in ascending height order. Fetches for distinct heights run
// concurrently, bounded by the client's in-flight semaphore; a single
// unfetchable height (hash lookup or block fetch error) is logged and
// skipped, so the caller sees a gap rather than an aborted range, per §6.
func (c *Client) FetchBlockRange(ctx context.Context, start, endExclusive uint64) ([]*wire.MsgBlock, error) {
	if endExclusive <= start {
		return nil, nil
	}

	n := endExclusive - start
	slots := make([]*wire.MsgBlock, n)

	var wg sync.WaitGroup
	for i := uint64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		height := start + i
		idx := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			block, err := c.fetchOne(height)
			if err != nil {
				log.Warnf("node: skipping unfetchable block at height %d: %v", height, err)
				return
			}
			slots[idx] = block
		}()
	}
	wg.Wait()

	blocks := make([]*wire.MsgBlock, 0, n)
	for _, b := range slots {
		if b != nil {
			blocks = append(blocks, b)
		}
	}

	return blocks, nil
}

// fetchOne acquires an in-flight slot, resolves height to a hash, fetches
// the block and records the hash in the debug-only LRU before returning.
func (c *Client) fetchOne(height uint64) (*wire.MsgBlock, error) {
	c.inFlight <- struct{}{}
	defer func() { <-c.inFlight }()

	hash, err := c.rpc.GetBlockHash(int64(height))
	if err != nil {
		return nil, fmt.Errorf("get block hash: %w", err)
	}

	if c.seenHash.Contains(*hash) {
		log.Debugf("node: re-fetched a hash already seen this run: %s", hash)
	}
	c.seenHash.Add(*hash)

	block, err := c.rpc.GetBlock(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}

	return block, nil
}

