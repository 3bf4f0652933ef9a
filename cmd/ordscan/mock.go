// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package main

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// mockFetcher generates synthetic single-transaction blocks instead of
// querying a live node, mirroring the original implementation's
// create_mock_inscription_block demo path used by --mock.
type mockFetcher struct{}

// FetchBlockRange builds one block per height in [start, endExclusive),
// each containing a single ordinal text inscription.
func (mockFetcher) FetchBlockRange(_ context.Context, start, endExclusive uint64) ([]*wire.MsgBlock, error) {
	if endExclusive <= start {
		return nil, nil
	}

	blocks := make([]*wire.MsgBlock, 0, endExclusive-start)
	for height := start; height < endExclusive; height++ {
		block, err := mockInscriptionBlock(height)
		if err != nil {
			return nil, fmt.Errorf("build mock block %d: %w", height, err)
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// mockInscriptionBlock builds a single-output transaction whose
// public-key script is an ordinal envelope:
// OP_FALSE OP_IF <text/plain;charset=utf-8> OP_0 <"Hello from block N!"> OP_ENDIF
func mockInscriptionBlock(height uint64) (*wire.MsgBlock, error) {
	content := []byte(fmt.Sprintf("Hello from block %d!", height))

	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_FALSE).
		AddOp(txscript.OP_IF).
		AddData([]byte("text/plain;charset=utf-8")).
		AddOp(txscript.OP_0).
		AddData(content).
		AddOp(txscript.OP_ENDIF).
		Script()
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(0, script))

	block := wire.NewMsgBlock(&wire.BlockHeader{PrevBlock: chainhash.Hash{}})
	block.AddTransaction(tx)

	return block, nil
}
