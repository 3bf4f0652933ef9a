// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package pipeline_test

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"ordscan/internal/pipeline"
)

func ordinalTx(t *testing.T, mime string, data []byte) *wire.MsgTx {
	t.Helper()
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_FALSE).AddOp(txscript.OP_IF).
		AddData([]byte(mime)).AddOp(txscript.OP_0).
		AddData(data).AddOp(txscript.OP_ENDIF).
		Script()
	require.NoError(t, err)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, []byte{}, nil))
	tx.AddTxOut(wire.NewTxOut(0, script))
	return tx
}

func plainTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, []byte{}, nil))
	tx.AddTxOut(wire.NewTxOut(0, []byte{0x51}))
	return tx
}

func blockOf(txs ...*wire.MsgTx) *wire.MsgBlock {
	block := wire.NewMsgBlock(&wire.BlockHeader{})
	for _, tx := range txs {
		block.AddTransaction(tx)
	}
	return block
}

func TestProcessBlocksPreservesOrder(t *testing.T) {
	var blocks []*wire.MsgBlock
	var expectedTxIDs []string

	for i := 0; i < 5; i++ {
		hitTx := ordinalTx(t, "image/png", []byte{byte(i)})
		missTx := plainTx()
		blocks = append(blocks, blockOf(missTx, hitTx))
		expectedTxIDs = append(expectedTxIDs, hitTx.TxHash().String())
	}

	driver := pipeline.NewDriver(2, 4)
	got, err := driver.ProcessBlocks(context.Background(), blocks)
	require.NoError(t, err)
	require.Len(t, got, len(expectedTxIDs))

	for i, ins := range got {
		require.Equal(t, expectedTxIDs[i], ins.TxID)
	}
}

func TestProcessBlocksIsSubsequenceOfAllTxIDs(t *testing.T) {
	var blocks []*wire.MsgBlock
	var allTxIDs []string
	var hitTxIDs []string

	for i := 0; i < 3; i++ {
		miss1 := plainTx()
		hit := ordinalTx(t, "application/json", []byte("{}"))
		miss2 := plainTx()
		blocks = append(blocks, blockOf(miss1, hit, miss2))
		allTxIDs = append(allTxIDs, miss1.TxHash().String(), hit.TxHash().String(), miss2.TxHash().String())
		hitTxIDs = append(hitTxIDs, hit.TxHash().String())
	}

	driver := pipeline.NewDriver(1, 3)
	got, err := driver.ProcessBlocks(context.Background(), blocks)
	require.NoError(t, err)

	gotIDs := make([]string, len(got))
	for i, ins := range got {
		gotIDs[i] = ins.TxID
	}
	require.Equal(t, hitTxIDs, gotIDs)

	// every returned txid must actually appear somewhere in the input.
	all := make(map[string]bool, len(allTxIDs))
	for _, id := range allTxIDs {
		all[id] = true
	}
	for _, id := range gotIDs {
		require.True(t, all[id])
	}
}

func TestProcessBlocksEmptyBatch(t *testing.T) {
	driver := pipeline.NewDriver(10, 0)
	got, err := driver.ProcessBlocks(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestProcessBlocksToleratesNilBlockGaps(t *testing.T) {
	hit := ordinalTx(t, "image/png", []byte{1})
	blocks := []*wire.MsgBlock{blockOf(hit), nil, blockOf(plainTx())}

	driver := pipeline.NewDriver(2, 2)
	got, err := driver.ProcessBlocks(context.Background(), blocks)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, hit.TxHash().String(), got[0].TxID)
}

func TestProcessBlocksRespectsContextCancellation(t *testing.T) {
	blocks := []*wire.MsgBlock{blockOf(plainTx()), blockOf(plainTx())}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := pipeline.NewDriver(1, 2)
	_, err := driver.ProcessBlocks(ctx, blocks)
	require.Error(t, err)
}
