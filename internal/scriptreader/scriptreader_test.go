// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package scriptreader_test

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"

	"ordscan/internal/scriptreader"
)

func mustScript(t *testing.T, build func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder) []byte {
	t.Helper()
	script, err := build(txscript.NewScriptBuilder()).Script()
	require.NoError(t, err)
	return script
}

func TestDecodeEmptyScript(t *testing.T) {
	require.Empty(t, scriptreader.Decode(nil))
}

func TestDecodeOpAndPush(t *testing.T) {
	script := mustScript(t, func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
		return b.AddOp(txscript.OP_IF).AddData([]byte("hello")).AddOp(txscript.OP_ENDIF)
	})

	ins := scriptreader.Decode(script)
	require.Len(t, ins, 3)

	require.True(t, ins[0].IsOp(txscript.OP_IF))

	require.True(t, ins[1].IsPush())
	require.Equal(t, []byte("hello"), ins[1].Data)

	require.True(t, ins[2].IsOp(txscript.OP_ENDIF))
}

func TestDecodeZeroForms(t *testing.T) {
	t.Run("OP_FALSE", func(t *testing.T) {
		script := mustScript(t, func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddOp(txscript.OP_FALSE)
		})
		ins := scriptreader.Decode(script)
		require.Len(t, ins, 1)
		require.True(t, ins[0].IsZero())
	})

	t.Run("OP_0", func(t *testing.T) {
		script := mustScript(t, func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddOp(txscript.OP_0)
		})
		ins := scriptreader.Decode(script)
		require.Len(t, ins, 1)
		require.True(t, ins[0].IsZero())
	})

	t.Run("explicit empty push", func(t *testing.T) {
		script := mustScript(t, func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			// OP_PUSHDATA1 with a zero length byte; AddData([]byte{}) would
			// canonicalise to OP_0 instead.
			return b.AddOps([]byte{txscript.OP_PUSHDATA1, 0x00})
		})
		ins := scriptreader.Decode(script)
		require.Len(t, ins, 1)
		require.True(t, ins[0].IsEmptyPush())
		require.True(t, ins[0].IsZero())
	})
}

func TestDecodeMalformedScriptStopsCleanly(t *testing.T) {
	// OP_IF followed by a push opcode claiming 5 bytes but only 2 are present.
	script := append([]byte{txscript.OP_IF}, 0x05, 0x01, 0x02)

	ins := scriptreader.Decode(script)
	require.Len(t, ins, 1)
	require.True(t, ins[0].IsOp(txscript.OP_IF))
}
