// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package scriptreader turns a raw Bitcoin script into the sequence of
// typed instructions it decodes to, absorbing a decode error as a clean
// end of an otherwise well-formed prefix of the stream rather than
// failing the whole script.
package scriptreader

import (
	"github.com/btcsuite/btcd/txscript"
)

// Kind discriminates the two instruction shapes a script decodes into.
type Kind int

const (
	// KindOp is a single opcode byte carrying no associated data.
	KindOp Kind = iota
	// KindPush is a data push carrying a (possibly empty) byte slice.
	KindPush
)

// Instruction is one decoded script token: either a bare opcode or a data push.
type Instruction struct {
	Kind Kind
	Op   byte
	Data []byte
}

// IsOp reports whether the instruction is the bare opcode op.
func (i Instruction) IsOp(op byte) bool {
	return i.Kind == KindOp && i.Op == op
}

// IsPush reports whether the instruction is a data push.
func (i Instruction) IsPush() bool {
	return i.Kind == KindPush
}

// IsEmptyPush reports whether the instruction is a data push of zero bytes.
func (i Instruction) IsEmptyPush() bool {
	return i.Kind == KindPush && len(i.Data) == 0
}

// IsZero reports whether the instruction is any of the three interchangeable
// forms of "zero": OP_FALSE, OP_0, or an explicit empty data push.
func (i Instruction) IsZero() bool {
	return i.IsOp(txscript.OP_FALSE) || i.IsOp(txscript.OP_0) || i.IsEmptyPush()
}

// isPushOpcode reports whether op belongs to the data-push opcode family
// (OP_DATA_1..OP_DATA_75, OP_PUSHDATA1, OP_PUSHDATA2, OP_PUSHDATA4).
// OP_0/OP_FALSE (0x00) is excluded: it is a bare opcode that happens to push
// an empty value, and the spec models it as Op, not Push.
func isPushOpcode(op byte) bool {
	return op > txscript.OP_0 && op <= txscript.OP_PUSHDATA4
}

// Decode turns script's raw bytes into the full sequence of instructions
// it decodes to. A decode error terminates the stream cleanly: the
// returned slice holds every instruction successfully decoded up to that
// point, and nothing past it; a well-formed script decodes in full.
func Decode(script []byte) []Instruction {
	tok := txscript.MakeScriptTokenizer(0, script)

	var out []Instruction
	for tok.Next() {
		op := tok.Opcode()
		if isPushOpcode(op) {
			data := tok.Data()
			if data == nil {
				data = []byte{}
			}
			out = append(out, Instruction{Kind: KindPush, Op: op, Data: data})
			continue
		}
		out = append(out, Instruction{Kind: KindOp, Op: op})
	}

	return out
}
