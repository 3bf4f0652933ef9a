// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscription

import (
	"math"
	"unicode/utf8"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"ordscan/internal/scriptreader"
	"ordscan/internal/sequencereader"
)

// parsePhase tracks which buffer an ordinal output's data pushes append to.
type parsePhase int

const (
	phaseContentType parsePhase = iota
	phaseContent
)

// ParseTransaction runs the two-pass detector over a single transaction:
// first a coinbase text-extraction pass over its inputs, then an ordinal
// envelope pass over its outputs. It returns at most one Inscription; the
// first hit wins, inputs before outputs.
//
// ParseTransaction cannot fail: every malformed script, invalid UTF-8
// payload, or unrecognized envelope simply yields no inscription for that
// transaction.
func ParseTransaction(tx *wire.MsgTx) (*Inscription, bool) {
	txid := tx.TxHash().String()

	if content, ok := parseCoinbaseText(tx); ok {
		return &Inscription{TxID: txid, Content: content}, true
	}

	for _, out := range tx.TxOut {
		if content, ok := parseOrdinalOutput(out.PkScript); ok {
			return &Inscription{TxID: txid, Content: content}, true
		}
	}

	return nil, false
}

// isNullOutpoint reports whether op is the coinbase sentinel: an all-zero
// hash paired with the maximum output index.
func isNullOutpoint(op wire.OutPoint) bool {
	return op.Hash == chainhash.Hash{} && op.Index == math.MaxUint32
}

// parseCoinbaseText implements §4.2.1: for each coinbase input, decode its
// signature script, count successful pushes, and take the UTF-8 bytes of
// the third push. Non-coinbase inputs are skipped entirely.
func parseCoinbaseText(tx *wire.MsgTx) (Content, bool) {
	for _, in := range tx.TxIn {
		if !isNullOutpoint(in.PreviousOutPoint) {
			continue
		}

		if text, ok := thirdPushAsText(in.SignatureScript); ok {
			return Text{Value: text}, true
		}
	}

	return nil, false
}

// thirdPushAsText scans script for its third successful Push instruction
// and returns its bytes as a string if they are valid UTF-8. A decode
// error or end of stream before the third push yields false, as does
// invalid UTF-8 at the third push itself. The count is over successfully
// decoded pushes only; intervening opcodes neither advance nor reset it.
func thirdPushAsText(script []byte) (string, bool) {
	sr := sequencereader.New(scriptreader.Decode(script))

	pushes := 0
	for sr.HasNext() {
		ins, _ := sr.Next() // HasNext just checked; Next cannot error here.

		if !ins.IsPush() {
			continue
		}

		pushes++
		if pushes == 3 {
			if !utf8.Valid(ins.Data) {
				return "", false
			}
			return string(ins.Data), true
		}
	}

	return "", false
}

// parseOrdinalOutput implements §4.2.2's state machine over a single
// output's public-key script, driving the ordinal envelope's one-token
// lookahead through a SequenceReader over the script's decoded
// instructions, the same idiom the teacher uses to walk a disassembled
// envelope field by field.
func parseOrdinalOutput(script []byte) (Content, bool) {
	sr := sequencereader.New(scriptreader.Decode(script))

	lead, err := sr.Next()
	if err != nil || !lead.IsZero() {
		return nil, false
	}

	openIf, err := sr.Next()
	if err != nil || !openIf.IsOp(txscript.OP_IF) {
		return nil, false
	}

	var contentType, content []byte
	phase := phaseContentType

loop:
	for sr.HasNext() {
		ins, _ := sr.Next() // HasNext just checked; Next cannot error here.

		switch {
		case ins.IsOp(txscript.OP_ENDIF):
			break loop
		case ins.IsPush():
			switch phase {
			case phaseContentType:
				contentType = append(contentType, ins.Data...)
				if sep, perr := sr.Peek(); perr == nil && sep.IsZero() {
					_, _ = sr.Next()
					phase = phaseContent
				}
			case phaseContent:
				content = append(content, ins.Data...)
			}
		default:
			// Any other opcode inside the IF block is silently skipped;
			// it is neither a separator nor a terminator.
		}
	}

	return Classify(contentType, content)
}
