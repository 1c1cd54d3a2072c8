package spvtx

import (
	"obsidian-core/primitives"
	"obsidian-core/wire"
)

// FromMsgTx adapts a wire.MsgTx to the Transaction interface the bloom
// filter scans, so the rest of the node can keep using its existing
// transaction type unchanged.
func FromMsgTx(tx *wire.MsgTx) Transaction {
	return msgTxAdapter{tx}
}

type msgTxAdapter struct {
	tx *wire.MsgTx
}

func (a msgTxAdapter) TxID() primitives.Hash {
	return primitives.Hash(a.tx.TxHash())
}

func (a msgTxAdapter) Outputs() []Output {
	out := make([]Output, len(a.tx.TxOut))
	for i, txOut := range a.tx.TxOut {
		out[i] = msgTxOutAdapter{txOut}
	}
	return out
}

func (a msgTxAdapter) Inputs() []Input {
	in := make([]Input, len(a.tx.TxIn))
	for i, txIn := range a.tx.TxIn {
		in[i] = msgTxInAdapter{txIn}
	}
	return in
}

type msgTxOutAdapter struct {
	out *wire.TxOut
}

func (a msgTxOutAdapter) Script() []byte { return a.out.PkScript }

type msgTxInAdapter struct {
	in *wire.TxIn
}

func (a msgTxInAdapter) Script() []byte { return a.in.SignatureScript }

func (a msgTxInAdapter) PreviousOutpoint() Outpoint {
	return Outpoint{
		Hash:  primitives.Hash(a.in.PreviousOutPoint.Hash),
		Index: a.in.PreviousOutPoint.Index,
	}
}
