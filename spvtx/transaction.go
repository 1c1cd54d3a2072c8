// Package spvtx defines the narrow, read-only transaction view the bloom
// filter's scanning operations consume, decoupled from the node's full
// wire.MsgTx (which also carries Zcash-style shielded fields the
// filtering core has no business touching).
package spvtx

import "obsidian-core/primitives"

// Outpoint identifies a specific previous output: a transaction id and
// its output index.
type Outpoint struct {
	Hash  primitives.Hash
	Index uint32
}

// Bytes returns the outpoint's canonical byte serialisation,
// tx_id ++ LE_u32(vout_index), as BIP37 requires for filter membership
// checks.
func (o Outpoint) Bytes() []byte {
	b := make([]byte, primitives.HashSize+4)
	copy(b, o.Hash[:])
	b[primitives.HashSize] = byte(o.Index)
	b[primitives.HashSize+1] = byte(o.Index >> 8)
	b[primitives.HashSize+2] = byte(o.Index >> 16)
	b[primitives.HashSize+3] = byte(o.Index >> 24)
	return b
}

// Output is a single transaction output as the filtering core needs to
// see it: its raw script, available for both push-data extraction and
// pay-to-pubkey/bare-multisig shape classification.
type Output interface {
	Script() []byte
}

// Input is a single transaction input as the filtering core needs to see
// it: the outpoint it spends, and its signature script.
type Input interface {
	PreviousOutpoint() Outpoint
	Script() []byte
}

// Transaction is the read-only view of a transaction that bloom filter
// scanning operates over.
type Transaction interface {
	TxID() primitives.Hash
	Outputs() []Output
	Inputs() []Input
}
