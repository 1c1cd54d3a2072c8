// Package merkle implements the BIP37 partial Merkle tree codec: encoding
// a block's matched-transaction subset as a depth-first flag/hash stream,
// and decoding that stream back into the recovered Merkle root and match
// list, using the bit-exact depth-first traversal BIP37 requires,
// including the odd-node duplication rule and the duplicate-sibling
// attack check Bitcoin Core calls out explicitly.
package merkle

import (
	"github.com/sirupsen/logrus"

	"obsidian-core/primitives"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the logger used for decode-failure diagnostics.
// Passing nil restores the standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		log = logrus.StandardLogger()
		return
	}
	log = l
}

// Match is a single matched transaction recovered from a decoded partial
// tree, in ascending order of its original position in the block.
type Match struct {
	Index int
	TxID  primitives.Hash
}

// PartialTree is the encoded form of a subset of a block's Merkle tree:
// enough sibling hashes and traversal flags to let a verifier recompute
// the block's Merkle root while learning only the matched transactions'
// ids.
type PartialTree struct {
	// TxCount is the total number of transactions in the original block.
	TxCount uint32

	// Bits is the ordered sequence of traversal flags consumed
	// depth-first, pre-order, starting at the root.
	Bits []bool

	// Hashes is the ordered sequence of 32-byte digests consumed in the
	// same traversal order as Bits.
	Hashes []primitives.Hash
}

func (t *PartialTree) maxHeight() uint32 {
	return maxHeight(t.TxCount)
}
