package merkle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"obsidian-core/primitives"
)

func TestParsePaddingToleranceUpToByteBoundary(t *testing.T) {
	leaves := makeLeaves(3)
	tree, wantRoot := Build(leaves, []bool{true, false, false})

	// 5 real bits; pad with up to 3 more zero bits to reach a byte
	// boundary without changing the decoded result.
	padded := &PartialTree{
		TxCount: tree.TxCount,
		Bits:    append(append([]bool{}, tree.Bits...), false, false, false),
		Hashes:  tree.Hashes,
	}

	root, matches, err := Parse(padded)
	if err != nil {
		t.Fatalf("Parse with byte-boundary padding: %v", err)
	}
	if root != wantRoot {
		t.Fatalf("root = %x, want %x", root, wantRoot)
	}
	if len(matches) != 1 || matches[0].Index != 0 {
		t.Fatalf("matches = %v, want [{0 ...}]", matches)
	}
}

func TestParseRejectsExcessPadding(t *testing.T) {
	leaves := makeLeaves(3)
	tree, _ := Build(leaves, []bool{true, false, false})

	// 5 real bits + 8 extra bits is more than the 3 bits of tolerance a
	// single byte boundary allows.
	overPadded := &PartialTree{
		TxCount: tree.TxCount,
		Bits:    append(append([]bool{}, tree.Bits...), make([]bool, 8)...),
		Hashes:  tree.Hashes,
	}

	_, _, err := Parse(overPadded)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, ReasonBitOverflow, decErr.Reason)
}

func TestParseRejectsDuplicateSibling(t *testing.T) {
	// A 2-leaf block where both leaves happen to carry the same hash and
	// both are flagged matched: a genuine (non-duplicated) right child
	// whose hash equals its left sibling's must be rejected.
	leaf := leafHash(0)
	tree := &PartialTree{
		TxCount: 2,
		Bits:    []bool{true, true, true},
		Hashes:  []primitives.Hash{leaf, leaf},
	}

	_, _, err := Parse(tree)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, ReasonDuplicateSibling, decErr.Reason)
}

func TestParseRejectsHashOverflow(t *testing.T) {
	leaves := makeLeaves(1)
	tree, _ := Build(leaves, []bool{true})
	tree.Hashes = append(tree.Hashes, leaves[0]) // one extra, unconsumed hash

	_, _, err := Parse(tree)
	var decErr *DecodeError
	if !errors.As(err, &decErr) || decErr.Reason != ReasonHashOverflow {
		t.Fatalf("Parse with leftover hash: got %v, want ReasonHashOverflow", err)
	}
}

func TestParseRejectsHashUnderflow(t *testing.T) {
	leaves := makeLeaves(3)
	tree, _ := Build(leaves, []bool{true, true, false})
	tree.Hashes = tree.Hashes[:len(tree.Hashes)-1] // drop a hash the traversal needs

	_, _, err := Parse(tree)
	var decErr *DecodeError
	if !errors.As(err, &decErr) || decErr.Reason != ReasonHashUnderflow {
		t.Fatalf("Parse with missing hash: got %v, want ReasonHashUnderflow", err)
	}
}
