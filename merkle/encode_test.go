package merkle

import (
	"testing"

	"obsidian-core/primitives"
)

func leafHash(i int) primitives.Hash {
	var h primitives.Hash
	h[0] = byte(i + 1)
	h[1] = byte((i + 1) >> 8)
	return h
}

func makeLeaves(n int) []primitives.Hash {
	out := make([]primitives.Hash, n)
	for i := range out {
		out[i] = leafHash(i)
	}
	return out
}

func TestBuildSingleTransactionBlock(t *testing.T) {
	leaves := makeLeaves(1)
	matches := []bool{true}

	tree, root := Build(leaves, matches)

	if len(tree.Bits) != 1 || !tree.Bits[0] {
		t.Fatalf("Bits = %v, want [true]", tree.Bits)
	}
	if len(tree.Hashes) != 1 || tree.Hashes[0] != leaves[0] {
		t.Fatalf("Hashes = %v, want [%x]", tree.Hashes, leaves[0])
	}
	if root != leaves[0] {
		t.Fatalf("root = %x, want %x (the single leaf)", root, leaves[0])
	}
}

func TestBuildOddWidthDuplication(t *testing.T) {
	leaves := makeLeaves(3)
	matches := []bool{true, false, false}

	tree, root := Build(leaves, matches)

	if len(tree.Hashes) != 3 {
		t.Fatalf("Hashes = %v, want 3 entries (tx0, tx1, duplicate-of-tx2 inner node)", tree.Hashes)
	}
	if tree.Hashes[0] != leaves[0] || tree.Hashes[1] != leaves[1] {
		t.Fatalf("Hashes[0:2] = %x, %x; want tx0, tx1", tree.Hashes[0], tree.Hashes[1])
	}

	wantDup := primitives.DoubleSHA256H(leaves[2], leaves[2])
	if tree.Hashes[2] != wantDup {
		t.Fatalf("Hashes[2] = %x, want duplicate-of-tx2 %x", tree.Hashes[2], wantDup)
	}

	inner01 := primitives.DoubleSHA256H(leaves[0], leaves[1])
	wantRoot := primitives.DoubleSHA256H(inner01, wantDup)
	if root != wantRoot {
		t.Fatalf("root = %x, want %x", root, wantRoot)
	}
}

func TestBuildDecodeRoundTrip(t *testing.T) {
	sizes := []int{1, 2, 3, 4, 5, 7, 8, 16, 17}

	for _, n := range sizes {
		leaves := makeLeaves(n)
		for maskBits := 0; maskBits < (1 << uint(minInt(n, 6))); maskBits++ {
			matches := make([]bool, n)
			for i := 0; i < n; i++ {
				if i < 6 {
					matches[i] = maskBits&(1<<uint(i)) != 0
				}
			}

			tree, wantRoot := Build(leaves, matches)
			gotRoot, matched, err := Parse(tree)
			if err != nil {
				t.Fatalf("n=%d mask=%d: Parse: %v", n, maskBits, err)
			}
			if gotRoot != wantRoot {
				t.Fatalf("n=%d mask=%d: root = %x, want %x", n, maskBits, gotRoot, wantRoot)
			}

			var wantMatches []Match
			for i, m := range matches {
				if m {
					wantMatches = append(wantMatches, Match{Index: i, TxID: leaves[i]})
				}
			}
			if len(matched) != len(wantMatches) {
				t.Fatalf("n=%d mask=%d: matches = %v, want %v", n, maskBits, matched, wantMatches)
			}
			for i := range matched {
				if matched[i] != wantMatches[i] {
					t.Fatalf("n=%d mask=%d: matches[%d] = %v, want %v", n, maskBits, i, matched[i], wantMatches[i])
				}
			}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
