package merkle

import "obsidian-core/primitives"

// ComputeRoot computes the full Merkle root over txHashes using the
// same odd-node duplication rule ("duplicate the last node when a level
// has an odd width") that the partial tree codec relies on.
func ComputeRoot(txHashes []primitives.Hash) primitives.Hash {
	n := uint32(len(txHashes))
	if n == 0 {
		return primitives.Hash{}
	}
	maxH := maxHeight(n)
	return calcHash(txHashes, n, maxH, 0, 0)
}

// calcHash computes the hash of the node at (height, pos) in the full
// Merkle tree over txHashes, recursing toward the leaves. A node with no
// right sibling is folded with itself: SHA256^2(left || left).
func calcHash(txHashes []primitives.Hash, n, maxH, height, pos uint32) primitives.Hash {
	if height == maxH {
		return txHashes[pos]
	}

	left := calcHash(txHashes, n, maxH, height+1, pos*2)
	right := left
	if pos*2+1 < treeWidth(n, maxH, height+1) {
		right = calcHash(txHashes, n, maxH, height+1, pos*2+1)
	}
	return primitives.DoubleSHA256H(left, right)
}

// Build encodes the subset of txHashes flagged by matches into a
// PartialTree, performing the depth-first, pre-order traversal BIP37
// specifies and returning the tree alongside the block's recomputed
// Merkle root. len(matches) must equal len(txHashes); the tree's TxCount
// is len(txHashes).
func Build(txHashes []primitives.Hash, matches []bool) (*PartialTree, primitives.Hash) {
	n := uint32(len(txHashes))

	tree := &PartialTree{
		TxCount: n,
		Bits:    make([]bool, 0, n),
		Hashes:  make([]primitives.Hash, 0),
	}

	if n == 0 {
		return tree, primitives.Hash{}
	}

	maxH := maxHeight(n)
	traverseAndBuild(tree, txHashes, matches, n, maxH, 0, 0)

	return tree, calcHash(txHashes, n, maxH, 0, 0)
}

func traverseAndBuild(tree *PartialTree, txHashes []primitives.Hash, matches []bool, n, maxH, height, pos uint32) {
	parentOfMatch := false

	start := pos << (maxH - height)
	end := (pos + 1) << (maxH - height)
	for i := start; i < end && i < n; i++ {
		if matches[i] {
			parentOfMatch = true
			break
		}
	}

	tree.Bits = append(tree.Bits, parentOfMatch)

	if !parentOfMatch || height == maxH {
		tree.Hashes = append(tree.Hashes, calcHash(txHashes, n, maxH, height, pos))
		return
	}

	traverseAndBuild(tree, txHashes, matches, n, maxH, height+1, pos*2)
	if pos*2+1 < treeWidth(n, maxH, height+1) {
		traverseAndBuild(tree, txHashes, matches, n, maxH, height+1, pos*2+1)
	}
}
