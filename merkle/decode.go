package merkle

import "obsidian-core/primitives"

type decoder struct {
	tree      *PartialTree
	n         uint32
	maxH      uint32
	bitIndex  int
	hashIndex int
	matches   []Match
}

// Parse reconstructs a partial tree's Merkle root and match list from its
// wire-level Bits/Hashes fields, performing the same depth-first
// traversal used to build it and rejecting malformed or malicious
// encodings (see Reason for the taxonomy).
func Parse(tree *PartialTree) (root primitives.Hash, matches []Match, err error) {
	n := tree.TxCount
	if n == 0 {
		return primitives.Hash{}, nil, nil
	}

	d := &decoder{
		tree: tree,
		n:    n,
		maxH: maxHeight(n),
	}

	root, err = d.decodeNode(0, 0)
	if err != nil {
		log.WithField("reason", err).Warn("merkle: partial tree decode failed")
		return primitives.Hash{}, nil, err
	}

	if d.hashIndex != len(tree.Hashes) {
		log.WithField("reason", ReasonHashOverflow).Warn("merkle: partial tree decode failed")
		return primitives.Hash{}, nil, newDecodeError(ReasonHashOverflow)
	}

	total := len(tree.Bits)
	consumed := d.bitIndex
	maxPadding := (8 - consumed%8) % 8
	if total-consumed > maxPadding {
		log.WithField("reason", ReasonBitOverflow).Warn("merkle: partial tree decode failed")
		return primitives.Hash{}, nil, newDecodeError(ReasonBitOverflow)
	}

	return root, d.matches, nil
}

func (d *decoder) decodeNode(height, pos uint32) (primitives.Hash, error) {
	if d.bitIndex >= len(d.tree.Bits) {
		return primitives.Hash{}, newDecodeError(ReasonMalformedPadding)
	}
	bit := d.tree.Bits[d.bitIndex]
	d.bitIndex++

	if height == d.maxH || !bit {
		if d.hashIndex >= len(d.tree.Hashes) {
			return primitives.Hash{}, newDecodeError(ReasonHashUnderflow)
		}
		h := d.tree.Hashes[d.hashIndex]
		d.hashIndex++

		if height == d.maxH && bit {
			d.matches = append(d.matches, Match{Index: int(pos), TxID: h})
		}
		return h, nil
	}

	left, err := d.decodeNode(height+1, pos*2)
	if err != nil {
		return primitives.Hash{}, err
	}

	hasRight := pos*2+1 < treeWidth(d.n, d.maxH, height+1)
	right := left
	if hasRight {
		right, err = d.decodeNode(height+1, pos*2+1)
		if err != nil {
			return primitives.Hash{}, err
		}
		if right == left {
			return primitives.Hash{}, newDecodeError(ReasonDuplicateSibling)
		}
	}

	return primitives.DoubleSHA256H(left, right), nil
}
