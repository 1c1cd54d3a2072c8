package merkle

import "testing"

func TestSerializeParseWireRoundTrip(t *testing.T) {
	leaves := makeLeaves(9)
	matches := make([]bool, 9)
	matches[0], matches[4], matches[8] = true, true, true

	tree, wantRoot := Build(leaves, matches)
	wire := tree.Serialize()

	decoded, err := ParseWire(wire)
	if err != nil {
		t.Fatalf("ParseWire: %v", err)
	}
	if decoded.TxCount != tree.TxCount {
		t.Fatalf("TxCount = %d, want %d", decoded.TxCount, tree.TxCount)
	}
	if len(decoded.Hashes) != len(tree.Hashes) {
		t.Fatalf("Hashes length = %d, want %d", len(decoded.Hashes), len(tree.Hashes))
	}
	for i := range tree.Hashes {
		if decoded.Hashes[i] != tree.Hashes[i] {
			t.Fatalf("Hashes[%d] = %x, want %x", i, decoded.Hashes[i], tree.Hashes[i])
		}
	}
	// decoded.Bits is unpacked straight from the wire bytes, so it may
	// carry extra zero-padding bits beyond tree.Bits; Parse must still
	// recover the same root and matches.
	root, matched, err := Parse(decoded)
	if err != nil {
		t.Fatalf("Parse(decoded): %v", err)
	}
	if root != wantRoot {
		t.Fatalf("root = %x, want %x", root, wantRoot)
	}
	if len(matched) != 3 {
		t.Fatalf("matches = %v, want 3 entries", matched)
	}
}

func TestPackUnpackBitsRoundTrip(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, true, false, true}
	packed := packBits(bits)
	if len(packed) != 2 {
		t.Fatalf("packBits length = %d, want 2", len(packed))
	}
	unpacked := unpackBits(packed)
	for i, b := range bits {
		if unpacked[i] != b {
			t.Fatalf("bit %d = %v, want %v", i, unpacked[i], b)
		}
	}
	for i := len(bits); i < len(unpacked); i++ {
		if unpacked[i] {
			t.Fatalf("padding bit %d = true, want false", i)
		}
	}
}
