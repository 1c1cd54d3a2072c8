package merkle

import (
	"encoding/binary"

	"obsidian-core/primitives"
)

// Serialize encodes the partial tree as the merkleblock payload's
// partial-tree portion: u32(transaction_count) ++ varint(hash_count) ++
// hashes ++ varint(flag_byte_count) ++ flag_bytes, with flag bits packed
// LSB-first and zero-padded to the next byte boundary.
func (t *PartialTree) Serialize() []byte {
	flagBytes := packBits(t.Bits)

	buf := make([]byte, 0, 4+primitives.VarIntSize(uint64(len(t.Hashes)))+len(t.Hashes)*primitives.HashSize+
		primitives.VarIntSize(uint64(len(flagBytes)))+len(flagBytes))

	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], t.TxCount)
	buf = append(buf, tmp[:]...)

	buf = primitives.PutVarInt(buf, uint64(len(t.Hashes)))
	for _, h := range t.Hashes {
		buf = append(buf, h[:]...)
	}

	buf = primitives.PutVarInt(buf, uint64(len(flagBytes)))
	buf = append(buf, flagBytes...)

	return buf
}

// ParseWire decodes the merkleblock payload's partial-tree portion back
// into a PartialTree, ready for Parse to reconstruct the root and
// matches.
func ParseWire(buf []byte) (*PartialTree, error) {
	if len(buf) < 4 {
		return nil, newDecodeError(ReasonMalformedPadding)
	}
	txCount := binary.LittleEndian.Uint32(buf[0:4])
	buf = buf[4:]

	hashCount, n, err := primitives.ReadVarInt(buf)
	if err != nil {
		return nil, newDecodeError(ReasonHashUnderflow)
	}
	buf = buf[n:]

	needed := hashCount * primitives.HashSize
	if uint64(len(buf)) < needed {
		return nil, newDecodeError(ReasonHashUnderflow)
	}

	hashes := make([]primitives.Hash, hashCount)
	for i := range hashes {
		copy(hashes[i][:], buf[i*primitives.HashSize:(i+1)*primitives.HashSize])
	}
	buf = buf[needed:]

	flagByteCount, n, err := primitives.ReadVarInt(buf)
	if err != nil {
		return nil, newDecodeError(ReasonMalformedPadding)
	}
	buf = buf[n:]

	if uint64(len(buf)) < flagByteCount {
		return nil, newDecodeError(ReasonMalformedPadding)
	}
	flagBytes := buf[:flagByteCount]

	return &PartialTree{
		TxCount: txCount,
		Bits:    unpackBits(flagBytes),
		Hashes:  hashes,
	}, nil
}

// packBits packs bits LSB-first into bytes, zero-padding the high bits
// of the final byte to reach a byte boundary.
func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return out
}

// unpackBits expands a byte-packed, LSB-first flag array into one bool
// per bit, including the trailing zero padding bits.
func unpackBits(flagBytes []byte) []bool {
	out := make([]bool, len(flagBytes)*8)
	for i := range out {
		out[i] = flagBytes[i/8]&(1<<(uint(i)%8)) != 0
	}
	return out
}
