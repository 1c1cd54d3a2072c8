package bloom

import (
	"encoding/binary"

	"obsidian-core/primitives"
)

// Serialize encodes the filter as the filterload payload:
// varint(filter_size) ++ data ++ u32(hash_funcs) ++ u32(tweak) ++ u8(flags).
func (f *Filter) Serialize() []byte {
	buf := make([]byte, 0, primitives.VarIntSize(uint64(len(f.data)))+len(f.data)+9)
	buf = primitives.PutVarInt(buf, uint64(len(f.data)))
	buf = append(buf, f.data...)

	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], f.hashFuncs)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:], f.tweak)
	buf = append(buf, tmp[:]...)
	buf = append(buf, byte(f.flags))

	return buf
}

// Deserialize decodes a filterload payload into a Filter, enforcing the
// same construction invariants as NewExact (filter_size <= MaxFilterSize,
// hash_funcs <= MaxHashFuncs, a known flags variant).
func Deserialize(buf []byte) (*Filter, error) {
	size, n, err := primitives.ReadVarInt(buf)
	if err != nil {
		return nil, ErrTruncated
	}
	buf = buf[n:]

	if size > MaxFilterSize {
		log.WithField("filter_size", size).Warn("bloom: rejecting oversized filter on decode")
		return nil, ErrFilterTooLarge
	}
	if uint64(len(buf)) < size+9 {
		return nil, ErrTruncated
	}

	data := buf[:size]
	buf = buf[size:]

	hashFuncs := binary.LittleEndian.Uint32(buf[0:4])
	tweak := binary.LittleEndian.Uint32(buf[4:8])
	flags := Flag(buf[8])

	return NewExact(data, hashFuncs, tweak, flags)
}
