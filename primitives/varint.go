package primitives

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrVarIntTruncated is returned when a buffer ends before a compact
// variable-length integer can be fully read.
var ErrVarIntTruncated = errors.New("primitives: truncated varint")

// PutVarInt appends the compact variable-length integer encoding of v to
// buf and returns the extended slice. One byte <0xFD encodes itself;
// 0xFD prefixes a uint16; 0xFE prefixes a uint32; 0xFF prefixes a uint64.
func PutVarInt(buf []byte, v uint64) []byte {
	switch {
	case v < 0xFD:
		return append(buf, byte(v))
	case v <= 0xFFFF:
		b := make([]byte, 3)
		b[0] = 0xFD
		binary.LittleEndian.PutUint16(b[1:], uint16(v))
		return append(buf, b...)
	case v <= 0xFFFFFFFF:
		b := make([]byte, 5)
		b[0] = 0xFE
		binary.LittleEndian.PutUint32(b[1:], uint32(v))
		return append(buf, b...)
	default:
		b := make([]byte, 9)
		b[0] = 0xFF
		binary.LittleEndian.PutUint64(b[1:], v)
		return append(buf, b...)
	}
}

// VarIntSize returns the number of bytes PutVarInt would emit for v.
func VarIntSize(v uint64) int {
	switch {
	case v < 0xFD:
		return 1
	case v <= 0xFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// ReadVarInt reads a compact variable-length integer from the front of buf
// and returns its value plus the number of bytes consumed.
func ReadVarInt(buf []byte) (uint64, int, error) {
	if len(buf) < 1 {
		return 0, 0, ErrVarIntTruncated
	}

	switch buf[0] {
	case 0xFF:
		if len(buf) < 9 {
			return 0, 0, ErrVarIntTruncated
		}
		return binary.LittleEndian.Uint64(buf[1:9]), 9, nil
	case 0xFE:
		if len(buf) < 5 {
			return 0, 0, ErrVarIntTruncated
		}
		return uint64(binary.LittleEndian.Uint32(buf[1:5])), 5, nil
	case 0xFD:
		if len(buf) < 3 {
			return 0, 0, ErrVarIntTruncated
		}
		return uint64(binary.LittleEndian.Uint16(buf[1:3])), 3, nil
	default:
		return uint64(buf[0]), 1, nil
	}
}

// ReadVarIntFrom reads a compact variable-length integer from r.
func ReadVarIntFrom(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	switch prefix[0] {
	case 0xFF:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	case 0xFE:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	case 0xFD:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	default:
		return uint64(prefix[0]), nil
	}
}
