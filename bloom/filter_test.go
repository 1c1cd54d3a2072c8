package bloom

import (
	"bytes"
	"testing"
)

func TestInsertThenContains(t *testing.T) {
	f, err := New(100, 0.01, 0, FlagNone)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	elements := [][]byte{
		[]byte("hello"),
		[]byte("world"),
		{0x00, 0x01, 0x02, 0x03},
		bytes.Repeat([]byte{0xAB}, 32),
	}

	for _, e := range elements {
		f.Insert(e)
		if !f.Contains(e) {
			t.Fatalf("Contains(%x) = false after Insert", e)
		}
	}
}

func TestSizingClamps(t *testing.T) {
	tests := []struct {
		n      uint32
		p      float64
		tweak  uint32
		expect bool // expect error
	}{
		{100, 0.01, 0, false},
		{1, 0.0001, 0, false},
		{10_000_000, 0.5, 0, false},
		{1, 1e-20, 0, false}, // would exceed MaxHashFuncs (60 > 50) without clamping
	}

	for _, tt := range tests {
		f, err := New(tt.n, tt.p, tt.tweak, FlagAll)
		if tt.expect {
			if err == nil {
				t.Errorf("New(%d, %v): expected error, got none", tt.n, tt.p)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%d, %v): unexpected error: %v", tt.n, tt.p, err)
		}
		if f.Size() < 1 || f.Size() > MaxFilterSize {
			t.Errorf("size_bytes = %d, want in [1, %d]", f.Size(), MaxFilterSize)
		}
		if f.HashFuncs() < 1 || f.HashFuncs() > MaxHashFuncs {
			t.Errorf("hash_funcs = %d, want in [1, %d]", f.HashFuncs(), MaxHashFuncs)
		}
	}
}

func TestNewRejectsUnknownFlag(t *testing.T) {
	if _, err := New(10, 0.01, 0, Flag(99)); err != ErrUnknownFlag {
		t.Fatalf("New with unknown flag: got %v, want ErrUnknownFlag", err)
	}
}

func TestNewExactRejectsOversizedData(t *testing.T) {
	data := make([]byte, MaxFilterSize+1)
	if _, err := NewExact(data, 3, 0, FlagNone); err != ErrFilterTooLarge {
		t.Fatalf("NewExact with oversized data: got %v, want ErrFilterTooLarge", err)
	}
}

func TestNewExactRejectsTooManyHashFuncs(t *testing.T) {
	if _, err := NewExact([]byte{0x00}, MaxHashFuncs+1, 0, FlagNone); err != ErrTooManyHashFuncs {
		t.Fatalf("NewExact with too many hash funcs: got %v, want ErrTooManyHashFuncs", err)
	}
}

func TestNewExactRejectsEmptyData(t *testing.T) {
	if _, err := NewExact(nil, 3, 0, FlagNone); err != ErrEmptyFilter {
		t.Fatalf("NewExact with empty data: got %v, want ErrEmptyFilter", err)
	}
}

// TestKnownHashVector checks the filter's bit pattern after three known
// insertions against a hand-computed reference run of the same BIP37
// seed formula and MurmurHash3 implementation, pinning the exact
// bit-level behaviour of hashing and bit-index reduction.
func TestKnownHashVector(t *testing.T) {
	f, err := NewExact(make([]byte, 3), 5, 0, FlagNone)
	if err != nil {
		t.Fatalf("NewExact: %v", err)
	}

	item1 := []byte{0x19, 0x10, 0x8a, 0xd8, 0xed, 0x9b, 0xb6, 0x27, 0x4d, 0x39,
		0x80, 0xba, 0xb5, 0xa8, 0x5c, 0x04, 0x8f, 0x09, 0x50, 0x0c}
	item2 := []byte{0xb5, 0xa2, 0xc7, 0x86, 0xd9, 0xef, 0x46, 0x58, 0x28, 0x7c,
		0xed, 0x59, 0x14, 0xb3, 0x7a, 0x1b, 0x4a, 0xa3, 0x2e, 0xee}
	item3 := []byte{0xb9, 0x30, 0x06, 0x70, 0xb4, 0xc5, 0x36, 0x6e, 0x95, 0xb2,
		0x69, 0x9e, 0x8b, 0x18, 0xbc, 0x75, 0xe5, 0xf7, 0x29, 0xc5}

	f.Insert(item1)
	if !bytes.Equal(f.data, []byte{0x84, 0x2c, 0x00}) {
		t.Fatalf("after item1: data = %x, want 842c00", f.data)
	}

	f.Insert(item2)
	f.Insert(item3)
	if !bytes.Equal(f.data, []byte{0xe4, 0x6e, 0x13}) {
		t.Fatalf("after all three items: data = %x, want e46e13", f.data)
	}

	for _, item := range [][]byte{item1, item2, item3} {
		if !f.Contains(item) {
			t.Errorf("Contains(%x) = false, want true", item)
		}
	}

	if f.Contains(make([]byte, 20)) {
		t.Errorf("Contains(20 zero bytes) = true, want false")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f, _ := New(10, 0.01, 0, FlagAll)
	clone := f.Clone()
	f.Insert([]byte("mutate original only"))
	if clone.Contains([]byte("mutate original only")) {
		t.Fatalf("clone observed a mutation made to the original after Clone")
	}
}

func TestClearZeroesBitArray(t *testing.T) {
	f, _ := New(10, 0.01, 0, FlagAll)
	f.Insert([]byte("something"))
	f.Clear()
	for _, b := range f.data {
		if b != 0 {
			t.Fatalf("Clear left non-zero byte: %x", f.data)
		}
	}
}
