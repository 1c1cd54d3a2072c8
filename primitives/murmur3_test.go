package primitives

import "testing"

func TestMurmur3_32KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		seed uint32
		want uint32
	}{
		{"empty, zero seed", []byte{}, 0, 0},
		{"empty, seed 1", []byte{}, 1, 0x514e28b7},
		{"single byte", []byte{0xff}, 0, 0xfd6cf10d},
		{"four bytes", []byte{0x21, 0x43, 0x65, 0x87}, 0, 0xf55b516b},
		{"four bytes, seeded", []byte{0x21, 0x43, 0x65, 0x87}, 0x5082edee, 0x2362f9de},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Murmur3_32(tt.data, tt.seed)
			if got != tt.want {
				t.Errorf("Murmur3_32(%x, %#x) = %#x, want %#x", tt.data, tt.seed, got, tt.want)
			}
		})
	}
}

func TestMurmur3_32Deterministic(t *testing.T) {
	data := []byte("99108114")
	a := Murmur3_32(data, 0)
	b := Murmur3_32(data, 0)
	if a != b {
		t.Errorf("Murmur3_32 is not deterministic: %#x != %#x", a, b)
	}
}
