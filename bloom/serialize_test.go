package bloom

import "testing"

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	f, err := New(500, 0.001, 0xDEADBEEF, FlagP2PubkeyOnly)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.Insert([]byte("round trip me"))

	encoded := f.Serialize()
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if decoded.Size() != f.Size() {
		t.Errorf("Size mismatch: got %d, want %d", decoded.Size(), f.Size())
	}
	if decoded.HashFuncs() != f.HashFuncs() {
		t.Errorf("HashFuncs mismatch: got %d, want %d", decoded.HashFuncs(), f.HashFuncs())
	}
	if decoded.Tweak() != f.Tweak() {
		t.Errorf("Tweak mismatch: got %#x, want %#x", decoded.Tweak(), f.Tweak())
	}
	if decoded.Flags() != f.Flags() {
		t.Errorf("Flags mismatch: got %d, want %d", decoded.Flags(), f.Flags())
	}
	if !decoded.Contains([]byte("round trip me")) {
		t.Errorf("decoded filter lost the inserted element")
	}
}

func TestDeserializeRejectsOversizedVarint(t *testing.T) {
	buf := []byte{0xFE, 0x01, 0x00, 0x01, 0x00} // varint encodes 65537 > MaxFilterSize
	if _, err := Deserialize(buf); err != ErrFilterTooLarge {
		t.Fatalf("Deserialize: got %v, want ErrFilterTooLarge", err)
	}
}

func TestDeserializeRejectsTruncatedPayload(t *testing.T) {
	buf := []byte{0x05, 0x01, 0x02} // declares 5 bytes of data, only 2 follow
	if _, err := Deserialize(buf); err != ErrTruncated {
		t.Fatalf("Deserialize: got %v, want ErrTruncated", err)
	}
}

func TestDeserializeRejectsUnknownFlag(t *testing.T) {
	f, err := New(10, 0.01, 0, FlagNone)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	buf := f.Serialize()
	buf[len(buf)-1] = 0x7F // not a known flag variant

	if _, err := Deserialize(buf); err != ErrUnknownFlag {
		t.Fatalf("Deserialize: got %v, want ErrUnknownFlag", err)
	}
}
