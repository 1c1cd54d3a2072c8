package spvtx

import (
	"bytes"
	"testing"
)

func TestPushDataDirectLength(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	script := append([]byte{byte(len(data))}, data...)
	script = append(script, 0xAC) // trailing opcode, not a push

	got := PushData(script)
	if len(got) != 1 || !bytes.Equal(got[0], data) {
		t.Fatalf("PushData = %v, want [%x]", got, data)
	}
}

func TestPushDataOpPushData1(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 200)
	script := append([]byte{opPushData1, byte(len(data))}, data...)

	got := PushData(script)
	if len(got) != 1 || !bytes.Equal(got[0], data) {
		t.Fatalf("PushData with OP_PUSHDATA1 = %d pushes, want 1 matching push", len(got))
	}
}

func TestPushDataOpPushData2(t *testing.T) {
	data := bytes.Repeat([]byte{0x07}, 400)
	script := append([]byte{opPushData2, byte(len(data)), byte(len(data) >> 8)}, data...)

	got := PushData(script)
	if len(got) != 1 || !bytes.Equal(got[0], data) {
		t.Fatalf("PushData with OP_PUSHDATA2 = %d pushes, want 1 matching push", len(got))
	}
}

func TestPushDataIgnoresNonPushOpcodes(t *testing.T) {
	script := []byte{0x76, 0xA9, 0x88, 0xAC} // OP_DUP OP_HASH160 OP_EQUALVERIFY OP_CHECKSIG
	if got := PushData(script); len(got) != 0 {
		t.Fatalf("PushData(%x) = %v, want no pushes", script, got)
	}
}

func TestPushDataTruncatedPushStopsCleanly(t *testing.T) {
	script := []byte{0x05, 0x01, 0x02} // declares 5 bytes, only 2 present
	if got := PushData(script); len(got) != 0 {
		t.Fatalf("PushData on truncated script = %v, want no pushes", got)
	}
}

func TestIsPayToPubKeyCompressed(t *testing.T) {
	script := append([]byte{33}, make([]byte, 33)...)
	script = append(script, 0xac)
	if !IsPayToPubKey(script) {
		t.Fatalf("IsPayToPubKey: want true for <33-byte pubkey> OP_CHECKSIG")
	}
}

func TestIsPayToPubKeyRejectsP2PKH(t *testing.T) {
	script := append([]byte{0x76, 0xA9, 20}, make([]byte, 20)...)
	script = append(script, 0x88, 0xAC)
	if IsPayToPubKey(script) {
		t.Fatalf("IsPayToPubKey: want false for a P2PKH script")
	}
}

func TestIsBareMultisig1of2(t *testing.T) {
	pubKeyA := append([]byte{33}, make([]byte, 33)...)
	pubKeyB := append([]byte{33}, make([]byte, 33)...)

	script := []byte{op1}
	script = append(script, pubKeyA...)
	script = append(script, pubKeyB...)
	script = append(script, op1+1, opCheckMultiS)

	if !IsBareMultisig(script) {
		t.Fatalf("IsBareMultisig: want true for 1-of-2 bare multisig")
	}
}

func TestIsBareMultisigRejectsNonMultisig(t *testing.T) {
	script := []byte{0x76, 0xA9, 0x88, 0xAC}
	if IsBareMultisig(script) {
		t.Fatalf("IsBareMultisig: want false for a non-multisig script")
	}
}
