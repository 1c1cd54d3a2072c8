package bloom

import (
	"testing"

	"obsidian-core/primitives"
	"obsidian-core/spvtx"
)

type fakeOutput struct {
	script []byte
}

func (o fakeOutput) Script() []byte { return o.script }

type fakeInput struct {
	prevOut spvtx.Outpoint
	script  []byte
}

func (i fakeInput) PreviousOutpoint() spvtx.Outpoint { return i.prevOut }
func (i fakeInput) Script() []byte                   { return i.script }

type fakeTx struct {
	txID    primitives.Hash
	outputs []spvtx.Output
	inputs  []spvtx.Input
}

func (t fakeTx) TxID() primitives.Hash   { return t.txID }
func (t fakeTx) Outputs() []spvtx.Output { return t.outputs }
func (t fakeTx) Inputs() []spvtx.Input   { return t.inputs }

func pushScript(data []byte) []byte {
	return append([]byte{byte(len(data))}, data...)
}

func TestIsRelevantByTxID(t *testing.T) {
	f, _ := New(10, 0.01, 0, FlagNone)
	tx := fakeTx{txID: primitives.Hash{1, 2, 3}}
	f.InsertHash(tx.txID)

	if !f.IsRelevant(tx) {
		t.Fatalf("IsRelevant: want true for a filter containing the txid")
	}
}

func TestIsRelevantByOutputPushData(t *testing.T) {
	pubKeyHash := make([]byte, 20)
	pubKeyHash[0] = 0xAA

	f, _ := New(10, 0.01, 0, FlagNone)
	f.Insert(pubKeyHash)

	tx := fakeTx{
		txID: primitives.Hash{9},
		outputs: []spvtx.Output{
			fakeOutput{script: append(append([]byte{0x76, 0xA9}, pushScript(pubKeyHash)...), 0x88, 0xAC)},
		},
	}

	if !f.IsRelevant(tx) {
		t.Fatalf("IsRelevant: want true when an output push-data constant matches")
	}
}

func TestIsRelevantByPreviousOutpoint(t *testing.T) {
	f, _ := New(10, 0.01, 0, FlagNone)
	spent := spvtx.Outpoint{Hash: primitives.Hash{7, 7, 7}, Index: 2}
	f.InsertOutpoint(spent.Hash, spent.Index)

	tx := fakeTx{
		txID: primitives.Hash{8},
		inputs: []spvtx.Input{
			fakeInput{prevOut: spent, script: []byte{}},
		},
	}

	if !f.IsRelevant(tx) {
		t.Fatalf("IsRelevant: want true when a previous outpoint matches")
	}
}

func TestIsRelevantByInputPushData(t *testing.T) {
	sig := make([]byte, 71)
	sig[0] = 0x30

	f, _ := New(10, 0.01, 0, FlagNone)
	f.Insert(sig)

	tx := fakeTx{
		txID: primitives.Hash{3},
		inputs: []spvtx.Input{
			fakeInput{script: pushScript(sig)},
		},
	}

	if !f.IsRelevant(tx) {
		t.Fatalf("IsRelevant: want true when an input push-data constant matches")
	}
}

func TestIsRelevantIgnoresOpcodesNotPushData(t *testing.T) {
	f, _ := New(10, 0.01, 0, FlagNone)
	f.Insert([]byte{0x76}) // OP_DUP itself, never a push-data constant

	tx := fakeTx{
		txID: primitives.Hash{4},
		outputs: []spvtx.Output{
			fakeOutput{script: []byte{0x76, 0xA9, 0x88, 0xAC}},
		},
	}

	if f.IsRelevant(tx) {
		t.Fatalf("IsRelevant: want false, opcode bytes must not be treated as push-data")
	}
}

func TestUpdateNoneSkipsEntirely(t *testing.T) {
	pubKeyHash := make([]byte, 20)
	f, _ := New(10, 0.01, 0, FlagNone)
	f.Insert(pubKeyHash)

	tx := fakeTx{
		txID: primitives.Hash{5},
		outputs: []spvtx.Output{
			fakeOutput{script: append(append([]byte{0x76, 0xA9}, pushScript(pubKeyHash)...), 0x88, 0xAC)},
		},
	}

	f.Update(tx)

	if f.ContainsHash(tx.txID) {
		t.Fatalf("Update with FlagNone must not insert the txid")
	}
	if f.ContainsOutpoint(tx.txID, 0) {
		t.Fatalf("Update with FlagNone must not insert any outpoint")
	}
}

func TestUpdateAllAddsMatchingOutpointsAndTxID(t *testing.T) {
	pubKeyHash := make([]byte, 20)
	pubKeyHash[1] = 0xCC

	f, _ := New(10, 0.01, 0, FlagAll)
	f.Insert(pubKeyHash)

	tx := fakeTx{
		txID: primitives.Hash{6},
		outputs: []spvtx.Output{
			fakeOutput{script: append(append([]byte{0x76, 0xA9}, pushScript(pubKeyHash)...), 0x88, 0xAC)},
			fakeOutput{script: []byte{0x6a, 0x00}}, // OP_RETURN, no matching push-data
		},
	}

	f.Update(tx)

	if !f.ContainsOutpoint(tx.txID, 0) {
		t.Fatalf("Update with FlagAll must add the matching output's outpoint")
	}
	if f.ContainsOutpoint(tx.txID, 1) {
		t.Fatalf("Update with FlagAll must not add a non-matching output's outpoint")
	}
	if !f.ContainsHash(tx.txID) {
		t.Fatalf("Update must always add the transaction's own txid")
	}
}

func TestUpdateP2PubkeyOnlyRespectsScriptShape(t *testing.T) {
	pubKey := make([]byte, 33)
	pubKey[0] = 0x02

	f, _ := New(10, 0.01, 0, FlagP2PubkeyOnly)
	f.Insert(pubKey)

	p2pkScript := append(pushScript(pubKey), 0xac) // <pubkey> OP_CHECKSIG

	pubKeyHash := make([]byte, 20)
	p2pkhScript := append(append([]byte{0x76, 0xA9}, pushScript(pubKeyHash)...), 0x88, 0xAC)

	f.Insert(pubKeyHash)

	tx := fakeTx{
		txID: primitives.Hash{10},
		outputs: []spvtx.Output{
			fakeOutput{script: p2pkScript},
			fakeOutput{script: p2pkhScript},
		},
	}

	f.Update(tx)

	if !f.ContainsOutpoint(tx.txID, 0) {
		t.Fatalf("Update with FlagP2PubkeyOnly must add a pay-to-pubkey output's outpoint")
	}
	if f.ContainsOutpoint(tx.txID, 1) {
		t.Fatalf("Update with FlagP2PubkeyOnly must not add a P2PKH output's outpoint")
	}
}
