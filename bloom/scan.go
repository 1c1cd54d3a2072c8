package bloom

import "obsidian-core/spvtx"

// IsRelevant reports whether t matches the filter: its own txid is a
// member, any output's push-data constant is a member, any input's
// previous outpoint is a member, or any input's push-data constant is a
// member. Evaluation short-circuits on the first match.
func (f *Filter) IsRelevant(t spvtx.Transaction) bool {
	if f.ContainsHash(t.TxID()) {
		return true
	}

	for _, out := range t.Outputs() {
		for _, c := range spvtx.PushData(out.Script()) {
			if f.Contains(c) {
				return true
			}
		}
	}

	for _, in := range t.Inputs() {
		op := in.PreviousOutpoint()
		if f.ContainsOutpoint(op.Hash, op.Index) {
			return true
		}
		for _, c := range spvtx.PushData(in.Script()) {
			if f.Contains(c) {
				return true
			}
		}
	}

	return false
}

// Update applies the filter's auto-update policy against t in place.
// FlagNone makes no changes. FlagAll adds the outpoint of every output
// whose script contains an already-matching push-data constant, then
// adds t's own txid. FlagP2PubkeyOnly does the same but only for outputs
// shaped as pay-to-pubkey or bare multisig.
//
// Update is a separate operation from IsRelevant rather than one method
// that checks and mutates at once: IsRelevant never changes the filter,
// and callers that want both compose them explicitly:
// if f.IsRelevant(t) { f.Update(t) }.
func (f *Filter) Update(t spvtx.Transaction) {
	if f.flags == FlagNone {
		return
	}

	for i, out := range t.Outputs() {
		if !f.outputMatchesUpdatePolicy(out) {
			continue
		}
		for _, c := range spvtx.PushData(out.Script()) {
			if f.Contains(c) {
				f.InsertOutpoint(t.TxID(), uint32(i))
				break
			}
		}
	}

	f.InsertHash(t.TxID())
}

func (f *Filter) outputMatchesUpdatePolicy(out spvtx.Output) bool {
	switch f.flags {
	case FlagAll:
		return true
	case FlagP2PubkeyOnly:
		script := out.Script()
		return spvtx.IsPayToPubKey(script) || spvtx.IsBareMultisig(script)
	default:
		return false
	}
}
