package merkle

import "fmt"

// Reason is a sub-classification of why a partial tree failed to decode.
type Reason int

const (
	// ReasonMalformedPadding indicates the flag bits ran out before the
	// traversal completed, or (from ParseWire) the payload was too short
	// to hold the transaction count or the flag-byte field.
	ReasonMalformedPadding Reason = iota
	// ReasonHashUnderflow indicates the traversal needed a hash that
	// was not present in the supplied hash list.
	ReasonHashUnderflow
	// ReasonHashOverflow indicates hashes remained unconsumed after the
	// traversal completed.
	ReasonHashOverflow
	// ReasonDuplicateSibling indicates an internal node with a genuine
	// right child whose reconstructed hash equals its left child's hash
	// (the CVE-2012-2459 duplicate-transaction attack shape).
	ReasonDuplicateSibling
	// ReasonBitOverflow indicates more than byte-alignment padding bits
	// remained unconsumed after the traversal completed.
	ReasonBitOverflow
	// ReasonUnknownFlagVariant indicates a flag bit was neither 0 nor 1.
	// Parse and ParseWire never return it, since flag bits are held as
	// bools.
	ReasonUnknownFlagVariant
)

func (r Reason) String() string {
	switch r {
	case ReasonMalformedPadding:
		return "malformed_padding"
	case ReasonHashUnderflow:
		return "hash_underflow"
	case ReasonHashOverflow:
		return "hash_overflow"
	case ReasonDuplicateSibling:
		return "duplicate_sibling"
	case ReasonBitOverflow:
		return "bit_overflow"
	case ReasonUnknownFlagVariant:
		return "unknown_flag_variant"
	default:
		return "unknown_reason"
	}
}

// DecodeError is returned for every way a partial tree can fail to
// decode. Callers inspect Reason to decide disconnection/banning policy;
// the core never retries internally.
type DecodeError struct {
	Reason Reason
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("merkle: decode failed: %s", e.Reason)
}

func newDecodeError(r Reason) error {
	return &DecodeError{Reason: r}
}
