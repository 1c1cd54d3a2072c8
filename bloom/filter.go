// Package bloom implements the BIP37 Bloom filter used by SPV clients to
// declare interest in transactions without revealing which addresses they
// own. It replaces an earlier SHA-256-based hash with the
// protocol-mandated MurmurHash3 seed formula and adds the construction
// invariants, transaction scanning, and wire-exact (de)serialization
// BIP37 requires.
package bloom

import (
	"math"

	"github.com/sirupsen/logrus"

	"obsidian-core/primitives"
)

// Flag is the filter's auto-update policy, sent as a single byte on the
// wire.
type Flag uint8

const (
	// FlagNone disables auto-update: matching transactions are reported
	// but no outpoints are added to the filter.
	FlagNone Flag = 0
	// FlagAll adds the outpoint of every matching output to the filter.
	FlagAll Flag = 1
	// FlagP2PubkeyOnly adds outpoints only for outputs recognisable as
	// pay-to-pubkey or bare multisig scripts.
	FlagP2PubkeyOnly Flag = 2
)

func (f Flag) valid() bool {
	return f == FlagNone || f == FlagAll || f == FlagP2PubkeyOnly
}

const (
	// MaxFilterSize is the maximum size in bytes of a filter's bit array,
	// fixed by BIP37.
	MaxFilterSize = 36000

	// MaxHashFuncs is the maximum number of hash functions a filter may
	// use, fixed by BIP37.
	MaxHashFuncs = 50

	// seedMultiplier is the BIP37-mandated constant mixed into each hash
	// function's seed.
	seedMultiplier = 0xFBA4C795
)

// Filter is a sized bit array searched with hash_funcs independent
// MurmurHash3 probes per element, per BIP37.
type Filter struct {
	data      []byte
	hashFuncs uint32
	tweak     uint32
	flags     Flag
}

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the logger used for construction and decode
// diagnostics. Passing nil restores the standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		log = logrus.StandardLogger()
		return
	}
	log = l
}

// New allocates a zeroed filter sized for numElements expected insertions
// at the target false-positive rate fpRate, per the BIP37 sizing formula.
// The size and hash-function count are clamped to MaxFilterSize and
// MaxHashFuncs respectively, regardless of numElements and fpRate.
func New(numElements uint32, fpRate float64, tweak uint32, flags Flag) (*Filter, error) {
	if !flags.valid() {
		return nil, ErrUnknownFlag
	}

	n := float64(numElements)
	if n < 1 {
		n = 1
	}

	sizeBytes := int(math.Floor((-1.0 * n * math.Log(fpRate)) / (math.Ln2 * math.Ln2 * 8)))
	if sizeBytes < 1 {
		sizeBytes = 1
	}
	if sizeBytes > MaxFilterSize {
		sizeBytes = MaxFilterSize
	}

	hashFuncs := int(math.Floor(float64(sizeBytes) * 8 * math.Ln2 / n))
	if hashFuncs < 1 {
		hashFuncs = 1
	}
	if hashFuncs > MaxHashFuncs {
		hashFuncs = MaxHashFuncs
	}

	return &Filter{
		data:      make([]byte, sizeBytes),
		hashFuncs: uint32(hashFuncs),
		tweak:     tweak,
		flags:     flags,
	}, nil
}

// NewExact builds a filter from an already-sized, already-allocated bit
// array, as used by Deserialize. It enforces the same construction
// invariants as New.
func NewExact(data []byte, hashFuncs uint32, tweak uint32, flags Flag) (*Filter, error) {
	if len(data) < 1 {
		return nil, ErrEmptyFilter
	}
	if len(data) > MaxFilterSize {
		log.WithField("filter_size", len(data)).Warn("bloom: rejecting oversized filter")
		return nil, ErrFilterTooLarge
	}
	if hashFuncs > MaxHashFuncs {
		log.WithField("hash_funcs", hashFuncs).Warn("bloom: rejecting filter with too many hash functions")
		return nil, ErrTooManyHashFuncs
	}
	if hashFuncs < 1 {
		hashFuncs = 1
	}
	if !flags.valid() {
		log.WithField("flags", flags).Warn("bloom: rejecting filter with unknown flag")
		return nil, ErrUnknownFlag
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	return &Filter{
		data:      cp,
		hashFuncs: hashFuncs,
		tweak:     tweak,
		flags:     flags,
	}, nil
}

// Size returns the number of bytes in the filter's bit array.
func (f *Filter) Size() int { return len(f.data) }

// HashFuncs returns the number of hash functions the filter uses.
func (f *Filter) HashFuncs() uint32 { return f.hashFuncs }

// Tweak returns the filter's tweak.
func (f *Filter) Tweak() uint32 { return f.tweak }

// Flags returns the filter's auto-update policy.
func (f *Filter) Flags() Flag { return f.flags }

// bitIndex computes the bit position for the k-th hash function over x,
// per the BIP37 seed formula: seed = k*0xFBA4C795 + tweak (mod 2^32).
func (f *Filter) bitIndex(k uint32, x []byte) uint32 {
	seed := k*seedMultiplier + f.tweak
	h := primitives.Murmur3_32(x, seed)
	return h % uint32(len(f.data)*8)
}

// Insert adds a byte sequence to the filter. After Insert(x), Contains(x)
// is guaranteed to be true.
func (f *Filter) Insert(x []byte) {
	for k := uint32(0); k < f.hashFuncs; k++ {
		idx := f.bitIndex(k, x)
		f.data[idx>>3] |= 1 << (idx & 7)
	}
}

// InsertHash adds a primitives.Hash (such as a transaction ID) to the
// filter.
func (f *Filter) InsertHash(h primitives.Hash) {
	f.Insert(h[:])
}

// InsertOutpoint adds the canonical byte serialisation of an outpoint
// (tx_id ++ LE_u32(vout)) to the filter.
func (f *Filter) InsertOutpoint(txID primitives.Hash, vout uint32) {
	f.Insert(outpointBytes(txID, vout))
}

// Contains reports whether x may be a member of the filter. A false
// result means x is definitely not a member; a true result may be a false
// positive.
func (f *Filter) Contains(x []byte) bool {
	for k := uint32(0); k < f.hashFuncs; k++ {
		idx := f.bitIndex(k, x)
		if f.data[idx>>3]&(1<<(idx&7)) == 0 {
			return false
		}
	}
	return true
}

// ContainsHash reports whether h may be a member of the filter.
func (f *Filter) ContainsHash(h primitives.Hash) bool {
	return f.Contains(h[:])
}

// ContainsOutpoint reports whether the outpoint (txID, vout) may be a
// member of the filter.
func (f *Filter) ContainsOutpoint(txID primitives.Hash, vout uint32) bool {
	return f.Contains(outpointBytes(txID, vout))
}

// Clear zeroes the filter's bit array in place without changing its size,
// hash-function count, tweak, or flags, mirroring a peer's filterclear
// message.
func (f *Filter) Clear() {
	for i := range f.data {
		f.data[i] = 0
	}
}

// EstimateFalsePositiveRate returns the approximate false-positive rate
// of the filter after n elements have been inserted, using the standard
// (1 - e^(-k*n/m))^k formula.
func (f *Filter) EstimateFalsePositiveRate(n uint32) float64 {
	m := float64(len(f.data) * 8)
	k := float64(f.hashFuncs)
	return math.Pow(1-math.Exp(-k*float64(n)/m), k)
}

// Clone returns a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	cp := make([]byte, len(f.data))
	copy(cp, f.data)
	return &Filter{data: cp, hashFuncs: f.hashFuncs, tweak: f.tweak, flags: f.flags}
}

func outpointBytes(txID primitives.Hash, vout uint32) []byte {
	b := make([]byte, primitives.HashSize+4)
	copy(b, txID[:])
	b[primitives.HashSize] = byte(vout)
	b[primitives.HashSize+1] = byte(vout >> 8)
	b[primitives.HashSize+2] = byte(vout >> 16)
	b[primitives.HashSize+3] = byte(vout >> 24)
	return b
}
