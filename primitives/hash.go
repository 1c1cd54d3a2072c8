// Package primitives implements the shared cryptographic and encoding
// building blocks used by the bloom filter and partial Merkle tree
// packages: double SHA-256, the 32-bit MurmurHash3 that BIP37 hashes
// with, and compact variable-length integers. The BIP37 per-function
// seed formula is applied in package bloom.
package primitives

import "crypto/sha256"

// HashSize is the length in bytes of a double-SHA256 digest.
const HashSize = 32

// Hash is a double-SHA256 digest in internal (non-reversed) byte order.
type Hash [HashSize]byte

// DoubleSHA256 computes SHA256(SHA256(b)) and returns it as a Hash.
func DoubleSHA256(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}

// DoubleSHA256H combines two hashes as SHA256(SHA256(left || right)), the
// operation used to fold a Merkle tree level into its parent.
func DoubleSHA256H(left, right Hash) Hash {
	buf := make([]byte, 0, HashSize*2)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return DoubleSHA256(buf)
}
