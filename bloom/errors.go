package bloom

import "errors"

// Construction-invariant errors. These indicate a programmer or peer error
// and are not recoverable; callers should reject the filter outright.
var (
	// ErrFilterTooLarge is returned when a filter's data would exceed
	// MaxFilterSize bytes.
	ErrFilterTooLarge = errors.New("bloom: filter size exceeds maximum")

	// ErrTooManyHashFuncs is returned when hash_funcs exceeds MaxHashFuncs.
	ErrTooManyHashFuncs = errors.New("bloom: too many hash functions")

	// ErrEmptyFilter is returned when a filter would have zero bytes of
	// data; BIP37 requires at least one byte.
	ErrEmptyFilter = errors.New("bloom: filter must be at least one byte")

	// ErrUnknownFlag is returned when the flags byte is not one of
	// FlagNone, FlagAll, or FlagP2PubkeyOnly.
	ErrUnknownFlag = errors.New("bloom: unknown update flag")

	// ErrTruncated is returned when deserializing a filter from a buffer
	// that ends before the filter's declared fields can be read.
	ErrTruncated = errors.New("bloom: truncated filter payload")
)
