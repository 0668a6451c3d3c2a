package def

import "unicode/utf16"

// ShortHashModulus bounds the short-hash range. Reducing modulo this value
// can produce collisions; the registry is responsible for probing.
const ShortHashModulus = 65535

// HashFunc assigns a short hash to a definition name.
type HashFunc func(name string) uint16

// StableStringHash is the deterministic 23/31 polynomial over the UTF-16 code
// units of s, computed in wrapping int32 arithmetic.
// The value is stable across processes and platforms. The empty string
// hashes to the seed, 23.
func StableStringHash(s string) int32 {
	h := int32(23)
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

// ShortHash reduces StableStringHash(name) modulo ShortHashModulus and
// truncates to 16 bits. Negative remainders wrap, matching the hash slots
// written by hosts that share this catalog.
func ShortHash(name string) uint16 {
	return uint16(StableStringHash(name) % ShortHashModulus)
}
