package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is the lowercase hex SHA-256 digest of a document's bytes.
// Identical bytes always hash to the same fingerprint, independent of
// filename or source, so it is the sole criterion for "this exact file was
// seen before".
type Fingerprint string

// Hash computes the content fingerprint for a byte sequence.
func Hash(b []byte) Fingerprint {
	sum := sha256.Sum256(b)
	return Fingerprint(hex.EncodeToString(sum[:]))
}
