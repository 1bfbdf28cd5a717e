// Package core holds the domain types, hashing, scope tracking, and literal
// reading shared by the extraction engine and its surrounding tooling.
package core

import (
	"crypto/sha512"
	"encoding/base64"
)

// idLength is the number of base64 characters kept from the digest. Spec
// invariant I2 pins this at 6; collisions are the consumer's problem.
const idLength = 6

// DeriveKey computes the deterministic call key for a message: the first six
// characters of the standard base64 encoding of SHA-512(message), with no
// padding stripped. Pure and side-effect free.
func DeriveKey(message string) string {
	sum := sha512.Sum512([]byte(message))
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	if len(encoded) < idLength {
		return encoded
	}
	return encoded[:idLength]
}
