// Package tokens generates invite tokens and the digests stored in their place.
//
// Tokens are 32 random bytes encoded as unpadded base64url (43 characters).
// Only the BLAKE2b-256 digest of a token is persisted, so reading the invites
// table does not yield redeemable links.
package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ByteLength is the amount of entropy in a token.
const ByteLength = 32

// EncodedLength is the length of a token string.
var EncodedLength = base64.RawURLEncoding.EncodedLen(ByteLength)

// ErrMalformed is returned by Digest for strings that cannot be tokens.
var ErrMalformed = errors.New("malformed invite token")

// Generate returns a new random URL-safe token.
func Generate() (string, error) {
	buf := make([]byte, ByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Digest returns the hex BLAKE2b-256 digest of a token. Strings that are not
// well-formed tokens are rejected before touching the store.
func Digest(token string) (string, error) {
	if len(token) != EncodedLength {
		return "", ErrMalformed
	}
	if _, err := base64.RawURLEncoding.DecodeString(token); err != nil {
		return "", ErrMalformed
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:]), nil
}
