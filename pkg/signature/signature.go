// Package signature implements the HMAC-SHA256 scheme used to
// authenticate webhook deliveries: the sender computes a keyed hash
// over the raw request body and sends it hex-encoded in the
// X-Signature header.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex-encoded HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether token is a valid signature for body. The
// comparison runs over the exact bytes received on the wire, never a
// re-serialized form, and is constant-time. A malformed token is
// simply invalid; an empty secret never verifies anything.
func Verify(secret string, body []byte, token string) bool {
	if secret == "" {
		return false
	}

	provided, err := hex.DecodeString(token)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	return hmac.Equal(provided, expected)
}
