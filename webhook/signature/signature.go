package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// Prefix is the fixed tag preceding the hex digest, as sent by
	// GitHub in the X-Hub-Signature-256 header.
	Prefix = "sha256="
)

// Sign computes the signature header value for a body:
// sha256= followed by the hex HMAC-SHA256 digest keyed with secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return Prefix + hex.EncodeToString(mac.Sum(nil))
}

/* Verify checks a caller-supplied signature header against the raw
 * received body. It accepts the "sha256=<hex>" form and plain hex.
 *
 * The comparison is constant-time (crypto/subtle), so verification
 * takes the same time regardless of where the first differing byte
 * occurs. An absent or malformed header is a verification failure,
 * never an error: nothing here can abort request handling.
 *
 * Verification runs over the exact bytes the sender signed. Never
 * re-serialize a decoded payload for this purpose; key order and
 * whitespace are not stable across encoders.
 */
func Verify(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}

	actual, err := parseHeader(header)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	return subtle.ConstantTimeCompare(expected, actual) == 1
}

// parseHeader extracts the raw MAC bytes from a signature header.
func parseHeader(header string) ([]byte, error) {
	hexSig := strings.TrimPrefix(header, Prefix)
	raw, err := hex.DecodeString(hexSig)
	if err != nil {
		return nil, fmt.Errorf("decoding signature hex: %w", err)
	}
	return raw, nil
}
