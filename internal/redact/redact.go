// Package redact scrubs personal data from values before they leave the
// device in telemetry beacons. User identifiers become stable keyed
// pseudonyms so events remain correlatable without being attributable.
package redact

import (
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/blake2b"
)

const pseudonymBytes = 8

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	handlePattern = regexp.MustCompile(`@[A-Za-z0-9_]{2,}`)
)

// Redactor pseudonymizes identifiers with a device-local key. The key never
// leaves the device, so pseudonyms cannot be reversed server-side.
type Redactor struct {
	key []byte
}

// New creates a Redactor from a device-local key. An empty key is allowed but
// produces pseudonyms any holder of the scheme can recompute; callers should
// pass a persisted random key.
func New(key []byte) *Redactor {
	return &Redactor{key: key}
}

// Pseudonym returns a stable short pseudonym for an identifier.
func (r *Redactor) Pseudonym(id string) string {
	if id == "" {
		return ""
	}
	h, err := blake2b.New256(r.key)
	if err != nil {
		// blake2b only rejects keys longer than 64 bytes; fall back to unkeyed.
		h, _ = blake2b.New256(nil)
	}
	h.Write([]byte(id))
	sum := h.Sum(nil)
	return "u_" + hex.EncodeToString(sum[:pseudonymBytes])
}

// ScrubText removes emails and @handles from free text.
func ScrubText(text string) string {
	text = emailPattern.ReplaceAllString(text, "[redacted]")
	return handlePattern.ReplaceAllString(text, "[redacted]")
}
