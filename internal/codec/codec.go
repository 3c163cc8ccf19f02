// Package codec unwinds and re-applies the layered content protection used by
// game profile and asset payloads: tagged AES-ECB blocks wrapped in a byte
// shift obfuscation, and size-prefixed zlib frames around UTF-16 text.
package codec

import (
	"bytes"
	"encoding/json"
	"strings"
)

// profileKey is the fixed AES-256 key of profile-tagged content.
const profileKey = "5BCC2D6A95D4DF04A005504E59A9B36E"

// defaultMaxDepth bounds the number of nested layers Decode will unwind.
const defaultMaxDepth = 64

// KeyLookup resolves a key id to base64 key material.
type KeyLookup interface {
	Lookup(id string) (string, bool)
}

// Codec decodes and encodes tagged content against a read-only key set.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	keys     KeyLookup
	maxDepth int
}

// New creates a Codec reading access keys from keys.
func New(keys KeyLookup) *Codec {
	return &Codec{keys: keys, maxDepth: defaultMaxDepth}
}

// IsValidJSON reports whether s is blank or syntactically valid JSON.
func IsValidJSON(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	return json.Valid([]byte(s))
}

// FormatJSON pretty-prints JSON text with a 4-space indent.
// Text that is not valid JSON is returned unchanged.
func FormatJSON(s string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(strings.TrimSpace(s)), "", "    "); err != nil {
		return s
	}
	return out.String()
}
