package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// decodeBase64 decodes standard base64 leniently: whitespace is ignored,
// missing trailing padding is tolerated, and several independently padded
// segments glued together (as in asset payloads) decode to their concatenation.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	out := make([]byte, 0, base64.StdEncoding.DecodedLen(len(s)))
	for len(s) > 0 {
		end := strings.IndexByte(s, '=')
		if end < 0 {
			end = len(s)
		} else {
			for end < len(s) && s[end] == '=' {
				end++
			}
		}
		seg := s[:end]
		s = s[end:]

		enc := base64.StdEncoding
		if !strings.HasSuffix(seg, "=") && len(seg)%4 != 0 {
			enc = base64.RawStdEncoding
		}
		b, err := enc.DecodeString(seg)
		if err != nil {
			return nil, fmt.Errorf("decoding base64: %w", err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// decodeKeyMaterial turns stored key material into raw cipher key bytes.
// The URL-safe form accepts both alphabets.
func decodeKeyMaterial(material string, urlSafe bool) ([]byte, error) {
	if urlSafe {
		material = strings.NewReplacer("-", "+", "_", "/").Replace(material)
	}
	key, err := decodeBase64(material)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return key, nil
}
