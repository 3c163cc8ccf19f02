package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/udisondev/dbdcrypt/internal/crypto"
)

// assetMagic prefixes the ciphertext of asset content before base64.
var assetMagic = []byte{0x64, 0x00}

// Encode produces asset-tagged content for plaintext using the access key
// stored under keyID (a versioned branch such as "9.3.0_live").
// Content that already carries a layer tag is refused.
func (c *Codec) Encode(plaintext, keyID string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyInput
	}
	if tag := Sniff(strings.TrimSpace(plaintext)); tag != TagNone {
		return "", fmt.Errorf("%w: %s layer", ErrAlreadyEncoded, tag)
	}
	// The UTF-16 encoder would replace invalid sequences with U+FFFD.
	if !utf8.ValidString(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", ErrMalformedPayload)
	}

	material, ok := c.lookup(keyID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBranch, keyID)
	}
	key, err := decodeKeyMaterial(material, false)
	if err != nil {
		return "", fmt.Errorf("key %q: %w", keyID, err)
	}
	cipher, err := crypto.NewAESCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	utf16, err := encodeUTF16LE(plaintext)
	if err != nil {
		return "", err
	}
	frame, err := EncodeFrame(utf16)
	if err != nil {
		return "", err
	}

	block := crypto.ZeroPad(crypto.ShiftInverse([]byte(frame)), crypto.BlockSize)
	if err := cipher.Encrypt(block); err != nil {
		return "", fmt.Errorf("encrypting asset block: %w", err)
	}

	body := make([]byte, 0, len(assetMagic)+len(block))
	body = append(body, assetMagic...)
	body = append(body, block...)

	return string(TagAsset) + obfuscateKeyID(keyID) + base64.StdEncoding.EncodeToString(body), nil
}

// obfuscateKeyID shifts keyID back by one, drops its last byte and base64
// encodes the rest. The decoder's key id slice runs into assetMagic: 'd'
// shifts to 'e' and the zero byte to SOH, which is stripped.
func obfuscateKeyID(keyID string) string {
	shifted := crypto.ShiftInverse([]byte(keyID))
	if len(shifted) > 0 {
		shifted = shifted[:len(shifted)-1]
	}
	return base64.StdEncoding.EncodeToString(shifted)
}
