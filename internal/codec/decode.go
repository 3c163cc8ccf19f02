package codec

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/udisondev/dbdcrypt/internal/crypto"
)

// keyIDSliceBase is the fixed part of the obfuscated key id slice length of
// asset payloads; the branch code length is added to it.
const keyIDSliceBase = 7

// Decode unwinds every encoding layer of content and returns the terminal
// text, which is either empty or valid JSON. branch sizes the key id slice of
// asset-tagged layers.
func (c *Codec) Decode(content string, branch Branch) (string, error) {
	for depth := 0; depth < c.maxDepth; depth++ {
		tag := Sniff(content)
		slog.Debug("decoding layer", "tag", tag.String(), "depth", depth, "len", len(content))

		var err error
		switch tag {
		case TagAsset:
			content, err = c.decodeAsset(content, branch)
		case TagProfile:
			content, err = c.decodeProfile(content)
		case TagZlib:
			content, err = DecodeFrame(content)
		default:
			if !IsValidJSON(content) {
				return "", fmt.Errorf("%w: the access key might be incorrect, or the data may be corrupted", ErrUnrecognizedFormat)
			}
			return content, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: more than %d nested layers", ErrMalformedPayload, c.maxDepth)
}

func (c *Codec) decodeAsset(content string, branch Branch) (string, error) {
	payload, err := decodeBase64(content[TagLen:])
	if err != nil {
		return "", fmt.Errorf("%w: asset payload: %w", ErrMalformedPayload, err)
	}

	sliceLen := min(keyIDSliceBase+len(branch), len(payload))
	keyID := cleanKeyID(crypto.ShiftForward(payload[:sliceLen]))

	material, ok := c.lookup(keyID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKeyID, keyID)
	}
	key, err := decodeKeyMaterial(material, true)
	if err != nil {
		return "", fmt.Errorf("key %q: %w", keyID, err)
	}

	slog.Debug("asset key resolved", "key_id", keyID)
	return decryptBlock(payload[sliceLen:], key)
}

func (c *Codec) decodeProfile(content string) (string, error) {
	payload, err := decodeBase64(content[TagLen:])
	if err != nil {
		return "", fmt.Errorf("%w: profile payload: %w", ErrMalformedPayload, err)
	}
	return decryptBlock(payload, []byte(profileKey))
}

// cleanKeyID drops every SOH (0x01) from a shifted key id. A zero byte
// inside the slice shifts to SOH; the format relies on this removal.
func cleanKeyID(b []byte) string {
	return strings.ReplaceAll(string(b), "\x01", "")
}

func (c *Codec) lookup(id string) (string, bool) {
	if c.keys == nil {
		return "", false
	}
	material, ok := c.keys.Lookup(id)
	return material, ok && material != ""
}

// decryptBlock decrypts an AES-ECB buffer and strips the shift/zero padding.
func decryptBlock(buf, key []byte) (string, error) {
	cipher, err := crypto.NewAESCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	// The payload slice may alias caller memory; decrypt a private copy.
	data := make([]byte, len(buf))
	copy(data, buf)
	if err := cipher.Decrypt(data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	text, err := crypto.UnpadAndUnshift(data)
	if err != nil {
		if errors.Is(err, crypto.ErrNotASCII) {
			return "", fmt.Errorf("%w: %w", ErrUnrecognizedFormat, err)
		}
		return "", err
	}
	return text, nil
}
