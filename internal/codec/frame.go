package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/unicode"
)

// frameHeaderSize — LE uint32 заголовок с размером до сжатия.
const frameHeaderSize = 4

// EncodeFrame compresses raw into a tagged zlib frame:
// TagZlib + base64(LE uint32 len(raw) || zlib(raw)).
func EncodeFrame(raw []byte) (string, error) {
	var buf bytes.Buffer
	buf.Grow(frameHeaderSize + len(raw)/2)

	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(raw)))
	buf.Write(header[:])

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("compressing frame: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("flushing frame: %w", err)
	}

	return string(TagZlib) + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeFrame unwraps a zlib-tagged string and returns the UTF-16 text it carries.
func DecodeFrame(content string) (string, error) {
	raw, err := InflateFrame(content)
	if err != nil {
		return "", err
	}
	return decodeUTF16(raw)
}

// InflateFrame распаковывает zlib frame и сверяет результат с заголовком размера.
func InflateFrame(content string) ([]byte, error) {
	if Sniff(content) != TagZlib {
		return nil, fmt.Errorf("%w: content does not start with %s", ErrMalformedFrame, TagZlib)
	}

	payload, err := decodeBase64(content[TagLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if len(payload) < frameHeaderSize {
		return nil, fmt.Errorf("%w: payload is too short to contain deflated data (%d bytes)", ErrMalformedFrame, len(payload))
	}

	expected := binary.LittleEndian.Uint32(payload[:frameHeaderSize])

	zr, err := zlib.NewReader(bytes.NewReader(payload[frameHeaderSize:]))
	if err != nil {
		return nil, fmt.Errorf("%w: opening zlib stream: %w", ErrMalformedFrame, err)
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: inflating: %w", ErrMalformedFrame, err)
	}
	if uint64(len(inflated)) != uint64(expected) {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrSizeMismatch, expected, len(inflated))
	}
	return inflated, nil
}

// decodeUTF16 decodes UTF-16 text, honouring a BOM and defaulting to little-endian.
func decodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: utf-16 data has odd length %d", ErrMalformedPayload, len(b))
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: decoding utf-16: %w", ErrMalformedPayload, err)
	}
	return string(out), nil
}

// encodeUTF16LE encodes text as UTF-16LE without a BOM.
func encodeUTF16LE(s string) ([]byte, error) {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding utf-16: %w", err)
	}
	return out, nil
}
