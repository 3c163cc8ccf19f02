package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// BlockSize is the AES block size in bytes.
const BlockSize = aes.BlockSize

// AESCipher wraps AES ECB encryption/decryption for content payloads.
// No IV, no chaining: every block is processed independently.
type AESCipher struct {
	block cipher.Block
}

// NewAESCipher creates a new AES ECB cipher from a 16, 24 or 32 byte key.
func NewAESCipher(key []byte) (*AESCipher, error) {
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating aes cipher: %w", err)
	}
	return &AESCipher{block: b}, nil
}

// Encrypt encrypts data in-place using AES ECB mode.
// Data length must be a multiple of 16.
func (c *AESCipher) Encrypt(data []byte) error {
	if len(data)%BlockSize != 0 {
		return fmt.Errorf("aes encrypt: size %d is not a multiple of %d", len(data), BlockSize)
	}
	for i := 0; i < len(data); i += BlockSize {
		c.block.Encrypt(data[i:i+BlockSize], data[i:i+BlockSize])
	}
	return nil
}

// Decrypt decrypts data in-place using AES ECB mode.
// Data length must be a multiple of 16.
func (c *AESCipher) Decrypt(data []byte) error {
	if len(data)%BlockSize != 0 {
		return fmt.Errorf("aes decrypt: size %d is not a multiple of %d", len(data), BlockSize)
	}
	for i := 0; i < len(data); i += BlockSize {
		c.block.Decrypt(data[i:i+BlockSize], data[i:i+BlockSize])
	}
	return nil
}

// ZeroPad appends zero bytes until len(data) is a multiple of size.
// Already aligned input is returned as is.
func ZeroPad(data []byte, size int) []byte {
	if rem := len(data) % size; rem != 0 {
		data = append(data, make([]byte, size-rem)...)
	}
	return data
}
