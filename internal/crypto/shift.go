package crypto

import "errors"

// ErrNotASCII is returned by UnpadAndUnshift when the recovered region
// contains bytes outside the 7-bit range.
var ErrNotASCII = errors.New("decrypted data is not ASCII text")

// ShiftForward returns a copy of data with every byte incremented by one (mod 256).
// Decoding applies it to undo the obfuscation written by ShiftInverse.
func ShiftForward(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b + 1
	}
	return out
}

// ShiftInverse returns a copy of data with every byte decremented by one (mod 256).
func ShiftInverse(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b - 1
	}
	return out
}

// UnpadAndUnshift recovers text from a decrypted cipher buffer.
//
// The first 0x00 byte terminates the valid region (it is the padding
// sentinel, never content). Every byte before it is forward-shifted in place
// and the shifted prefix is returned as ASCII text. A buffer starting with
// 0x00 yields the empty string.
func UnpadAndUnshift(buf []byte) (string, error) {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		buf[n]++
		n++
	}
	for _, b := range buf[:n] {
		if b >= 0x80 {
			return "", ErrNotASCII
		}
	}
	return string(buf[:n]), nil
}
