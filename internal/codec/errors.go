package codec

import "errors"

var (
	// ErrUnrecognizedFormat is returned when the terminal text is neither empty
	// nor valid JSON. The access key might be incorrect, or the data corrupted.
	ErrUnrecognizedFormat = errors.New("decrypted data is not valid JSON")
	ErrUnknownKeyID       = errors.New("key id not in available access keys")
	ErrUnknownBranch      = errors.New("access key not found for branch")
	ErrMalformedFrame     = errors.New("malformed zlib frame")
	ErrSizeMismatch       = errors.New("inflated size mismatch")
	ErrEmptyInput         = errors.New("input data cannot be empty")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrInvalidKey         = errors.New("invalid access key")

	// ErrAlreadyEncoded is returned by Encode for input that is already
	// encrypted or compressed.
	ErrAlreadyEncoded = errors.New("input is already encrypted or compressed")
)

// ErrorCode maps an error returned by Decode or Encode to a stable code for shells.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnrecognizedFormat):
		return "NOT_VALID_JSON"
	case errors.Is(err, ErrUnknownKeyID):
		return "UNKNOWN_KEY_ID"
	case errors.Is(err, ErrUnknownBranch):
		return "UNKNOWN_BRANCH"
	case errors.Is(err, ErrMalformedFrame):
		return "MALFORMED_FRAME"
	case errors.Is(err, ErrSizeMismatch):
		return "SIZE_MISMATCH"
	case errors.Is(err, ErrEmptyInput):
		return "EMPTY_INPUT"
	case errors.Is(err, ErrMalformedPayload):
		return "MALFORMED_PAYLOAD"
	case errors.Is(err, ErrInvalidKey):
		return "INVALID_KEY"
	case errors.Is(err, ErrAlreadyEncoded):
		return "ALREADY_ENCODED"
	default:
		return "INTERNAL"
	}
}
