package errors

import (
	"bytes"
	"strings"
	"unicode"
)

// DefaultMaxDocumentSize bounds documents accepted over the network (32 MiB).
const DefaultMaxDocumentSize = 32 << 20

// ValidateDocument performs cheap sanity checks on raw markup before decoding.
// It rejects empty input, input larger than maxSize (when maxSize > 0), and
// input that does not start with '<' after leading whitespace and byte order mark.
func ValidateDocument(data []byte, maxSize int) error {
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	if len(trimmed) == 0 {
		return New(ErrCodeInvalidInput, "document is empty")
	}

	if maxSize > 0 && len(data) > maxSize {
		return New(ErrCodeInvalidInput, "document too large (%d bytes, max %d)", len(data), maxSize)
	}

	if trimmed[0] != '<' {
		return New(ErrCodeMalformedMarkup, "document does not start with markup")
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	if strings.IndexFunc(path, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidInput, "output path contains invalid characters")
	}

	return nil
}
