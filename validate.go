package mdstream

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears
// binary. Parsing itself is permissive; this is a front-door check for
// callers handing over whole buffers of untrusted origin.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var control int
	for _, b := range src {
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}

// isControlRune reports whether r is a control character that should never
// reach the tokenizer. Newlines and tabs are structure, not noise; carriage
// returns are handled separately so CRLF collapses to LF.
func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}

// sanitizeBytes copies the complete, non-control runes of src into dst and
// returns the filled prefix of dst plus any trailing bytes of src that do
// not yet form a full rune. Invalid bytes are dropped. dst must be at least
// len(src) bytes.
func sanitizeBytes(dst []byte, src []byte) ([]byte, []byte) {
	di := 0
	i := 0
	for i < len(src) {
		if !utf8.FullRune(src[i:]) {
			break
		}
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if isControlRune(r) {
			i += size
			continue
		}
		copy(dst[di:], src[i:i+size])
		di += size
		i += size
	}
	return dst[:di], src[i:]
}
