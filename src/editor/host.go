// Package editor models the editor side of a completion request: where the
// cursor is, what the buffer contains, and how character columns map to bytes.
package editor

import (
	"unicode"
	"unicode/utf8"
)

// Host is the narrow view of an editor a completion request needs.
// Lines are 1-based, columns are 0-based character (not byte) indexes.
type Host interface {
	CurrentCursor() (line, col int)
	CurrentBufferLines() []string
	CurrentBufferPath() string
	ByteOffsetFor(line, col int) (int, error)
}

// SourceEncoder is implemented by hosts whose buffer is not UTF-8 on disk; the
// bytes sent to the backend must use the same encoding ByteOffsetFor counts in.
type SourceEncoder interface {
	EncodeSource() ([]byte, error)
}

// CompletePosition returns the character index where the identifier that ends
// input starts, or len(input) in characters when input ends in a non-word rune.
func CompletePosition(input string) int {
	pos := utf8.RuneCountInString(input)
	for len(input) > 0 {
		r, size := utf8.DecodeLastRuneInString(input)
		if !isWordRune(r) {
			break
		}
		input = input[:len(input)-size]
		pos--
	}
	return pos
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LinePrefix returns the first n characters of s, clamped to its length
func LinePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for idx := range s {
		if i == n {
			return s[:idx]
		}
		i++
	}
	return s
}
