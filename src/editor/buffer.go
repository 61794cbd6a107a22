package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"dcd-complete/src/internal/errors"
)

// DefaultEncoding is used when a buffer does not name one
const DefaultEncoding = "utf-8"

// Buffer is an in-memory Host built from a text snapshot
type Buffer struct {
	path     string
	lines    []string
	line     int
	col      int
	encName  string
	encoding encoding.Encoding
}

// NewBuffer splits text into lines and validates the cursor against them.
// encodingName is any WHATWG/IANA name ("utf-8", "latin1", "shift_jis"...).
func NewBuffer(path, text string, line, col int, encodingName string) (*Buffer, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, errors.NewValidationError("encoding", fmt.Sprintf("unsupported encoding %q", encodingName))
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	b := &Buffer{
		path:     path,
		lines:    lines,
		encName:  encodingName,
		encoding: enc,
	}
	if err := b.checkPosition(line, col); err != nil {
		return nil, err
	}
	b.line, b.col = line, col
	return b, nil
}

// CurrentCursor returns the 1-based line and 0-based character column
func (b *Buffer) CurrentCursor() (int, int) {
	return b.line, b.col
}

// CurrentBufferLines returns the buffer contents
func (b *Buffer) CurrentBufferLines() []string {
	return b.lines
}

// CurrentBufferPath returns the file path, empty for unsaved buffers
func (b *Buffer) CurrentBufferPath() string {
	return b.path
}

// Encoding returns the name the buffer was created with
func (b *Buffer) Encoding() string {
	return b.encName
}

// ByteOffsetFor returns the 0-based byte offset of (line, col) in the joined,
// encoded buffer.
func (b *Buffer) ByteOffsetFor(line, col int) (int, error) {
	if err := b.checkPosition(line, col); err != nil {
		return 0, err
	}

	offset := 0
	for _, l := range b.lines[:line-1] {
		n, err := b.encodedLen(l)
		if err != nil {
			return 0, err
		}
		offset += n + 1
	}

	n, err := b.encodedLen(LinePrefix(b.lines[line-1], col))
	if err != nil {
		return 0, err
	}
	return offset + n, nil
}

// EncodeSource joins the lines with '\n' and encodes them
func (b *Buffer) EncodeSource() ([]byte, error) {
	text := strings.Join(b.lines, "\n")
	if b.isUTF8() {
		return []byte(text), nil
	}
	out, err := b.encoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode buffer as %s: %w", b.encName, err)
	}
	return out, nil
}

func (b *Buffer) checkPosition(line, col int) error {
	if line < 1 || line > len(b.lines) {
		return errors.NewValidationError("line", fmt.Sprintf("line %d is outside the buffer (1-%d)", line, len(b.lines)))
	}
	if n := utf8.RuneCountInString(b.lines[line-1]); col < 0 || col > n {
		return errors.NewValidationError("column", fmt.Sprintf("column %d is outside line %d (0-%d)", col, line, n))
	}
	return nil
}

func (b *Buffer) isUTF8() bool {
	return b.encoding == unicode.UTF8
}

func (b *Buffer) encoder() *encoding.Encoder {
	return encoding.ReplaceUnsupported(b.encoding.NewEncoder())
}

func (b *Buffer) encodedLen(s string) (int, error) {
	if b.isUTF8() {
		return len(s), nil
	}
	out, err := b.encoder().String(s)
	if err != nil {
		return 0, fmt.Errorf("failed to encode line as %s: %w", b.encName, err)
	}
	return len(out), nil
}

// DecodeText converts file bytes in encodingName to text a Buffer can hold
func DecodeText(data []byte, encodingName string) (string, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return "", errors.NewValidationError("encoding", fmt.Sprintf("unsupported encoding %q", encodingName))
	}
	if enc == unicode.UTF8 {
		return string(data), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode buffer as %s: %w", encodingName, err)
	}
	return string(out), nil
}
