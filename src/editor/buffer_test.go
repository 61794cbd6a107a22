package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dcd-complete/src/internal/errors"
)

const sample = "import std.stdio;\nvoid main() {\n    writ\n}\n"

func TestBufferHost(t *testing.T) {
	b, err := NewBuffer("/proj/source/app.d", sample, 3, 8, "")
	require.NoError(t, err)

	line, col := b.CurrentCursor()
	assert.Equal(t, 3, line)
	assert.Equal(t, 8, col)
	assert.Equal(t, "/proj/source/app.d", b.CurrentBufferPath())
	assert.Equal(t, []string{"import std.stdio;", "void main() {", "    writ", "}", ""}, b.CurrentBufferLines())
	assert.Equal(t, DefaultEncoding, b.Encoding())
}

func TestBufferByteOffsetFor(t *testing.T) {
	b, err := NewBuffer("", sample, 1, 0, "utf-8")
	require.NoError(t, err)

	tests := []struct {
		line, col int
		want      int
	}{
		{1, 0, 0},
		{1, 6, 6},
		{2, 0, 18},
		{3, 8, 18 + 14 + 8},
		{5, 0, len(sample)},
	}
	for _, tt := range tests {
		got, err := b.ByteOffsetFor(tt.line, tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "line %d col %d", tt.line, tt.col)
	}

	// the offset of the cursor on line 3 points just past "writ"
	off, err := b.ByteOffsetFor(3, 8)
	require.NoError(t, err)
	assert.Equal(t, "writ", sample[off-4:off])
}

func TestBufferByteOffsetMultiByte(t *testing.T) {
	text := "auto größe = 1;\ngrö"

	utf8Buf, err := NewBuffer("", text, 2, 3, "utf-8")
	require.NoError(t, err)
	off, err := utf8Buf.ByteOffsetFor(2, 3)
	require.NoError(t, err)
	// "auto größe = 1;" is 17 bytes in UTF-8, "grö" is 4
	assert.Equal(t, 17+1+4, off)

	latin1Buf, err := NewBuffer("", text, 2, 3, "latin1")
	require.NoError(t, err)
	off, err = latin1Buf.ByteOffsetFor(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 15+1+3, off)

	src, err := latin1Buf.EncodeSource()
	require.NoError(t, err)
	assert.Len(t, src, 15+1+3)
	assert.Equal(t, byte(0xf6), src[len(src)-1], "ö in latin1")
}

func TestBufferEncodeSourceUTF8(t *testing.T) {
	b, err := NewBuffer("", "a\r\nb", 1, 0, "")
	require.NoError(t, err)

	src, err := b.EncodeSource()
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(src))
}

func TestNewBufferRejectsBadInput(t *testing.T) {
	tests := []struct {
		name      string
		line, col int
		encoding  string
		param     string
	}{
		{"line zero", 0, 0, "", "line"},
		{"line past end", 9, 0, "", "line"},
		{"negative column", 1, -1, "", "column"},
		{"column past end", 1, 99, "", "column"},
		{"unknown encoding", 1, 0, "klingon-8", "encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuffer("", sample, tt.line, tt.col, tt.encoding)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), "'"+tt.param+"'")
		})
	}
}

func TestBufferImplementsHost(t *testing.T) {
	var _ Host = (*Buffer)(nil)
	var _ SourceEncoder = (*Buffer)(nil)
}

func TestDecodeText(t *testing.T) {
	text, err := DecodeText([]byte{'c', 'a', 'f', 0xe9}, "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", text)

	text, err = DecodeText([]byte("naïve"), "")
	require.NoError(t, err)
	assert.Equal(t, "naïve", text)

	_, err = DecodeText([]byte("x"), "klingon")
	assert.True(t, errors.IsValidationError(err))
}
