package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"mcfc/internal/source"
)

// Cursor walks the bytes of one source file. Reads past the end yield 0.
type Cursor struct {
	File *source.File
	Off  uint32
	src  []byte
}

func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("%s is too large: %w", f.Path, err))
	}
	return Cursor{File: f, src: f.Content}
}

func (c *Cursor) EOF() bool { return int(c.Off) >= len(c.src) }

// limit is one past the last readable offset.
func (c *Cursor) limit() uint32 { return uint32(len(c.src)) } // NewCursor checked the size

func (c *Cursor) at(i uint32) byte {
	if int(i) >= len(c.src) {
		return 0
	}
	return c.src[i]
}

func (c *Cursor) Peek() byte { return c.at(c.Off) }

// Peek2 reports ok=false when fewer than two bytes remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if int(c.Off)+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

func (c *Cursor) Bump() byte {
	b := c.at(c.Off)
	if !c.EOF() {
		c.Off++
	}
	return b
}

func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// PeekRune decodes the rune at the cursor; size is 0 at EOF.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.Off:])
}

func (c *Cursor) BumpRune() {
	_, size := c.PeekRune()
	c.Off += uint32(size) // size <= utf8.UTFMax
}

// Mark is a saved offset; SpanFrom and Reset take it back.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
