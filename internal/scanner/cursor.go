package scanner

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"vuec/internal/source"
)

// Cursor представляет собой позицию в файле
type Cursor struct {
	File  *source.File
	Off   uint32
	limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, limit: limit}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Text[c.Off]
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.File.Text[c.Off+n]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Text[c.Off]
	c.Off++
	return b
}

// Advance moves n bytes forward, clamped to the end of the file.
func (c *Cursor) Advance(n uint32) {
	c.Off = min(c.Off+n, c.limit)
}

// HasPrefix reports whether the remaining text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.Rest(), s)
}

// Rest returns the unread text.
func (c *Cursor) Rest() string {
	return c.File.Text[c.Off:c.limit]
}

// SkipTo moves the cursor to the next occurrence of s and reports whether
// one was found. Without a match the cursor stops at EOF.
func (c *Cursor) SkipTo(s string) bool {
	idx := strings.Index(c.Rest(), s)
	if idx < 0 {
		c.Off = c.limit
		return false
	}
	c.Off += uint32(idx)
	return true
}

// SkipSpaces consumes HTML whitespace.
func (c *Cursor) SkipSpaces() {
	for !c.EOF() && isSpace(c.Peek()) {
		c.Off++
	}
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Text returns the borrowed text between m and the cursor.
func (c *Cursor) Text(m Mark) string {
	return c.File.Text[m:c.Off]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func isTagStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
