// Package tokenizer provides the lexical layer for the scene dialect: a
// position-tracking byte scanner plus matchers for the dialect's lexical
// units (directive lines, document headers, quoted and plain scalars).
//
// The dialect is line-oriented and indentation is structural, so the lexer
// does not emit a flat token stream; the parser drives it, asking for the
// lexical unit the grammar expects next. Every matcher reports failures as
// *scene.ParseError with the exact byte position.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/shapestone/scene-filter/pkg/scene"
)

// Scanner is a single-pass cursor over the raw input with line/column
// tracking. Lookahead never exceeds the current line.
type Scanner struct {
	src  []byte
	off  int
	line int
	col  int
}

// New creates a scanner positioned at the start of src.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// Pos returns the current position, 1-indexed.
func (s *Scanner) Pos() scene.Position {
	return scene.Position{Offset: s.off, Line: s.line, Column: s.col}
}

// EOF reports whether the input is exhausted.
func (s *Scanner) EOF() bool { return s.off >= len(s.src) }

// Peek returns the byte at the cursor without consuming it.
func (s *Scanner) Peek() (byte, bool) {
	if s.EOF() {
		return 0, false
	}
	return s.src[s.off], true
}

// PeekAt returns the byte n positions past the cursor.
func (s *Scanner) PeekAt(n int) (byte, bool) {
	if s.off+n >= len(s.src) {
		return 0, false
	}
	return s.src[s.off+n], true
}

// Next consumes and returns one byte, updating the line/column counters.
func (s *Scanner) Next() (byte, bool) {
	if s.EOF() {
		return 0, false
	}
	b := s.src[s.off]
	s.off++
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return b, true
}

// Skip consumes n bytes.
func (s *Scanner) Skip(n int) {
	for i := 0; i < n; i++ {
		s.Next()
	}
}

// HasPrefix reports whether the unconsumed input starts with p.
func (s *Scanner) HasPrefix(p string) bool {
	if s.off+len(p) > len(s.src) {
		return false
	}
	return string(s.src[s.off:s.off+len(p)]) == p
}

// SkipSpaces consumes a run of space characters and returns its length.
// Tabs are not indentation in this dialect; they are left for the caller
// to reject.
func (s *Scanner) SkipSpaces() int {
	n := 0
	for {
		b, ok := s.Peek()
		if !ok || b != ' ' {
			return n
		}
		s.Next()
		n++
	}
}

// AtLineStart reports whether the cursor sits at column 1.
func (s *Scanner) AtLineStart() bool { return s.col == 1 }

// LineIndent measures the leading spaces of the current line without
// consuming them. Valid only at line start.
func (s *Scanner) LineIndent() int {
	n := 0
	for {
		b, ok := s.PeekAt(n)
		if !ok || b != ' ' {
			return n
		}
		n++
	}
}

// PeekRestOfLine returns the remainder of the current line without
// consuming it, excluding the line terminator.
func (s *Scanner) PeekRestOfLine() string {
	end := s.off
	for end < len(s.src) && s.src[end] != '\n' {
		end++
	}
	return strings.TrimSuffix(string(s.src[s.off:end]), "\r")
}

// RestOfLine consumes through the end of the current line (including the
// terminator) and returns the content, excluding the terminator.
func (s *Scanner) RestOfLine() string {
	start := s.off
	for {
		b, ok := s.Peek()
		if !ok {
			break
		}
		s.Next()
		if b == '\n' {
			return strings.TrimSuffix(string(s.src[start:s.off-1]), "\r")
		}
	}
	return strings.TrimSuffix(string(s.src[start:s.off]), "\r")
}

// SkipLineBreak consumes a single \n or \r\n. It reports whether a break
// was present.
func (s *Scanner) SkipLineBreak() bool {
	b, ok := s.Peek()
	if !ok {
		return false
	}
	if b == '\r' {
		if nb, ok := s.PeekAt(1); ok && nb == '\n' {
			s.Skip(2)
			return true
		}
		return false
	}
	if b == '\n' {
		s.Next()
		return true
	}
	return false
}

// BlankLine reports whether the current line holds nothing but spaces.
// Valid only at line start.
func (s *Scanner) BlankLine() bool {
	n := 0
	for {
		b, ok := s.PeekAt(n)
		if !ok {
			return n > 0 || s.EOF()
		}
		switch b {
		case ' ':
			n++
		case '\n':
			return true
		case '\r':
			if nb, ok := s.PeekAt(n + 1); ok && nb == '\n' {
				return true
			}
			return false
		default:
			return false
		}
	}
}

// Errorf builds a *scene.ParseError at the current position.
func (s *Scanner) Errorf(format string, args ...any) error {
	return &scene.ParseError{Pos: s.Pos(), Msg: fmt.Sprintf(format, args...)}
}

// ErrorfAt builds a *scene.ParseError at an explicit position.
func (s *Scanner) ErrorfAt(pos scene.Position, format string, args ...any) error {
	return &scene.ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
