package tokenizer

import (
	"strings"
)

// Lexical matchers for the dialect. Each consumes exactly one unit or fails
// with a positioned parse error without consuming a partial unit being the
// caller's concern (the parser never retries a failed matcher).

// DocHeader is the parsed form of a document separator line
// `--- !u!<classID> &<anchor>` with the optional ` stripped` suffix.
type DocHeader struct {
	ClassID  string
	Anchor   string
	Stripped bool
}

// LexDirective consumes one %-prefixed directive line at stream start and
// returns it verbatim (without the terminator).
func (s *Scanner) LexDirective() (string, error) {
	if b, ok := s.Peek(); !ok || b != '%' {
		return "", s.Errorf("expected %% directive")
	}
	return s.RestOfLine(), nil
}

// LexDocHeader consumes a document separator line. The separator syntax is
// fixed by committed history and matched exactly; any deviation is a parse
// error rather than a guess.
func (s *Scanner) LexDocHeader() (DocHeader, error) {
	var h DocHeader
	start := s.Pos()
	if !s.HasPrefix("--- !u!") {
		return h, s.Errorf("expected document separator `--- !u!<class> &<anchor>`")
	}
	s.Skip(len("--- !u!"))

	class := s.lexDigits()
	if class == "" {
		return h, s.Errorf("expected numeric class identifier after !u!")
	}

	if !s.HasPrefix(" &") {
		return h, s.Errorf("expected ` &<anchor>` after class identifier")
	}
	s.Skip(2)

	anchor := s.lexAnchor()
	if anchor == "" {
		return h, s.Errorf("expected anchor identifier after &")
	}

	h = DocHeader{ClassID: class, Anchor: anchor}
	rest := s.RestOfLine()
	switch strings.TrimRight(rest, " ") {
	case "":
	case " stripped":
		h.Stripped = true
	default:
		return DocHeader{}, s.ErrorfAt(start, "unexpected trailing content on document separator: %q", rest)
	}
	return h, nil
}

func (s *Scanner) lexDigits() string {
	var b strings.Builder
	for {
		c, ok := s.Peek()
		if !ok || c < '0' || c > '9' {
			return b.String()
		}
		s.Next()
		b.WriteByte(c)
	}
}

// lexAnchor accepts the anchor alphabet the engine uses: an optional sign
// followed by digits. Wider forms are accepted lexically (letters,
// underscore, dash) so the sorter, not the lexer, owns the numeric-anchor
// diagnostic.
func (s *Scanner) lexAnchor() string {
	var b strings.Builder
	for {
		c, ok := s.Peek()
		if !ok {
			return b.String()
		}
		if isAnchorChar(c) {
			s.Next()
			b.WriteByte(c)
			continue
		}
		return b.String()
	}
}

func isAnchorChar(c byte) bool {
	return c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c == '_' || c == '-'
}

// LexSingleQuoted consumes a single-quoted scalar and returns it verbatim,
// quotes included. The only escape is the doubled quote.
func (s *Scanner) LexSingleQuoted() (string, error) {
	start := s.Pos()
	b, ok := s.Peek()
	if !ok || b != '\'' {
		return "", s.Errorf("expected single-quoted scalar")
	}
	s.Next()
	var out strings.Builder
	out.WriteByte('\'')
	for {
		c, ok := s.Next()
		if !ok || c == '\n' {
			return "", s.ErrorfAt(start, "unterminated single-quoted scalar")
		}
		out.WriteByte(c)
		if c == '\'' {
			if nb, ok := s.Peek(); ok && nb == '\'' {
				s.Next()
				out.WriteByte('\'')
				continue
			}
			return out.String(), nil
		}
	}
}

// LexDoubleQuoted consumes a double-quoted scalar and returns it verbatim,
// quotes included. Escape sequences are validated for termination only; the
// content is preserved as written.
func (s *Scanner) LexDoubleQuoted() (string, error) {
	start := s.Pos()
	b, ok := s.Peek()
	if !ok || b != '"' {
		return "", s.Errorf("expected double-quoted scalar")
	}
	s.Next()
	var out strings.Builder
	out.WriteByte('"')
	for {
		c, ok := s.Next()
		if !ok || c == '\n' {
			return "", s.ErrorfAt(start, "unterminated double-quoted scalar")
		}
		out.WriteByte(c)
		switch c {
		case '"':
			return out.String(), nil
		case '\\':
			e, ok := s.Next()
			if !ok || e == '\n' {
				return "", s.ErrorfAt(start, "unterminated escape in double-quoted scalar")
			}
			out.WriteByte(e)
		}
	}
}

// LexPlainBlock consumes a plain scalar in block context: the remainder of
// the line, with trailing spaces dropped (the engine serializer itself is
// inconsistent about them).
func (s *Scanner) LexPlainBlock() string {
	return strings.TrimRight(s.RestOfLine(), " ")
}

// LexPlainFlow consumes a plain scalar in flow context, stopping before a
// comma, closing bracket/brace or end of line.
func (s *Scanner) LexPlainFlow() string {
	var out strings.Builder
	for {
		c, ok := s.Peek()
		if !ok || c == ',' || c == '}' || c == ']' || c == '\n' || c == '\r' {
			return strings.TrimRight(out.String(), " ")
		}
		s.Next()
		out.WriteByte(c)
	}
}
