// Package parser builds the document tree for the scene dialect by recursive
// descent over the tokenizer's scanner.
//
// The dialect is the fixed subset the engine serializer emits, not general
// YAML. The grammar, informally:
//
//	stream    = directive* document*
//	directive = "%" text EOL
//	document  = "--- !u!" class " &" anchor [" stripped"] EOL mapping
//	mapping   = (indent key ":" (" " value-line | EOL nested))*
//	sequence  = (indent "-" (" " item | EOL nested))*
//	value     = flow-map | flow-seq | quoted | block-scalar | plain
//	flow-map  = "{" [pair ("," pair)*] "}"        ; may wrap across lines
//	flow-seq  = "[" [value ("," value)*] "]"      ; may wrap across lines
//
// Block mapping children sit exactly two columns past their parent key.
// Sequence dashes sit either at the parent key's column (the engine's own
// convention) or two past it; both parse, the emitter writes the former.
// Anything outside the subset is a positioned *scene.ParseError, never a
// guess.
package parser

import (
	"strings"

	"github.com/shapestone/scene-filter/internal/tokenizer"
	"github.com/shapestone/scene-filter/pkg/scene"
)

// indentStep is the dialect's fixed block indentation width.
const indentStep = 2

type parser struct {
	s *tokenizer.Scanner
}

// skipBlankLines consumes blank lines. The emitter never writes them, but
// hand-edited files on disk sometimes carry them.
func (p *parser) skipBlankLines() {
	for !p.s.EOF() && p.s.BlankLine() {
		p.s.SkipSpaces()
		if !p.s.SkipLineBreak() {
			return
		}
	}
}

// atDocBoundary reports whether the cursor sits at the start of a document
// separator line. Separators are only recognized at column one.
func (p *parser) atDocBoundary() bool {
	return p.s.AtLineStart() && p.s.LineIndent() == 0 && p.s.HasPrefix("---")
}

// parseBlockMapping parses entries whose keys sit at exactly indent columns.
// When inline is set the cursor already sits on the first key (a sequence
// item of the form `- key: value`), past the indentation.
func (p *parser) parseBlockMapping(indent int, inline bool) (*scene.Mapping, error) {
	m := &scene.Mapping{}
	for {
		if !inline {
			p.skipBlankLines()
			if p.s.EOF() || p.atDocBoundary() {
				return m, nil
			}
			li := p.s.LineIndent()
			if li < indent {
				return m, nil
			}
			if li > indent {
				return nil, p.s.Errorf("unexpected indentation: %d columns, expected %d", li, indent)
			}
			if p.dashAt(li) {
				return nil, p.s.Errorf("unexpected sequence entry in mapping")
			}
			p.s.Skip(li)
			if b, ok := p.s.Peek(); ok && b == '\t' {
				return nil, p.s.Errorf("tab character in indentation")
			}
		}
		inline = false

		keyPos := p.s.Pos()
		key, err := p.lexBlockKey()
		if err != nil {
			return nil, err
		}
		if m.Get(key) != nil {
			return nil, p.s.ErrorfAt(keyPos, "duplicate mapping key %q", key)
		}

		var value scene.Node
		b, ok := p.s.Peek()
		switch {
		case !ok:
			value = scene.NullScalar()
		case b == '\n' || b == '\r':
			p.s.SkipLineBreak()
			value, err = p.parseNestedValue(indent)
		case b == ' ':
			p.s.Next()
			value, err = p.parseInlineValue(indent)
		default:
			return nil, p.s.Errorf("expected space after %q:", key)
		}
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, scene.MapEntry{Key: key, Value: value})

		if p.s.EOF() {
			return m, nil
		}
	}
}

// lexBlockKey consumes a mapping key and its colon. Keys in this dialect are
// plain text without colons; the first colon terminates the key and must be
// followed by a space or end of line.
func (p *parser) lexBlockKey() (string, error) {
	var b strings.Builder
	for {
		c, ok := p.s.Peek()
		if !ok || c == '\n' || c == '\r' {
			return "", p.s.Errorf("expected `:` after mapping key")
		}
		if c == '\t' {
			return "", p.s.Errorf("tab character in mapping key")
		}
		if c == ':' {
			if b.Len() == 0 {
				return "", p.s.Errorf("empty mapping key")
			}
			p.s.Next()
			if nb, ok := p.s.Peek(); ok && nb != ' ' && nb != '\n' && nb != '\r' {
				return "", p.s.Errorf("expected space after mapping key %q", b.String())
			}
			return b.String(), nil
		}
		p.s.Next()
		b.WriteByte(c)
	}
}

// parseNestedValue parses the value of a `key:` with nothing on the key's
// line: a nested mapping, a nested sequence, or null when the next line
// dedents away.
func (p *parser) parseNestedValue(parentIndent int) (scene.Node, error) {
	p.skipBlankLines()
	if p.s.EOF() || p.atDocBoundary() {
		return scene.NullScalar(), nil
	}
	li := p.s.LineIndent()
	switch {
	case li == parentIndent && p.dashAt(li):
		return p.parseBlockSequence(li)
	case li <= parentIndent:
		return scene.NullScalar(), nil
	case li == parentIndent+indentStep && p.dashAt(li):
		return p.parseBlockSequence(li)
	case li == parentIndent+indentStep:
		return p.parseBlockMapping(li, false)
	default:
		return nil, p.s.Errorf("nested value indented %d columns, expected %d", li, parentIndent+indentStep)
	}
}

// dashAt reports whether the current line carries a sequence entry marker at
// column col: a dash followed by a space or end of line. A dash glued to
// content (`-17`) is a plain scalar, not an entry.
func (p *parser) dashAt(col int) bool {
	b, ok := p.s.PeekAt(col)
	if !ok || b != '-' {
		return false
	}
	nb, ok := p.s.PeekAt(col + 1)
	return !ok || nb == ' ' || nb == '\n' || nb == '\r'
}

// parseBlockSequence parses entries whose dashes sit at exactly dashCol.
func (p *parser) parseBlockSequence(dashCol int) (*scene.Sequence, error) {
	seq := &scene.Sequence{}
	for {
		p.skipBlankLines()
		if p.s.EOF() || p.atDocBoundary() {
			return seq, nil
		}
		li := p.s.LineIndent()
		if li < dashCol {
			return seq, nil
		}
		if li > dashCol {
			return nil, p.s.Errorf("unexpected indentation: %d columns, expected %d", li, dashCol)
		}
		if !p.dashAt(li) {
			return seq, nil
		}
		p.s.Skip(li + 1)

		item, err := p.parseSequenceItem(dashCol)
		if err != nil {
			return nil, err
		}
		seq.Items = append(seq.Items, item)
		if p.s.EOF() {
			return seq, nil
		}
	}
}

// parseSequenceItem parses what follows a dash. An item starting with
// `key: ...` opens a mapping whose further keys sit two past the dash.
func (p *parser) parseSequenceItem(dashCol int) (scene.Node, error) {
	b, ok := p.s.Peek()
	if !ok {
		return scene.NullScalar(), nil
	}
	if b == '\n' || b == '\r' {
		p.s.SkipLineBreak()
		return p.parseNestedValue(dashCol)
	}
	p.s.Next() // the space after the dash
	b, ok = p.s.Peek()
	if !ok {
		return scene.NullScalar(), nil
	}
	if b != '{' && b != '[' && b != '\'' && b != '"' && p.lineOpensMapping() {
		return p.parseBlockMapping(dashCol+indentStep, true)
	}
	return p.parseInlineValue(dashCol)
}

// lineOpensMapping reports whether the rest of the line starts with a
// `key: ` (or line-final `key:`) form.
func (p *parser) lineOpensMapping() bool {
	rest := p.s.PeekRestOfLine()
	i := strings.IndexByte(rest, ':')
	if i <= 0 {
		return false
	}
	return i+1 == len(rest) || rest[i+1] == ' '
}

// parseInlineValue parses a value that starts on the current line, after
// `key: ` or `- `. It consumes through the end of the line.
func (p *parser) parseInlineValue(indent int) (scene.Node, error) {
	b, _ := p.s.Peek()
	switch b {
	case '{':
		m, err := p.parseFlowMapping()
		if err != nil {
			return nil, err
		}
		return m, p.endOfLine()
	case '[':
		seq, err := p.parseFlowSequence()
		if err != nil {
			return nil, err
		}
		return seq, p.endOfLine()
	case '\'':
		raw, err := p.s.LexSingleQuoted()
		if err != nil {
			return nil, err
		}
		return &scene.Scalar{Raw: raw, Kind: scene.KindString, Style: scene.StyleSingleQuoted}, p.endOfLine()
	case '"':
		raw, err := p.s.LexDoubleQuoted()
		if err != nil {
			return nil, err
		}
		return &scene.Scalar{Raw: raw, Kind: scene.KindString, Style: scene.StyleDoubleQuoted}, p.endOfLine()
	case '|', '>':
		return p.parseBlockScalar(indent)
	default:
		raw := p.s.LexPlainBlock()
		return &scene.Scalar{Raw: raw, Kind: Classify(raw)}, nil
	}
}

// endOfLine consumes trailing spaces and the line terminator after an inline
// value. Content after a closed flow node is an error.
func (p *parser) endOfLine() error {
	p.s.SkipSpaces()
	if p.s.EOF() {
		return nil
	}
	if !p.s.SkipLineBreak() {
		return p.s.Errorf("unexpected content after value")
	}
	return nil
}

// parseBlockScalar captures a | or > scalar verbatim: the indicator line and
// every following line indented past the owning key. The body is never
// rewritten, so decoding the folding semantics is unnecessary.
func (p *parser) parseBlockScalar(keyIndent int) (scene.Node, error) {
	var raw strings.Builder
	raw.WriteString(p.s.RestOfLine())
	for !p.s.EOF() {
		if p.s.BlankLine() {
			n, ok := p.indentAfterBlanks()
			if !ok || n <= keyIndent {
				break
			}
		} else if p.s.LineIndent() <= keyIndent {
			break
		}
		raw.WriteByte('\n')
		raw.WriteString(p.s.RestOfLine())
	}
	return &scene.Scalar{Raw: raw.String(), Kind: scene.KindString, Style: scene.StyleBlock}, nil
}

// indentAfterBlanks peeks past the current run of blank lines and returns
// the indentation of the first non-blank line, if any.
func (p *parser) indentAfterBlanks() (int, bool) {
	off := 0
	indent := 0
	for {
		b, ok := p.s.PeekAt(off)
		if !ok {
			return 0, false
		}
		switch b {
		case ' ':
			indent++
		case '\r':
		case '\n':
			indent = 0
		default:
			return indent, true
		}
		off++
	}
}
