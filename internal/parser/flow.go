package parser

import (
	"strings"

	"github.com/shapestone/scene-filter/pkg/scene"
)

// Flow nodes. The engine writes object references and color/vector values in
// flow style, and wraps long flow mappings across lines at an arbitrary
// column. Wrapping carries no structure, so continuation indentation is
// skipped rather than checked.

func (p *parser) parseFlowMapping() (*scene.Mapping, error) {
	start := p.s.Pos()
	p.s.Next() // '{'
	m := &scene.Mapping{Flow: true}
	if err := p.skipFlowSpace(start, "flow mapping"); err != nil {
		return nil, err
	}
	if b, _ := p.s.Peek(); b == '}' {
		p.s.Next()
		return m, nil
	}
	for {
		keyPos := p.s.Pos()
		key, err := p.lexFlowKey()
		if err != nil {
			return nil, err
		}
		if m.Get(key) != nil {
			return nil, p.s.ErrorfAt(keyPos, "duplicate mapping key %q", key)
		}
		if err := p.skipFlowSpace(start, "flow mapping"); err != nil {
			return nil, err
		}
		value, err := p.parseFlowValue(start)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, scene.MapEntry{Key: key, Value: value})

		if err := p.skipFlowSpace(start, "flow mapping"); err != nil {
			return nil, err
		}
		b, ok := p.s.Peek()
		switch {
		case !ok:
			return nil, p.s.ErrorfAt(start, "unterminated flow mapping")
		case b == ',':
			p.s.Next()
			if err := p.skipFlowSpace(start, "flow mapping"); err != nil {
				return nil, err
			}
		case b == '}':
			p.s.Next()
			return m, nil
		default:
			return nil, p.s.Errorf("expected `,` or `}` in flow mapping")
		}
	}
}

func (p *parser) parseFlowSequence() (*scene.Sequence, error) {
	start := p.s.Pos()
	p.s.Next() // '['
	seq := &scene.Sequence{Flow: true}
	if err := p.skipFlowSpace(start, "flow sequence"); err != nil {
		return nil, err
	}
	if b, _ := p.s.Peek(); b == ']' {
		p.s.Next()
		return seq, nil
	}
	for {
		item, err := p.parseFlowValue(start)
		if err != nil {
			return nil, err
		}
		seq.Items = append(seq.Items, item)

		if err := p.skipFlowSpace(start, "flow sequence"); err != nil {
			return nil, err
		}
		b, ok := p.s.Peek()
		switch {
		case !ok:
			return nil, p.s.ErrorfAt(start, "unterminated flow sequence")
		case b == ',':
			p.s.Next()
			if err := p.skipFlowSpace(start, "flow sequence"); err != nil {
				return nil, err
			}
		case b == ']':
			p.s.Next()
			return seq, nil
		default:
			return nil, p.s.Errorf("expected `,` or `]` in flow sequence")
		}
	}
}

func (p *parser) parseFlowValue(start scene.Position) (scene.Node, error) {
	b, ok := p.s.Peek()
	if !ok {
		return nil, p.s.ErrorfAt(start, "unterminated flow node")
	}
	switch b {
	case '{':
		return p.parseFlowMapping()
	case '[':
		return p.parseFlowSequence()
	case '\'':
		raw, err := p.s.LexSingleQuoted()
		if err != nil {
			return nil, err
		}
		return &scene.Scalar{Raw: raw, Kind: scene.KindString, Style: scene.StyleSingleQuoted}, nil
	case '"':
		raw, err := p.s.LexDoubleQuoted()
		if err != nil {
			return nil, err
		}
		return &scene.Scalar{Raw: raw, Kind: scene.KindString, Style: scene.StyleDoubleQuoted}, nil
	default:
		raw := p.s.LexPlainFlow()
		return &scene.Scalar{Raw: raw, Kind: Classify(raw)}, nil
	}
}

// lexFlowKey consumes a plain key and its colon inside a flow mapping.
func (p *parser) lexFlowKey() (string, error) {
	var b strings.Builder
	for {
		c, ok := p.s.Peek()
		if !ok || c == '\n' || c == '\r' || c == ',' || c == '{' || c == '}' || c == '[' || c == ']' {
			return "", p.s.Errorf("expected `:` after flow mapping key")
		}
		if c == ':' {
			if b.Len() == 0 {
				return "", p.s.Errorf("empty flow mapping key")
			}
			p.s.Next()
			return b.String(), nil
		}
		p.s.Next()
		b.WriteByte(c)
	}
}

// skipFlowSpace consumes spaces inside a flow node, following line wraps
// onto the continuation line. Hitting end of input is the enclosing node's
// unterminated error.
func (p *parser) skipFlowSpace(start scene.Position, what string) error {
	for {
		p.s.SkipSpaces()
		b, ok := p.s.Peek()
		if !ok {
			return p.s.ErrorfAt(start, "unterminated %s", what)
		}
		if b != '\n' && b != '\r' {
			return nil
		}
		if !p.s.SkipLineBreak() {
			return p.s.Errorf("bare carriage return in %s", what)
		}
	}
}
