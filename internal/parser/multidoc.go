package parser

import (
	"github.com/shapestone/scene-filter/internal/tokenizer"
	"github.com/shapestone/scene-filter/pkg/scene"
)

// ParseStream parses a whole scene file: the leading %-directives followed
// by the document sequence. An empty input parses to an empty stream; any
// other input must open its first document with a separator line.
func ParseStream(src []byte) (*scene.Stream, error) {
	p := &parser{s: tokenizer.New(src)}
	stream := &scene.Stream{}

	for {
		b, ok := p.s.Peek()
		if !ok || b != '%' {
			break
		}
		d, err := p.s.LexDirective()
		if err != nil {
			return nil, err
		}
		stream.Directives = append(stream.Directives, d)
	}

	for {
		p.skipBlankLines()
		if p.s.EOF() {
			return stream, nil
		}
		doc, err := p.parseDocument()
		if err != nil {
			return nil, err
		}
		stream.Documents = append(stream.Documents, doc)
	}
}

func (p *parser) parseDocument() (*scene.Document, error) {
	if p.s.LineIndent() != 0 {
		return nil, p.s.Errorf("expected document separator at column 1")
	}
	h, err := p.s.LexDocHeader()
	if err != nil {
		return nil, err
	}
	root, err := p.parseBlockMapping(0, false)
	if err != nil {
		return nil, err
	}
	return &scene.Document{
		ClassID:  h.ClassID,
		Anchor:   h.Anchor,
		Stripped: h.Stripped,
		Root:     root,
	}, nil
}
