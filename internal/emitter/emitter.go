// Package emitter serializes a document tree back to the scene dialect's
// byte format.
//
// Output is deterministic: one fixed rendering per tree. Directives and
// document headers are written verbatim, block structure uses 2-space
// indentation with sequence dashes at the parent key's column, flow nodes
// render on a single line however the input wrapped them, and scalars keep
// their recorded lexical form. Lines end with LF, blank lines are never
// written, and the output carries exactly one trailing newline.
package emitter

import (
	"bytes"
	"strings"

	"github.com/shapestone/scene-filter/pkg/scene"
)

// Emit renders the stream.
func Emit(stream *scene.Stream) []byte {
	var buf bytes.Buffer
	for _, d := range stream.Directives {
		buf.WriteString(d)
		buf.WriteByte('\n')
	}
	for _, doc := range stream.Documents {
		buf.WriteString("--- !u!")
		buf.WriteString(doc.ClassID)
		buf.WriteString(" &")
		buf.WriteString(doc.Anchor)
		if doc.Stripped {
			buf.WriteString(" stripped")
		}
		buf.WriteByte('\n')
		if doc.Root != nil {
			emitBlockMapping(&buf, doc.Root, 0)
		}
	}
	return buf.Bytes()
}

func emitBlockMapping(buf *bytes.Buffer, m *scene.Mapping, indent int) {
	for _, e := range m.Entries {
		writeIndent(buf, indent)
		buf.WriteString(e.Key)
		buf.WriteByte(':')
		emitValue(buf, e.Value, indent)
	}
}

// emitValue writes everything after a key's colon (or a sequence dash),
// through the end of the entry's last line.
func emitValue(buf *bytes.Buffer, v scene.Node, indent int) {
	switch n := v.(type) {
	case *scene.Scalar:
		if n.Null() && n.Style == scene.StylePlain {
			buf.WriteByte('\n')
			return
		}
		buf.WriteByte(' ')
		buf.WriteString(n.Raw)
		buf.WriteByte('\n')
	case *scene.Mapping:
		if n.Flow {
			buf.WriteByte(' ')
			buf.WriteString(flowString(n))
			buf.WriteByte('\n')
			return
		}
		buf.WriteByte('\n')
		emitBlockMapping(buf, n, indent+2)
	case *scene.Sequence:
		if n.Flow || len(n.Items) == 0 {
			buf.WriteByte(' ')
			buf.WriteString(flowString(n))
			buf.WriteByte('\n')
			return
		}
		buf.WriteByte('\n')
		emitBlockSequence(buf, n, indent)
	}
}

// emitBlockSequence writes dashes at dashCol, the engine serializer's
// same-column-as-parent-key convention.
func emitBlockSequence(buf *bytes.Buffer, seq *scene.Sequence, dashCol int) {
	for _, item := range seq.Items {
		writeIndent(buf, dashCol)
		buf.WriteByte('-')
		m, ok := item.(*scene.Mapping)
		if ok && !m.Flow && len(m.Entries) > 0 {
			// first entry shares the dash's line
			buf.WriteByte(' ')
			buf.WriteString(m.Entries[0].Key)
			buf.WriteByte(':')
			emitValue(buf, m.Entries[0].Value, dashCol+2)
			rest := &scene.Mapping{Entries: m.Entries[1:]}
			emitBlockMapping(buf, rest, dashCol+2)
			continue
		}
		emitValue(buf, item, dashCol+2)
	}
}

// flowString renders a flow node on one line.
func flowString(v scene.Node) string {
	var b strings.Builder
	writeFlow(&b, v)
	return b.String()
}

func writeFlow(b *strings.Builder, v scene.Node) {
	switch n := v.(type) {
	case *scene.Scalar:
		b.WriteString(n.Raw)
	case *scene.Mapping:
		b.WriteByte('{')
		for i, e := range n.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Key)
			b.WriteString(": ")
			writeFlow(b, e.Value)
		}
		b.WriteByte('}')
	case *scene.Sequence:
		b.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeFlow(b, item)
		}
		b.WriteByte(']')
	}
}

func writeIndent(buf *bytes.Buffer, n int) {
	for i := 0; i < n; i++ {
		buf.WriteByte(' ')
	}
}
