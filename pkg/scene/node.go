// Package scene defines the document model for the engine's YAML-flavored
// scene serialization dialect, plus the error taxonomy shared by the parser,
// canonicalizer and emitter.
//
// A parsed stream is a sequence of Documents, each a tree of Nodes. The model
// is deliberately a tree, not a graph: cross-document references (fileID/guid
// pairs) are carried as opaque scalar content and never resolved here.
//
// Scalars keep their original lexical form so that untouched values re-emit
// byte-identically. A canonicalization rule that replaces a value constructs
// a fresh Node with a fixed lexical form instead.
package scene

// Node is a value in a document tree: a *Scalar, *Sequence or *Mapping.
type Node interface {
	node()
}

// ScalarKind classifies a scalar by its lexical form.
type ScalarKind int

const (
	KindString ScalarKind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
)

// ScalarStyle records how a scalar was written in the source.
type ScalarStyle int

const (
	StylePlain ScalarStyle = iota
	StyleSingleQuoted
	StyleDoubleQuoted
	// StyleBlock covers | and > scalars. Raw holds the indicator line and
	// the indented body verbatim, including interior newlines.
	StyleBlock
)

// Scalar is a leaf value. Raw is the exact source spelling (for quoted
// styles it includes the quotes; for null it is usually empty).
type Scalar struct {
	Raw   string
	Kind  ScalarKind
	Style ScalarStyle
}

func (*Scalar) node() {}

// Null reports whether the scalar is the dialect's empty/null value.
func (s *Scalar) Null() bool { return s.Kind == KindNull }

// Text returns the scalar's content with quoting stripped for the two
// single-line quoted styles. Block scalars and plain scalars return Raw.
func (s *Scalar) Text() string {
	switch s.Style {
	case StyleSingleQuoted:
		return unquoteSingle(s.Raw)
	case StyleDoubleQuoted:
		return unquoteDouble(s.Raw)
	default:
		return s.Raw
	}
}

// Sequence is an ordered list of nodes. Flow marks the inline [a, b] form;
// an explicit empty sequence is always flow.
type Sequence struct {
	Items []Node
	Flow  bool
}

func (*Sequence) node() {}

// Mapping is an ordered list of key/value entries. Keys are unique within a
// mapping; order is preserved because it is what diff stability depends on.
type Mapping struct {
	Entries []MapEntry
	Flow    bool
}

func (*Mapping) node() {}

// MapEntry is a single key/value pair of a Mapping.
type MapEntry struct {
	Key   string
	Value Node
}

// Get returns the value for key, or nil if the key is absent.
func (m *Mapping) Get(key string) Node {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			return m.Entries[i].Value
		}
	}
	return nil
}

// Set replaces the value for an existing key in place. It reports whether
// the key was present; it never adds entries.
func (m *Mapping) Set(key string, value Node) bool {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			m.Entries[i].Value = value
			return true
		}
	}
	return false
}

// Delete removes the entry for key, preserving the order of the remaining
// entries. It reports whether the key was present.
func (m *Mapping) Delete(key string) bool {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// NullScalar returns a fresh null scalar node.
func NullScalar() *Scalar {
	return &Scalar{Kind: KindNull}
}

// IntScalar returns a plain scalar with the canonical spelling of n.
func IntScalar(raw string) *Scalar {
	return &Scalar{Raw: raw, Kind: KindInt}
}

// EmptySequence returns the explicit empty sequence ([]).
func EmptySequence() *Sequence {
	return &Sequence{Flow: true}
}

func unquoteSingle(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		out = append(out, body[i])
		if body[i] == '\'' && i+1 < len(body) && body[i+1] == '\'' {
			i++ // doubled quote collapses to one
		}
	}
	return string(out)
}

func unquoteDouble(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' || i+1 >= len(body) {
			out = append(out, body[i])
			continue
		}
		i++
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '0':
			out = append(out, 0)
		default:
			// \" \\ and anything else: keep the escaped byte
			out = append(out, body[i])
		}
	}
	return string(out)
}
