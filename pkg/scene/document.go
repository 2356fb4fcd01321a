package scene

import "strconv"

// Document is one object record in a multi-document stream. The header line
// `--- !u!<ClassID> &<Anchor>` carries a numeric class identifier and the
// object's per-stream unique fileID; both are kept as opaque text. Stripped
// marks the ` stripped` header suffix the engine writes for prefab-stripped
// objects.
//
// Root is the document's top-level block mapping. In this dialect it always
// has exactly one entry whose key is the object's type name (GameObject,
// MonoBehaviour, ...).
type Document struct {
	ClassID  string
	Anchor   string
	Stripped bool
	Root     *Mapping
}

// TypeName returns the object type name, the single top-level key of the
// root mapping. It returns "" for a malformed root.
func (d *Document) TypeName() string {
	if d.Root == nil || len(d.Root.Entries) == 0 {
		return ""
	}
	return d.Root.Entries[0].Key
}

// Body returns the object's field mapping (the value under the type name
// key), or nil when the document body is not a mapping.
func (d *Document) Body() *Mapping {
	if d.Root == nil || len(d.Root.Entries) == 0 {
		return nil
	}
	m, ok := d.Root.Entries[0].Value.(*Mapping)
	if !ok {
		return nil
	}
	return m
}

// FileID parses the document anchor as the signed integer sort key.
// Anchors that are not integers (the engine never writes any) fail with
// *NonNumericAnchorError.
func (d *Document) FileID() (int64, error) {
	id, err := strconv.ParseInt(d.Anchor, 10, 64)
	if err != nil {
		return 0, &NonNumericAnchorError{Anchor: d.Anchor}
	}
	return id, nil
}

// Stream is a fully parsed file: the leading directive lines (kept verbatim)
// and the ordered document sequence.
type Stream struct {
	Directives []string
	Documents  []*Document
}
