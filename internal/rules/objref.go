package rules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/shapestone/scene-filter/pkg/scene"
)

// Reference is a parsed object reference: the flow mapping form
// {fileID: N, guid: <32 hex digits>, type: N} the engine writes for
// cross-asset pointers. fileID-only references point within the stream.
type Reference struct {
	FileID string
	GUID   string
	Type   string
}

// ParseReference extracts a Reference from a flow mapping and validates the
// GUID, which the engine writes as an undashed 32-hex-digit UUID. Extra keys
// are rejected; the reference shape is fixed.
func ParseReference(m *scene.Mapping) (Reference, error) {
	var ref Reference
	for _, e := range m.Entries {
		s, ok := e.Value.(*scene.Scalar)
		if !ok {
			return Reference{}, fmt.Errorf("reference field %q is not a scalar", e.Key)
		}
		switch e.Key {
		case "fileID":
			ref.FileID = s.Text()
		case "guid":
			ref.GUID = s.Text()
		case "type":
			ref.Type = s.Text()
		default:
			return Reference{}, fmt.Errorf("unexpected reference field %q", e.Key)
		}
	}
	if ref.FileID == "" {
		return Reference{}, fmt.Errorf("reference has no fileID")
	}
	if ref.GUID != "" {
		if len(ref.GUID) != 32 {
			return Reference{}, fmt.Errorf("reference guid %q is not 32 hex digits", ref.GUID)
		}
		if _, err := uuid.Parse(ref.GUID); err != nil {
			return Reference{}, fmt.Errorf("reference guid %q: %v", ref.GUID, err)
		}
	}
	return ref, nil
}
