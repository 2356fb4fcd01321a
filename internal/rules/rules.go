// Package rules holds the version-indexed canonicalization rule tables, the
// canonicalizer that applies a selected table to a parsed stream, and the
// document sorter.
//
// Tables are package-level immutable data. Rules are additive across
// versions: the table for version N is the union of tables 1..N, so output
// produced under version N is reproducible by every later build. Changing an
// existing version's entries would rewrite committed history; add a version
// instead.
package rules

import (
	"errors"
	"strings"

	"github.com/shapestone/scene-filter/pkg/scene"
)

var errNotBool = errors.New("value is not a boolean")

// Version bounds for the compiled-in tables.
const (
	DefaultVersion = 1
	MaxVersion     = 2
)

// ActionKind selects what a rule does to its target field.
type ActionKind int

const (
	// Remove deletes the field.
	Remove ActionKind = iota
	// Rewrite replaces the field's value with a fixed node.
	Rewrite
	// Normalize coerces semantically equivalent spellings of the field's
	// scalar value to one canonical spelling.
	Normalize
	// FilterElements drops entries of a sequence-of-mappings field that
	// match a predicate.
	FilterElements
)

// Rule is one canonicalization action, keyed by object type name and field
// path. Type "*" matches every object type. Path segments walk block
// mappings; a sequence met along the way fans the rule out per element.
type Rule struct {
	Type string
	Path []string
	Kind ActionKind

	// Replacement builds a fresh node for Rewrite. A fresh node per
	// application keeps documents from sharing mutable structure.
	Replacement func() scene.Node

	// Coerce rewrites a scalar for Normalize.
	Coerce func(*scene.Scalar) (*scene.Scalar, error)

	// Keep reports whether a sequence element survives FilterElements.
	Keep func(*scene.Mapping) bool
}

// tables holds the per-version rule increments. See the package comment for
// the additivity contract.
var tables = map[int][]Rule{
	1: {
		{Type: "*", Path: []string{"m_EditorHideFlags"}, Kind: Remove},
		{Type: "MonoBehaviour", Path: []string{"serializedProgramAsset"}, Kind: Rewrite, Replacement: nullReference},
		{Type: "MonoBehaviour", Path: []string{"serializedUdonProgramAsset"}, Kind: Rewrite, Replacement: nullReference},
		{Type: "PrefabInstance", Path: []string{"m_Modification", "m_Modifications"}, Kind: FilterElements, Keep: keepUnlessNullProgramAsset},
	},
	2: {
		{Type: "MonoBehaviour", Path: []string{"DynamicMaterials"}, Kind: Rewrite, Replacement: emptySequence},
		{Type: "MonoBehaviour", Path: []string{"DynamicPrefabs"}, Kind: Rewrite, Replacement: emptySequence},
		{Type: "PrefabInstance", Path: []string{"m_Modification", "m_Modifications"}, Kind: FilterElements, Keep: keepUnlessDynamicContainer},
		{Type: "RenderSettings", Path: []string{"m_IndirectSpecularColor"}, Kind: Rewrite, Replacement: blackSpecularColor},
		{Type: "MonoBehaviour", Path: []string{"m_Enabled"}, Kind: Normalize, Coerce: coerceBoolSpelling},
	},
}

// ForVersion returns the effective rule list for a requested version: the
// concatenation of tables 1..version. Versions outside the supported range
// fail with *scene.UnsupportedVersionError.
func ForVersion(version int) ([]Rule, error) {
	if version < 1 || version > MaxVersion {
		return nil, &scene.UnsupportedVersionError{Requested: version, MaxSupported: MaxVersion}
	}
	var out []Rule
	for v := 1; v <= version; v++ {
		out = append(out, tables[v]...)
	}
	return out, nil
}

// nullReference is the canonical "no object" reference.
func nullReference() scene.Node {
	return &scene.Mapping{
		Flow:    true,
		Entries: []scene.MapEntry{{Key: "fileID", Value: scene.IntScalar("0")}},
	}
}

func emptySequence() scene.Node {
	return scene.EmptySequence()
}

// blackSpecularColor is the value the engine computes for
// m_IndirectSpecularColor on a fresh bake; the baked value drifts per
// machine, so it is pinned.
func blackSpecularColor() scene.Node {
	return &scene.Mapping{
		Flow: true,
		Entries: []scene.MapEntry{
			{Key: "r", Value: scene.IntScalar("0")},
			{Key: "g", Value: scene.IntScalar("0")},
			{Key: "b", Value: scene.IntScalar("0")},
			{Key: "a", Value: scene.IntScalar("1")},
		},
	}
}

// coerceBoolSpelling folds true/false spellings into the 0/1 integers the
// engine serializer writes.
func coerceBoolSpelling(s *scene.Scalar) (*scene.Scalar, error) {
	switch {
	case s.Kind == scene.KindBool && s.Raw == "true":
		return scene.IntScalar("1"), nil
	case s.Kind == scene.KindBool && s.Raw == "false":
		return scene.IntScalar("0"), nil
	case s.Kind == scene.KindInt && (s.Raw == "0" || s.Raw == "1"):
		return s, nil
	}
	return nil, errNotBool
}

// keepUnlessNullProgramAsset drops prefab modification entries that clear a
// program asset reference; those entries only exist to undo the build
// artifact the Rewrite rules already strip from the source object.
func keepUnlessNullProgramAsset(elem *scene.Mapping) bool {
	path, ok := elem.Get("propertyPath").(*scene.Scalar)
	if !ok || path.Text() != "serializedProgramAsset" {
		return true
	}
	value, ok := elem.Get("value").(*scene.Scalar)
	return !ok || !value.Null()
}

// keepUnlessDynamicContainer drops prefab modification entries that touch
// the dynamic material/prefab container arrays.
func keepUnlessDynamicContainer(elem *scene.Mapping) bool {
	path, ok := elem.Get("propertyPath").(*scene.Scalar)
	if !ok {
		return true
	}
	p := path.Text()
	return !strings.HasPrefix(p, "DynamicMaterials.Array") && !strings.HasPrefix(p, "DynamicPrefabs.Array")
}
