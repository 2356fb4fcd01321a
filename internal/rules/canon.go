package rules

import (
	"fmt"
	"strings"

	"github.com/shapestone/scene-filter/pkg/scene"
)

// Canonicalize applies the rule table for the requested version to every
// document of the stream, in place. It is idempotent: a second pass over its
// own output changes nothing, which is what keeps clean-filtered files from
// re-diffing.
//
// A rule whose target field is absent holds vacuously. A rule whose path
// meets the wrong structure (a scalar where a mapping was expected, a
// non-mapping sequence element) fails with *scene.CanonicalizationError;
// rules are never skipped silently.
func Canonicalize(stream *scene.Stream, version int) error {
	ruleList, err := ForVersion(version)
	if err != nil {
		return err
	}
	for _, doc := range stream.Documents {
		body := doc.Body()
		if body == nil {
			continue
		}
		for i := range ruleList {
			r := &ruleList[i]
			if r.Type != "*" && r.Type != doc.TypeName() {
				continue
			}
			if err := applyPath(r, doc.TypeName(), body, r.Path); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyPath walks the remaining path segments down from m and applies the
// rule's action at the final segment. An intermediate sequence fans the rule
// out to each element.
func applyPath(r *Rule, typeName string, m *scene.Mapping, path []string) error {
	if len(path) == 1 {
		return applyAction(r, typeName, m, path[0])
	}
	switch v := m.Get(path[0]).(type) {
	case nil:
		return nil
	case *scene.Mapping:
		return applyPath(r, typeName, v, path[1:])
	case *scene.Sequence:
		for _, item := range v.Items {
			elem, ok := item.(*scene.Mapping)
			if !ok {
				return ruleError(r, typeName, "sequence element at %q is not a mapping", path[0])
			}
			if err := applyPath(r, typeName, elem, path[1:]); err != nil {
				return err
			}
		}
		return nil
	default:
		return ruleError(r, typeName, "expected a mapping at %q", path[0])
	}
}

func applyAction(r *Rule, typeName string, m *scene.Mapping, key string) error {
	value := m.Get(key)
	if value == nil {
		return nil
	}
	switch r.Kind {
	case Remove:
		m.Delete(key)
		return nil

	case Rewrite:
		// A reference-shaped value is validated before it is thrown away:
		// a malformed GUID here means the input is corrupt, not merely
		// unclean, and must surface rather than be papered over.
		if ref, ok := value.(*scene.Mapping); ok && ref.Get("guid") != nil {
			if _, err := ParseReference(ref); err != nil {
				return ruleError(r, typeName, "%v", err)
			}
		}
		m.Set(key, r.Replacement())
		return nil

	case Normalize:
		s, ok := value.(*scene.Scalar)
		if !ok {
			return ruleError(r, typeName, "expected a scalar at %q", key)
		}
		coerced, err := r.Coerce(s)
		if err != nil {
			return ruleError(r, typeName, "%v", err)
		}
		m.Set(key, coerced)
		return nil

	case FilterElements:
		seq, ok := value.(*scene.Sequence)
		if !ok {
			// `key: ` with no entries parses as null; nothing to filter.
			if s, isScalar := value.(*scene.Scalar); isScalar && s.Null() {
				return nil
			}
			return ruleError(r, typeName, "expected a sequence at %q", key)
		}
		kept := seq.Items[:0]
		for _, item := range seq.Items {
			elem, ok := item.(*scene.Mapping)
			if !ok {
				return ruleError(r, typeName, "sequence element at %q is not a mapping", key)
			}
			if r.Keep(elem) {
				kept = append(kept, item)
			}
		}
		if len(kept) == 0 {
			m.Set(key, scene.EmptySequence())
			return nil
		}
		seq.Items = kept
		return nil
	}
	return ruleError(r, typeName, "unknown action kind %d", r.Kind)
}

func ruleError(r *Rule, typeName, format string, args ...any) error {
	return &scene.CanonicalizationError{
		Type: typeName,
		Path: strings.Join(r.Path, "."),
		Msg:  fmt.Sprintf(format, args...),
	}
}
