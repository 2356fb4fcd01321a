// Package filter provides the content-filter operations for engine scene
// files: Clean canonicalizes a file for commit, Smudge restores it for the
// working tree.
//
// Clean parses the engine's YAML-flavored scene dialect into a document
// tree, applies the versioned canonicalization rules, optionally sorts the
// documents by fileID, and re-emits deterministic bytes. The pipeline is a
// pure function of its input and configuration: same bytes and Config in,
// same bytes out, on every machine.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. Each call builds its own parser and emitter state; the only
// shared data is the immutable compiled-in rule table. Git invokes content
// filters concurrently per file and needs no coordination here.
//
// # Example usage:
//
//	raw, err := os.ReadFile("Scene.unity")
//	if err != nil {
//	    // handle error
//	}
//	out, err := filter.Clean(raw, filter.Config{Version: 1, Sort: true})
//	if err != nil {
//	    // handle error
//	}
//	// out holds the canonical bytes to commit
package filter

import (
	"fmt"

	"github.com/shapestone/scene-filter/internal/emitter"
	"github.com/shapestone/scene-filter/internal/parser"
	"github.com/shapestone/scene-filter/internal/rules"
	"github.com/shapestone/scene-filter/pkg/scene"
)

// Version bounds of the compiled-in rule tables. A repository whose
// attributes pin a version above MaxVersion needs a newer build; Clean
// reports *scene.UnsupportedVersionError rather than canonicalizing with
// stale rules.
const (
	DefaultVersion = rules.DefaultVersion
	MaxVersion     = rules.MaxVersion
)

// Config selects the per-invocation filter behavior. It is sourced from the
// command line, which in turn is wired through git attributes.
type Config struct {
	// Version selects the rule table. Zero means DefaultVersion.
	Version int
	// Sort reorders documents by ascending fileID before emitting.
	Sort bool
}

// Clean canonicalizes one scene file. Errors are *scene.ParseError,
// *scene.UnsupportedVersionError, *scene.CanonicalizationError or
// *scene.NonNumericAnchorError; the caller decides whether a failure fails
// the git operation or passes the file through unfiltered.
func Clean(input []byte, cfg Config) ([]byte, error) {
	version := cfg.Version
	if version == 0 {
		version = DefaultVersion
	}
	stream, err := parser.ParseStream(input)
	if err != nil {
		return nil, err
	}
	if err := rules.Canonicalize(stream, version); err != nil {
		return nil, err
	}
	if cfg.Sort {
		if err := rules.SortDocuments(stream); err != nil {
			return nil, fmt.Errorf("sorting documents: %w", err)
		}
	}
	return emitter.Emit(stream), nil
}

// Smudge restores a committed file for the working tree. No current rule
// defines a restore action, so Smudge is the identity: the engine
// regenerates every field Clean strips. It stays a distinct operation so the
// attributes wiring and any future restore rules have a place to live.
func Smudge(input []byte) []byte {
	out := make([]byte, len(input))
	copy(out, input)
	return out
}

// Parse exposes the dialect parser for callers that inspect scene structure
// without rewriting it.
func Parse(input []byte) (*scene.Stream, error) {
	return parser.ParseStream(input)
}

// Emit renders a stream to canonical bytes.
func Emit(stream *scene.Stream) []byte {
	return emitter.Emit(stream)
}
