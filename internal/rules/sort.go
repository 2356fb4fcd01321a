package rules

import (
	"sort"

	"github.com/shapestone/scene-filter/pkg/scene"
)

// SortDocuments stably reorders the stream's documents by ascending fileID
// (the anchor parsed as a signed 64-bit integer; negative ids occur for
// engine-internal objects). Documents with equal ids keep their input order.
// Internal document structure is untouched.
//
// Any non-integer anchor fails the whole sort with
// *scene.NonNumericAnchorError; partial ordering would not be deterministic.
func SortDocuments(stream *scene.Stream) error {
	type keyed struct {
		id  int64
		doc *scene.Document
	}
	ks := make([]keyed, len(stream.Documents))
	for i, doc := range stream.Documents {
		id, err := doc.FileID()
		if err != nil {
			return err
		}
		ks[i] = keyed{id: id, doc: doc}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].id < ks[j].id })
	for i := range ks {
		stream.Documents[i] = ks[i].doc
	}
	return nil
}
