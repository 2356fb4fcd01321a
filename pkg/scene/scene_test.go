package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingAccessors(t *testing.T) {
	m := &Mapping{Entries: []MapEntry{
		{Key: "a", Value: IntScalar("1")},
		{Key: "b", Value: IntScalar("2")},
		{Key: "c", Value: IntScalar("3")},
	}}

	assert.Equal(t, "2", m.Get("b").(*Scalar).Raw)
	assert.Nil(t, m.Get("missing"))

	assert.True(t, m.Set("b", IntScalar("20")))
	assert.Equal(t, "20", m.Get("b").(*Scalar).Raw)
	assert.False(t, m.Set("missing", IntScalar("0")), "Set never adds keys")
	assert.Len(t, m.Entries, 3)

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "a", m.Entries[0].Key)
	assert.Equal(t, "c", m.Entries[1].Key)
}

func TestScalarText(t *testing.T) {
	tests := []struct {
		name string
		in   *Scalar
		want string
	}{
		{"plain", &Scalar{Raw: "Program", Kind: KindString}, "Program"},
		{"single quoted", &Scalar{Raw: "'it''s'", Kind: KindString, Style: StyleSingleQuoted}, "it's"},
		{"double quoted", &Scalar{Raw: `"a\"b\nc"`, Kind: KindString, Style: StyleDoubleQuoted}, "a\"b\nc"},
		{"double quoted tab", &Scalar{Raw: `"a\tb"`, Kind: KindString, Style: StyleDoubleQuoted}, "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Text())
		})
	}
}

func TestScalarNull(t *testing.T) {
	assert.True(t, NullScalar().Null())
	assert.False(t, IntScalar("0").Null())
}

func TestDocumentTypeNameAndBody(t *testing.T) {
	doc := &Document{
		ClassID: "114",
		Anchor:  "11400000",
		Root: &Mapping{Entries: []MapEntry{{
			Key:   "MonoBehaviour",
			Value: &Mapping{Entries: []MapEntry{{Key: "m_Name", Value: NullScalar()}}},
		}}},
	}
	assert.Equal(t, "MonoBehaviour", doc.TypeName())
	require.NotNil(t, doc.Body())
	assert.NotNil(t, doc.Body().Get("m_Name"))

	empty := &Document{Root: &Mapping{}}
	assert.Equal(t, "", empty.TypeName())
	assert.Nil(t, empty.Body())
}

func TestDocumentFileID(t *testing.T) {
	tests := []struct {
		anchor  string
		want    int64
		wantErr bool
	}{
		{"100000", 100000, false},
		{"-8679921383154817045", -8679921383154817045, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			id, err := (&Document{Anchor: tt.anchor}).FileID()
			if tt.wantErr {
				require.Error(t, err)
				var aerr *NonNumericAnchorError
				require.ErrorAs(t, err, &aerr)
				assert.Equal(t, tt.anchor, aerr.Anchor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	perr := &ParseError{Pos: Position{Offset: 10, Line: 2, Column: 5}, Msg: "duplicate mapping key"}
	assert.Equal(t, "parse error at line 2, column 5: duplicate mapping key", perr.Error())

	verr := &UnsupportedVersionError{Requested: 9, MaxSupported: 2}
	assert.Contains(t, verr.Error(), "9")
	assert.Contains(t, verr.Error(), "2")

	cerr := &CanonicalizationError{Type: "MonoBehaviour", Path: "serializedProgramAsset", Msg: "expected a mapping"}
	assert.Equal(t, "cannot canonicalize MonoBehaviour.serializedProgramAsset: expected a mapping", cerr.Error())
}
