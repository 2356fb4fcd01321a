package filter

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/shapestone/scene-filter/pkg/scene"
)

const udonBehaviourAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!114 &11400000
MonoBehaviour:
  m_ObjectHideFlags: 0
  m_CorrespondingSourceObject: {fileID: 0}
  m_PrefabInstance: {fileID: 0}
  m_PrefabAsset: {fileID: 0}
  m_GameObject: {fileID: 0}
  m_Enabled: 1
  m_EditorHideFlags: 0
  m_Script: {fileID: 11500000, guid: 45115577ef41a5b4ca741ed302693907, type: 3}
  m_Name: Program
  serializedUdonProgramAsset: {fileID: 11400000, guid: c33a9db266d27f64e8eec2b8c851b9a0,
    type: 2}
  serializedProgramAsset: {fileID: 11400000, guid: 4f4ddc3e6f3b8fa4dbe971bdb81958c4, type: 2}
`

const udonBehaviourClean = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!114 &11400000
MonoBehaviour:
  m_ObjectHideFlags: 0
  m_CorrespondingSourceObject: {fileID: 0}
  m_PrefabInstance: {fileID: 0}
  m_PrefabAsset: {fileID: 0}
  m_GameObject: {fileID: 0}
  m_Enabled: 1
  m_Script: {fileID: 11500000, guid: 45115577ef41a5b4ca741ed302693907, type: 3}
  m_Name: Program
  serializedUdonProgramAsset: {fileID: 0}
  serializedProgramAsset: {fileID: 0}
`

func TestCleanStripsProgramAssets(t *testing.T) {
	out, err := Clean([]byte(udonBehaviourAsset), Config{Version: 1})
	require.NoError(t, err)
	assert.Equal(t, udonBehaviourClean, string(out))
}

func TestCleanDefaultVersion(t *testing.T) {
	explicit, err := Clean([]byte(udonBehaviourAsset), Config{Version: DefaultVersion})
	require.NoError(t, err)
	implicit, err := Clean([]byte(udonBehaviourAsset), Config{})
	require.NoError(t, err)
	assert.Equal(t, explicit, implicit)
}

func TestCleanIdempotent(t *testing.T) {
	once, err := Clean([]byte(udonBehaviourAsset), Config{Version: 1, Sort: true})
	require.NoError(t, err)
	twice, err := Clean(once, Config{Version: 1, Sort: true})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestCleanPrefabInstance(t *testing.T) {
	const in = `--- !u!1001 &600936999
PrefabInstance:
  m_ObjectHideFlags: 0
  serializedVersion: 2
  m_Modification:
    m_TransformParent: {fileID: 0}
    m_Modifications:
    - target: {fileID: 8926961678148788858, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 3}
      propertyPath: m_Name
      value: UdonBehaviour
      objectReference: {fileID: 0}
    - target: {fileID: 8926961678148788858, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 3}
      propertyPath: serializedProgramAsset
      value:
      objectReference: {fileID: 11400000, guid: c33a9db266d27f64e8eec2b8c851b9a0, type: 2}
    m_RemovedComponents: []
  m_SourcePrefab: {fileID: 100100000, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 3}
`
	const want = `--- !u!1001 &600936999
PrefabInstance:
  m_ObjectHideFlags: 0
  serializedVersion: 2
  m_Modification:
    m_TransformParent: {fileID: 0}
    m_Modifications:
    - target: {fileID: 8926961678148788858, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 3}
      propertyPath: m_Name
      value: UdonBehaviour
      objectReference: {fileID: 0}
    m_RemovedComponents: []
  m_SourcePrefab: {fileID: 100100000, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 3}
`
	out, err := Clean([]byte(in), Config{Version: 1})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestCleanEmptiedModifications(t *testing.T) {
	const in = `--- !u!1001 &1
PrefabInstance:
  m_Modification:
    m_Modifications:
    - target: {fileID: 1, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 3}
      propertyPath: serializedProgramAsset
      value:
      objectReference: {fileID: 0}
`
	const want = `--- !u!1001 &1
PrefabInstance:
  m_Modification:
    m_Modifications: []
`
	out, err := Clean([]byte(in), Config{Version: 1})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestCleanVersion2(t *testing.T) {
	const in = `--- !u!104 &2
RenderSettings:
  m_ObjectHideFlags: 0
  m_IndirectSpecularColor: {r: 0.18028378, g: 0.22571412, b: 0.30692285, a: 1}
--- !u!114 &3
MonoBehaviour:
  m_Enabled: true
  DynamicMaterials:
  - {fileID: 2100000, guid: 2cd059cbd6ed1f44e9c0ffb9fbbbba0a, type: 2}
  DynamicPrefabs: []
`
	const want = `--- !u!104 &2
RenderSettings:
  m_ObjectHideFlags: 0
  m_IndirectSpecularColor: {r: 0, g: 0, b: 0, a: 1}
--- !u!114 &3
MonoBehaviour:
  m_Enabled: 1
  DynamicMaterials: []
  DynamicPrefabs: []
`
	out, err := Clean([]byte(in), Config{Version: 2})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))

	// version 1 must not see version 2 rules
	v1, err := Clean([]byte(in), Config{Version: 1})
	require.NoError(t, err)
	assert.Contains(t, string(v1), "m_IndirectSpecularColor: {r: 0.18028378,")
	assert.Contains(t, string(v1), "m_Enabled: true")
}

func TestCleanSortByFileID(t *testing.T) {
	const in = `--- !u!1 &200000
GameObject:
  m_EditorHideFlags: 3
  m_Name: Second
--- !u!1 &100000
GameObject:
  m_EditorHideFlags: 3
  m_Name: First
`
	t.Run("sort disabled preserves order", func(t *testing.T) {
		out, err := Clean([]byte(in), Config{Version: 1})
		require.NoError(t, err)
		first := strings.Index(string(out), "&200000")
		second := strings.Index(string(out), "&100000")
		assert.Less(t, first, second)
		assert.NotContains(t, string(out), "m_EditorHideFlags")
	})
	t.Run("sort enabled reorders ascending", func(t *testing.T) {
		out, err := Clean([]byte(in), Config{Version: 1, Sort: true})
		require.NoError(t, err)
		want := `--- !u!1 &100000
GameObject:
  m_Name: First
--- !u!1 &200000
GameObject:
  m_Name: Second
`
		assert.Equal(t, want, string(out))
	})
}

func TestCleanUnsupportedVersion(t *testing.T) {
	_, err := Clean([]byte(udonBehaviourAsset), Config{Version: 99})
	require.Error(t, err)
	var verr *scene.UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 99, verr.Requested)
	assert.Equal(t, MaxVersion, verr.MaxSupported)
}

func TestCleanParseError(t *testing.T) {
	_, err := Clean([]byte("not a scene file\n"), Config{})
	require.Error(t, err)
	var perr *scene.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestCleanRejectsTabIndentation(t *testing.T) {
	_, err := Clean([]byte("--- !u!1 &1\nGameObject:\n\tm_Name: x\n"), Config{Version: 1})
	require.Error(t, err)
	var perr *scene.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Contains(t, perr.Msg, "tab")
}

func TestCleanNonNumericAnchorOnlyFailsWithSort(t *testing.T) {
	const in = "--- !u!1 &not-numeric\nGameObject:\n  m_Name: x\n"
	_, err := Clean([]byte(in), Config{Version: 1})
	require.NoError(t, err)

	_, err = Clean([]byte(in), Config{Version: 1, Sort: true})
	require.Error(t, err)
	var aerr *scene.NonNumericAnchorError
	require.ErrorAs(t, err, &aerr)
}

func TestSmudgeIsIdentity(t *testing.T) {
	in := []byte(udonBehaviourAsset)
	out := Smudge(in)
	assert.Equal(t, in, out)
	// a copy, not an alias
	if len(out) > 0 {
		out[0] = 'X'
		assert.NotEqual(t, in[0], out[0])
	}
}

func TestSmudgeAfterCleanIsClean(t *testing.T) {
	cleaned, err := Clean([]byte(udonBehaviourAsset), Config{Version: 1})
	require.NoError(t, err)
	assert.Equal(t, cleaned, Smudge(cleaned))
}

// stripEngineTags rewrites `--- !u!N &id` separators to `--- &id`. The
// engine's !u! handle is declared by a %TAG directive that scopes to the
// first document only, so a general YAML parser rejects it on later
// documents; the structure under test is unaffected.
func stripEngineTags(out []byte) []byte {
	lines := strings.Split(string(out), "\n")
	for i, l := range lines {
		if !strings.HasPrefix(l, "--- !u!") {
			continue
		}
		if j := strings.IndexByte(l, '&'); j >= 0 {
			lines[i] = "--- " + l[j:]
		} else {
			lines[i] = "---"
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

// TestCleanOutputIsValidYAML checks every Clean output against a general
// YAML parser: same document count, no syntax errors.
func TestCleanOutputIsValidYAML(t *testing.T) {
	inputs := map[string]string{
		"udon behaviour": udonBehaviourAsset,
		"two documents":  "--- !u!1 &1\nGameObject:\n  m_Name: a\n--- !u!4 &2\nTransform:\n  m_Children: []\n",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			out, err := Clean([]byte(in), Config{Version: 1})
			require.NoError(t, err)

			wantDocs := strings.Count(in, "--- !u!")
			dec := yamlv3.NewDecoder(bytes.NewReader(stripEngineTags(out)))
			got := 0
			for {
				var node yamlv3.Node
				err := dec.Decode(&node)
				if errors.Is(err, io.EOF) {
					break
				}
				require.NoError(t, err)
				got++
			}
			assert.Equal(t, wantDocs, got)
		})
	}
}

func TestParseAndEmitExposed(t *testing.T) {
	stream, err := Parse([]byte(udonBehaviourClean))
	require.NoError(t, err)
	require.Len(t, stream.Documents, 1)
	assert.Equal(t, "MonoBehaviour", stream.Documents[0].TypeName())
	assert.Equal(t, udonBehaviourClean, string(Emit(stream)))
}
