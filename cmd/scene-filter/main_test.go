package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestCleanCommand(t *testing.T) {
	const in = `--- !u!114 &1
MonoBehaviour:
  m_EditorHideFlags: 0
  m_Name: Program
`
	out, err := runCommand(t, in, "clean", "--filter-version", "1")
	require.NoError(t, err)
	assert.Equal(t, "--- !u!114 &1\nMonoBehaviour:\n  m_Name: Program\n", out)
}

func TestCleanCommandSort(t *testing.T) {
	const in = `--- !u!1 &2
GameObject:
  m_Name: b
--- !u!1 &1
GameObject:
  m_Name: a
`
	out, err := runCommand(t, in, "clean", "--sort")
	require.NoError(t, err)
	assert.True(t, strings.Index(out, "&1\n") < strings.Index(out, "&2\n"))
}

func TestCleanCommandFailsClosed(t *testing.T) {
	_, err := runCommand(t, "not a scene file\n", "clean", "--file", "Assets/Broken.unity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assets/Broken.unity")
}

func TestCleanCommandUnsupportedVersion(t *testing.T) {
	_, err := runCommand(t, "", "clean", "--filter-version", "99")
	require.Error(t, err)
}

func TestSmudgeCommand(t *testing.T) {
	const in = "--- !u!114 &1\nMonoBehaviour:\n  m_Name: Program\n"
	out, err := runCommand(t, in, "smudge")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAttributeLineHelpers(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, "a\nb\n", joinLines([]string{"a", "b"}))

	lines := []string{"*.unity filter=scene", "# comment"}
	assert.True(t, containsLine(lines, "*.unity filter=scene"))
	assert.False(t, containsLine(lines, "*.prefab filter=scene"))
}

func TestIsFilterAttributeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"plain assignment", "*.unity filter=scene", true},
		{"extra attributes", "*.asset filter=scene text eol=lf", true},
		{"comment mentioning the filter", "# filter=scene lines are managed by scene-filter", false},
		{"unrelated pattern", "*.meta text", false},
		{"different filter", "*.psd filter=lfs", false},
		{"no pattern", "filter=scene", false},
		{"blank", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isFilterAttributeLine(tt.line))
		})
	}
}

func TestScopeSelector(t *testing.T) {
	var s scopeSelector
	assert.Equal(t, "local", s.scope().String())
	s.global = true
	assert.Equal(t, "global", s.scope().String())
}
