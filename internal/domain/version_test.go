package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagScheme_TagName(t *testing.T) {
	t.Run("Should format tag with namespace and marker", func(t *testing.T) {
		scheme := NewTagScheme(DefaultTagNamespace)
		assert.Equal(t, "bsr/vers/v0", scheme.TagName(0))
		assert.Equal(t, "bsr/vers/v42", scheme.TagName(42))
	})
	t.Run("Should ignore a trailing slash on the namespace", func(t *testing.T) {
		scheme := NewTagScheme("releases/")
		assert.Equal(t, "releases/v7", scheme.TagName(7))
	})
}

func TestTagScheme_Parse(t *testing.T) {
	scheme := NewTagScheme(DefaultTagNamespace)
	cases := []struct {
		name    string
		tag     string
		want    Version
		matches bool
	}{
		{name: "zero", tag: "bsr/vers/v0", want: 0, matches: true},
		{name: "multi digit", tag: "bsr/vers/v123", want: 123, matches: true},
		{name: "leading zero", tag: "bsr/vers/v01", matches: false},
		{name: "negative", tag: "bsr/vers/v-1", matches: false},
		{name: "missing marker", tag: "bsr/vers/3", matches: false},
		{name: "other namespace", tag: "release/v3", matches: false},
		{name: "prefixed", tag: "refs/tags/bsr/vers/v3", matches: false},
		{name: "suffixed", tag: "bsr/vers/v3^{}", matches: false},
		{name: "semver", tag: "v1.2.3", matches: false},
		{name: "empty", tag: "", matches: false},
		{name: "overflow", tag: "bsr/vers/v99999999999999999999999", matches: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := scheme.Parse(tc.tag)
			assert.Equal(t, tc.matches, ok)
			if tc.matches {
				assert.Equal(t, tc.want, v)
				assert.Equal(t, tc.tag, scheme.TagName(v))
			}
		})
	}
	t.Run("Should treat regex characters in namespace literally", func(t *testing.T) {
		dotted := NewTagScheme("a.b")
		_, ok := dotted.Parse("axb/v1")
		assert.False(t, ok)
		v, ok := dotted.Parse("a.b/v1")
		assert.True(t, ok)
		assert.Equal(t, Version(1), v)
	})
}

func TestTagScheme_Versions(t *testing.T) {
	t.Run("Should collect matching tags sorted descending", func(t *testing.T) {
		scheme := NewTagScheme(DefaultTagNamespace)
		set := scheme.Versions([]string{"bsr/vers/v1", "v1.0.0", "bsr/vers/v3", "bsr/vers/v0", "bsr/vers/v3"})
		assert.Equal(t, VersionSet{3, 1, 0}, set)
	})
	t.Run("Should return an empty set when nothing matches", func(t *testing.T) {
		scheme := NewTagScheme(DefaultTagNamespace)
		set := scheme.Versions([]string{"v1.0.0", "latest"})
		assert.Empty(t, set)
		_, ok := set.Latest()
		assert.False(t, ok)
	})
}

func TestVersionSet(t *testing.T) {
	set := NewVersionSet(2, 0, 3, 1)
	t.Run("Should report latest version", func(t *testing.T) {
		latest, ok := set.Latest()
		require.True(t, ok)
		assert.Equal(t, Version(3), latest)
	})
	t.Run("Should compute difference", func(t *testing.T) {
		assert.Equal(t, VersionSet{3, 0}, set.Difference(NewVersionSet(1, 2)))
		assert.Empty(t, set.Difference(set))
	})
	t.Run("Should select versions at or below a bound", func(t *testing.T) {
		assert.Equal(t, VersionSet{1, 0}, set.AtOrBelow(1))
		assert.Empty(t, set.AtOrBelow(-1))
	})
}

func TestParseVersion(t *testing.T) {
	t.Run("Should parse a non-negative integer", func(t *testing.T) {
		v, err := ParseVersion(" 12 ")
		require.NoError(t, err)
		assert.Equal(t, Version(12), v)
	})
	t.Run("Should reject empty input", func(t *testing.T) {
		_, err := ParseVersion("")
		assert.ErrorIs(t, err, ErrVersionNotSpecified)
	})
	t.Run("Should reject non numeric input", func(t *testing.T) {
		_, err := ParseVersion("latest")
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
	t.Run("Should reject negative input", func(t *testing.T) {
		_, err := ParseVersion("-3")
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})
}

func TestWorkflowState(t *testing.T) {
	t.Run("Should return completed operations newest first", func(t *testing.T) {
		state := NewWorkflowState()
		state.AddOperation(OperationTypeCommitWorkingBranch)
		state.AddOperation(OperationTypeSnapshotOrphan)
		state.AddOperation(OperationTypePublishVersion)
		for _, op := range []OperationType{OperationTypeCommitWorkingBranch, OperationTypeSnapshotOrphan} {
			state.MarkOperationStarted(op)
			state.MarkOperationCompleted(op, map[string]any{"op": string(op)})
		}
		state.MarkOperationStarted(OperationTypePublishVersion)
		state.MarkOperationFailed(OperationTypePublishVersion, assert.AnError)
		completed := state.CompletedOperations()
		require.Len(t, completed, 2)
		assert.Equal(t, OperationTypeSnapshotOrphan, completed[0].Type)
		assert.Equal(t, OperationTypeCommitWorkingBranch, completed[1].Type)
		assert.Equal(t, WorkflowStatusFailed, state.Status)
		assert.Equal(t, OperationStatusFailed, state.Operation(OperationTypePublishVersion).Status)
	})
	t.Run("Should mark compensated operations", func(t *testing.T) {
		state := NewWorkflowState()
		state.AddOperation(OperationTypeSnapshotOrphan)
		state.MarkOperationStarted(OperationTypeSnapshotOrphan)
		state.MarkOperationCompleted(OperationTypeSnapshotOrphan, nil)
		state.MarkOperationCompensated(OperationTypeSnapshotOrphan)
		assert.Empty(t, state.CompletedOperations())
		assert.Equal(t, OperationStatusCompensated, state.Operation(OperationTypeSnapshotOrphan).Status)
	})
}
