// Test Type: Unit Test
// Description: Tests for project root discovery

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, marker := range paths.ProjectMarkers {
		require.NoError(t, os.MkdirAll(filepath.Join(root, marker), 0755))
	}
	return root
}

func TestFindProject(t *testing.T) {
	t.Setenv(paths.EnvProjectRoot, "")

	t.Run("from_root", func(t *testing.T) {
		root := makeProject(t)
		p, err := paths.FindProject("", root)
		require.NoError(t, err)
		assert.Equal(t, root, p.Root)
		assert.False(t, p.UsedFallback)
	})

	t.Run("from_nested_folder", func(t *testing.T) {
		root := makeProject(t)
		nested := filepath.Join(root, "Assets", "Art", "Rocks")
		require.NoError(t, os.MkdirAll(nested, 0755))

		p, err := paths.FindProject("", nested)
		require.NoError(t, err)
		assert.Equal(t, root, p.Root)
	})

	t.Run("fallback", func(t *testing.T) {
		dir := t.TempDir()
		p, err := paths.FindProject("", dir)
		require.NoError(t, err)
		assert.Equal(t, dir, p.Root)
		assert.True(t, p.UsedFallback)
	})

	t.Run("explicit_wins", func(t *testing.T) {
		root := makeProject(t)
		other := t.TempDir()
		p, err := paths.FindProject(other, root)
		require.NoError(t, err)
		assert.Equal(t, other, p.Root)
		assert.False(t, p.UsedFallback)
	})

	t.Run("env_override", func(t *testing.T) {
		root := makeProject(t)
		t.Setenv(paths.EnvProjectRoot, root)
		p, err := paths.FindProject("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, root, p.Root)
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, paths.ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "game"), paths.ExpandHome("~/game"))
	assert.Equal(t, "/abs/game", paths.ExpandHome("/abs/game"))
	assert.Equal(t, "", paths.ExpandHome(""))
}
