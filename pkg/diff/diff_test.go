// Test Type: Unit Test
// Description: Tests for unified diffs of import settings

package diff_test

import (
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/diff"
	"github.com/arthur-debert/assetaudit/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly)
	p.AddAsset("Assets/Ref.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 1))
	p.AddAsset("Assets/Same.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 1))
	p.AddAsset("Assets/Small.png", assetdb.ClassTexture, testutil.TextureSettings(1024, 1))
	ref := p.Importer("Assets/Ref.png")

	t.Run("identical_settings", func(t *testing.T) {
		out, err := diff.Unified("reference", "Assets/Same.png", ref, p.Importer("Assets/Same.png"), nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("changed_settings", func(t *testing.T) {
		out, err := diff.Unified("reference", "Assets/Small.png", ref, p.Importer("Assets/Small.png"), nil)
		require.NoError(t, err)
		assert.Contains(t, out, "--- reference")
		assert.Contains(t, out, "+++ Assets/Small.png")
		assert.Contains(t, out, "-maxTextureSize: 4096")
		assert.Contains(t, out, "+maxTextureSize: 1024")
	})

	t.Run("ignored_keys_are_hidden", func(t *testing.T) {
		same := p.Importer("Assets/Same.png")
		same.SetUserData("notes")
		out, err := diff.Unified("reference", "Assets/Same.png", ref, same, []string{"userData"})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestText(t *testing.T) {
	out, err := diff.Text("a", "b", "one\ntwo\n", "one\nthree\n")
	require.NoError(t, err)
	assert.Contains(t, out, "-two")
	assert.Contains(t, out, "+three")
}
