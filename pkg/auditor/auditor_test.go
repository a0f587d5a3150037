// Test Type: Integration Test
// Description: Tests for audit sessions: gathering, scanning, fixing, and explaining

package auditor_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/auditor"
	"github.com/arthur-debert/assetaudit/pkg/compare"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/testutil"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refPath = "Assets/Editor/AssetAuditor/ProxyAssets/Tex4K.jpg"

func tex4K() types.Rule {
	return types.Rule{
		Name:      "Tex4K",
		MatchType: types.MatchNameContains,
		Pattern:   "_4K",
		AssetKind: types.KindTexture,
	}
}

// setup creates a project with the Tex4K rule, whose reference asks for
// 4096 textures without mip maps.
func setup(t *testing.T, rule types.Rule) (*testutil.Project, *auditor.Session, types.Rule) {
	t.Helper()
	p := testutil.NewProject(t, testutil.EnvMemoryOnly)
	s, err := auditor.Open(p.Config, p.FS, p.Root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	created, err := s.Rules().Create(rule)
	require.NoError(t, err)
	p.AddFile(refPath+assetdb.MetaExt, testutil.Meta(created.ReferenceAssetID, assetdb.ClassTexture, testutil.TextureSettings(4096, 0)))
	return p, s, created
}

func scan(t *testing.T, s *auditor.Session, rule types.Rule) {
	t.Helper()
	_, err := s.Scan(rule)
	require.NoError(t, err)
	require.NoError(t, s.RunUntilIdle(context.Background()))
}

func TestTex4KScenario(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	p.AddAsset("Assets/Art/Wood_2K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))

	scan(t, s, rule)
	affected := s.Affected()
	require.Len(t, affected, 1)
	assert.Equal(t, "Assets/Art/Rock_4K.png", affected[0].AssetPath)
	assert.Equal(t, "Rock_4K", affected[0].DisplayName)
	assert.False(t, affected[0].Conforms)
	assert.Contains(t, affected[0].Differences, "maxTextureSize")

	require.NoError(t, s.FixAsset(rule, "Assets/Art/Rock_4K.png"))
	assert.True(t, s.Affected()[0].Conforms, "fixed rows are marked optimistically")

	scan(t, s, rule)
	affected = s.Affected()
	require.Len(t, affected, 1)
	assert.True(t, affected[0].Conforms)
	assert.Empty(t, affected[0].Differences)
}

func TestScanBuildsTree(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	p.AddAsset("Assets/Art/Trees/Bark_4K.tga", assetdb.ClassTexture, testutil.TextureSettings(4096, 0))
	p.AddAsset("Assets/Audio/Boom_4K.wav", assetdb.ClassAudio, testutil.AudioSettings(0, false))

	scan(t, s, rule)
	tree := s.Results()
	require.NotNil(t, tree)
	assert.Equal(t, "Tex4K", tree.Rule.Name)

	sum := tree.Summary()
	assert.Equal(t, 2, sum.Assets, "the reference and the audio clip are not candidates")
	assert.Equal(t, 1, sum.Conforming)
	assert.Equal(t, 2, sum.Folders)

	bark, ok := tree.Find("Assets/Art/Trees/Bark_4K.tga")
	require.True(t, ok)
	assert.True(t, bark.Conforms)
	assert.Equal(t, 3, bark.Depth)
}

func TestScanClearsStaleWork(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))

	notified := 0
	cancel := s.Scheduler().OnQueueComplete(func() { notified++ })
	defer cancel()

	_, err := s.Scan(rule)
	require.NoError(t, err)
	require.NoError(t, s.Scheduler().Tick())
	_, err = s.Scan(rule)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Scheduler().Pending())

	require.NoError(t, s.RunUntilIdle(context.Background()))
	assert.Equal(t, 1, notified)
	assert.Len(t, s.Affected(), 1)
}

func TestScanInvalidPattern(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))

	rule.MatchType = types.MatchRegex
	rule.Pattern = "["
	scan(t, s, rule)
	assert.Empty(t, s.Affected())
	require.NotNil(t, s.Results())
	assert.Empty(t, s.Results().Leaves())
}

func TestScanMissingReference(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	require.NoError(t, p.FS.Remove(p.Abs(refPath)))

	_, err := s.Scan(rule)
	require.NoError(t, err)
	err = s.RunUntilIdle(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrReferenceMissing))
}

func TestScanImporterMismatch(t *testing.T) {
	rule := types.Rule{Name: "Everything4K", MatchType: types.MatchNameContains, Pattern: "_4K", AssetKind: types.KindTexture}
	p, s, rule := setup(t, rule)
	// A texture extension with a model importer.
	p.AddAsset("Assets/Art/Odd_4K.png", assetdb.ClassModel, testutil.ModelSettings(0, false))

	scan(t, s, rule)
	affected := s.Affected()
	require.Len(t, affected, 1)
	assert.False(t, affected[0].Conforms)
	assert.Equal(t, []string{compare.ImporterPath}, affected[0].Differences)

	e, err := s.Explain(rule, "Assets/Art/Odd_4K.png")
	require.NoError(t, err)
	assert.False(t, e.Conforms)
	assert.Equal(t, []compare.Difference{compare.ImporterMismatch(assetdb.ClassTexture, assetdb.ClassModel)}, e.Differences)
	assert.Equal(t, compare.ReasonKind, e.Differences[0].Reason)
}

func TestSelectiveScan(t *testing.T) {
	rule := tex4K()
	rule.SelectiveMode = true
	rule.SelectiveProperties = []string{"Max Texture Size", "Mipmaps"}
	p, s, rule := setup(t, rule)
	// Right size, wrong mip maps.
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 1))

	t.Run("all_properties", func(t *testing.T) {
		s.SetSelectiveIndex(-1)
		scan(t, s, rule)
		require.Len(t, s.Affected(), 1)
		assert.False(t, s.Affected()[0].Conforms)
		assert.Equal(t, []string{"mipmaps.enableMipMap"}, s.Affected()[0].Differences)
	})

	t.Run("single_index", func(t *testing.T) {
		s.SetSelectiveIndex(0)
		scan(t, s, rule)
		require.Len(t, s.Affected(), 1)
		assert.True(t, s.Affected()[0].Conforms)

		s.SetSelectiveIndex(1)
		scan(t, s, rule)
		assert.False(t, s.Affected()[0].Conforms)
	})

	t.Run("index_out_of_range", func(t *testing.T) {
		s.SetSelectiveIndex(5)
		_, err := s.Scan(rule)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		s.SetSelectiveIndex(-1)
	})
}

func TestFixAll(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	p.AddAsset("Assets/Art/Trees/Bark_4K.tga", assetdb.ClassTexture, testutil.TextureSettings(512, 1))

	_, err := s.FixAll(rule)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "scan first")

	scan(t, s, rule)
	assert.Len(t, s.Results().NonConforming(), 2)

	_, err = s.FixAll(rule)
	require.NoError(t, err)
	require.NoError(t, s.RunUntilIdle(context.Background()))
	for _, a := range s.Affected() {
		assert.True(t, a.Conforms, a.AssetPath)
	}

	scan(t, s, rule)
	assert.Empty(t, s.Results().NonConforming())
}

func TestSetPatternRescans(t *testing.T) {
	p, s, _ := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	p.AddAsset("Assets/Art/Wood_2K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))

	updated, err := s.SetPattern("Tex4K", "_2K")
	require.NoError(t, err)
	assert.Equal(t, "_2K", updated.Pattern)
	require.NoError(t, s.RunUntilIdle(context.Background()))

	require.Len(t, s.Affected(), 1)
	assert.Equal(t, "Assets/Art/Wood_2K.png", s.Affected()[0].AssetPath)
}

func TestGatherRules(t *testing.T) {
	p, s, _ := setup(t, tex4K())

	other, err := auditor.Open(p.Config, p.FS, p.Root)
	require.NoError(t, err)
	defer other.Close()
	assert.Empty(t, other.Rules().List())

	other.GatherRules()
	require.NoError(t, other.RunUntilIdle(context.Background()))
	require.Len(t, other.Rules().List(), 1)
	assert.Equal(t, "Tex4K", other.Rules().List()[0].Name)
	assert.Len(t, s.Rules().List(), 1)
}

func TestExplain(t *testing.T) {
	p, s, rule := setup(t, tex4K())
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	p.AddAsset("Assets/Art/Sky_4K.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 0))
	p.AddAsset("Assets/Audio/Boom_4K.wav", assetdb.ClassAudio, testutil.AudioSettings(0, false))

	e, err := s.Explain(rule, "Assets/Art/Rock_4K.png")
	require.NoError(t, err)
	assert.False(t, e.Conforms)
	assert.Equal(t, refPath, e.ReferencePath)
	assert.NotEmpty(t, e.Differences)
	assert.Contains(t, e.Unified, "+maxTextureSize: 2048")

	e, err = s.Explain(rule, "Assets/Art/Sky_4K.png")
	require.NoError(t, err)
	assert.True(t, e.Conforms)
	assert.Empty(t, e.Unified)

	_, err = s.Explain(rule, "Assets/Audio/Boom_4K.wav")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTypeMismatch))
}

func TestExplainAgreesWithScan(t *testing.T) {
	settings := testutil.TextureSettings(4096, 0)
	reordered := strings.Replace(settings, "textureType: 0\nmaxTextureSize: 4096\n", "maxTextureSize: 4096\ntextureType: 0\n", 1)
	require.NotEqual(t, settings, reordered)

	t.Run("reordered_and_noisy_candidates", func(t *testing.T) {
		p, s, rule := setup(t, tex4K())
		p.AddAsset("Assets/Art/Moved_4K.png", assetdb.ClassTexture, reordered)
		p.AddAsset("Assets/Art/Noisy_4K.png", assetdb.ClassTexture, settings+"internalIDToNameTable: []\n")

		scan(t, s, rule)
		require.Len(t, s.Affected(), 2)
		for _, a := range s.Affected() {
			e, err := s.Explain(rule, a.AssetPath)
			require.NoError(t, err)
			assert.Equal(t, a.Conforms, e.Conforms, a.AssetPath)
			assert.Equal(t, a.Conforms, len(e.Differences) == 0, a.AssetPath)
			if !a.Conforms {
				assert.Equal(t, a.Differences, compare.Paths(e.Differences), a.AssetPath)
			}
		}

		e, err := s.Explain(rule, "Assets/Art/Moved_4K.png")
		require.NoError(t, err)
		assert.False(t, e.Conforms)
		assert.Equal(t, compare.ReasonOrder, e.Differences[0].Reason)

		e, err = s.Explain(rule, "Assets/Art/Noisy_4K.png")
		require.NoError(t, err)
		assert.True(t, e.Conforms)
	})

	t.Run("selective_index", func(t *testing.T) {
		rule := tex4K()
		rule.SelectiveMode = true
		rule.SelectiveProperties = []string{"Max Texture Size", "Mipmaps"}
		p, s, rule := setup(t, rule)
		p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 1))

		s.SetSelectiveIndex(0)
		e, err := s.Explain(rule, "Assets/Art/Rock_4K.png")
		require.NoError(t, err)
		assert.True(t, e.Conforms, "only the size is checked")
		assert.Empty(t, e.Differences)

		s.SetSelectiveIndex(1)
		e, err = s.Explain(rule, "Assets/Art/Rock_4K.png")
		require.NoError(t, err)
		assert.False(t, e.Conforms)
		assert.Equal(t, []string{"mipmaps.enableMipMap"}, compare.Paths(e.Differences))
	})
}

func TestOpenRejectsBadConfig(t *testing.T) {
	p := testutil.NewProject(t, testutil.EnvMemoryOnly)
	p.Config.Rules.Ledger = "csv"
	_, err := auditor.Open(p.Config, p.FS, p.Root)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
