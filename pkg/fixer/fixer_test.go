// Test Type: Unit Test
// Description: Tests for full and selective fixes, result marking, and the fix-all job

package fixer_test

import (
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/compare"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/fixer"
	"github.com/arthur-debert/assetaudit/pkg/matcher"
	"github.com/arthur-debert/assetaudit/pkg/properties"
	"github.com/arthur-debert/assetaudit/pkg/results"
	"github.com/arthur-debert/assetaudit/pkg/rules"
	"github.com/arthur-debert/assetaudit/pkg/testutil"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	p       *testutil.Project
	store   *rules.Store
	ledger  rules.Ledger
	applier *fixer.Applier
	rule    types.Rule
	ref     *assetdb.Importer
}

func setup(t *testing.T, selective ...string) *fixture {
	t.Helper()
	p := testutil.NewProject(t, testutil.EnvMemoryOnly)
	ledger, err := rules.OpenLedger(p.Config, p.FS, p.Root)
	require.NoError(t, err)
	store := rules.NewStore(p.DB, ledger, matcher.New(p.DB, matcher.OptionsFromConfig(p.Config)), p.Config.Paths)

	rule, err := store.Create(types.Rule{
		Name:                "Tex4K",
		MatchType:           types.MatchNameContains,
		Pattern:             "4K",
		AssetKind:           types.KindTexture,
		SelectiveMode:       len(selective) > 0,
		SelectiveProperties: selective,
	})
	require.NoError(t, err)

	// Make the reference differ from the proxy defaults.
	refPath := "Assets/Editor/AssetAuditor/ProxyAssets/Tex4K.jpg"
	p.AddFile(refPath+assetdb.MetaExt, testutil.Meta(rule.ReferenceAssetID, assetdb.ClassTexture, testutil.TextureSettings(4096, 0)))

	ref, err := store.Reference(rule)
	require.NoError(t, err)
	return &fixture{
		p:       p,
		store:   store,
		ledger:  ledger,
		applier: fixer.New(p.DB, store, p.Config.Comparison.IgnoredPaths),
		rule:    rule,
		ref:     ref,
	}
}

func (f *fixture) snapshot(t *testing.T, imp *assetdb.Importer) *properties.Tree {
	t.Helper()
	tree, err := imp.Snapshot(nil)
	require.NoError(t, err)
	return tree
}

func TestFullFix(t *testing.T) {
	f := setup(t)
	f.p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	require.NoError(t, f.ledger.Put(f.p.Importer("Assets/Art/Rock_4K.png").GUID(), `{"name":"Leftover"}`))

	target := f.p.Importer("Assets/Art/Rock_4K.png")
	target.SetUserData("artist notes")
	require.NoError(t, f.p.DB.WriteImportSettings(target))
	target = f.p.Importer("Assets/Art/Rock_4K.png")

	cmp := compare.New()
	require.False(t, cmp.Trees(f.snapshot(t, f.ref), f.snapshot(t, target)))

	require.NoError(t, f.applier.Fix(f.rule, f.ref, target))

	fixed := f.p.Importer("Assets/Art/Rock_4K.png")
	assert.True(t, cmp.Trees(f.snapshot(t, f.ref), f.snapshot(t, fixed)), "a full fix converges")
	assert.Equal(t, "artist notes", fixed.UserData(), "noise fields are preserved")
	assert.Equal(t, target.GUID(), fixed.GUID())

	entries, err := f.ledger.Load()
	require.NoError(t, err)
	assert.NotContains(t, entries, fixed.GUID(), "leftover stamps are cleared")
	assert.Contains(t, entries, f.rule.ReferenceAssetID)
}

func TestFullFixWithNoiseOnlyOnTarget(t *testing.T) {
	f := setup(t)
	f.p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1)+"internalIDToNameTable: []\n")
	f.p.AddAsset("Assets/Art/Sky_4K.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 0)+"internalIDToNameTable: []\n")

	cmp := compare.New()
	refTree := f.snapshot(t, f.ref)
	assert.True(t, cmp.Trees(refTree, f.snapshot(t, f.p.Importer("Assets/Art/Sky_4K.png"))), "noise alone does not break conformance")

	require.NoError(t, f.applier.Fix(f.rule, f.ref, f.p.Importer("Assets/Art/Rock_4K.png")))

	fixed := f.snapshot(t, f.p.Importer("Assets/Art/Rock_4K.png"))
	assert.True(t, cmp.Trees(refTree, fixed), "a full fix converges")
	assert.Empty(t, cmp.Diff(refTree, fixed))
	assert.Contains(t, f.p.ReadFile("Assets/Art/Rock_4K.png.meta"), "internalIDToNameTable")
}

func TestFullFixTypeMismatch(t *testing.T) {
	f := setup(t)
	f.p.AddAsset("Assets/Audio/Boom_4K.wav", assetdb.ClassAudio, testutil.AudioSettings(1, false))
	before := f.p.ReadFile("Assets/Audio/Boom_4K.wav.meta")

	err := f.applier.Fix(f.rule, f.ref, f.p.Importer("Assets/Audio/Boom_4K.wav"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrImporterMismatch))
	assert.Equal(t, before, f.p.ReadFile("Assets/Audio/Boom_4K.wav.meta"))
}

func TestSelfFixIsSkipped(t *testing.T) {
	f := setup(t)
	before := f.p.ReadFile("Assets/Editor/AssetAuditor/ProxyAssets/Tex4K.jpg.meta")
	require.NoError(t, f.applier.Fix(f.rule, f.ref, f.ref))
	assert.Equal(t, before, f.p.ReadFile("Assets/Editor/AssetAuditor/ProxyAssets/Tex4K.jpg.meta"))
}

func TestSelectiveFix(t *testing.T) {
	f := setup(t, "Max Texture Size", "No Such Setting")
	f.p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))

	require.NoError(t, f.applier.Fix(f.rule, f.ref, f.p.Importer("Assets/Art/Rock_4K.png")))

	tree := f.snapshot(t, f.p.Importer("Assets/Art/Rock_4K.png"))
	size, ok := tree.Get("maxTextureSize")
	require.True(t, ok)
	assert.Equal(t, int64(4096), size.Value)
	mip, ok := tree.Find("mipmaps.enableMipMap")
	require.True(t, ok)
	assert.Equal(t, int64(1), mip.Value, "unlisted properties stay as they were")

	ok, err := compare.New().Selective(f.snapshot(t, f.ref), tree, []string{"Max Texture Size"}, compare.AllProperties)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFixAsset(t *testing.T) {
	f := setup(t)
	f.p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	tree := results.Build([]types.AffectedAsset{
		{AssetPath: "Assets/Art/Rock_4K.png", DisplayName: "Rock_4K", AssetKind: types.KindTexture, Differences: []string{"maxTextureSize"}},
	}, f.rule)

	node, ok := tree.Find("Assets/Art/Rock_4K.png")
	require.True(t, ok)
	require.NoError(t, f.applier.FixAsset(f.rule, node))
	assert.True(t, node.Conforms)
	assert.Empty(t, node.Differences)

	folder, _ := tree.Find("Assets/Art")
	err := f.applier.FixAsset(f.rule, folder)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFixAllJob(t *testing.T) {
	f := setup(t)
	f.p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	f.p.AddAsset("Assets/Art/Sky_4K.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 0))
	f.p.AddAsset("Assets/Art/Trees/Bark_4K.tga", assetdb.ClassTexture, testutil.TextureSettings(512, 1))
	f.p.AddAssetWithoutMeta("Assets/Art/Lost_4K.png")
	skyMeta := f.p.ReadFile("Assets/Art/Sky_4K.png.meta")

	tree := results.Build([]types.AffectedAsset{
		{AssetPath: "Assets/Art/Rock_4K.png", AssetKind: types.KindTexture},
		{AssetPath: "Assets/Art/Sky_4K.png", AssetKind: types.KindTexture, Conforms: true},
		{AssetPath: "Assets/Art/Trees/Bark_4K.tga", AssetKind: types.KindTexture},
		{AssetPath: "Assets/Art/Lost_4K.png", AssetKind: types.KindTexture},
	}, f.rule)

	job := f.applier.NewFixAllJob(f.rule, tree)
	assert.Equal(t, len(tree.Flatten()), job.TotalSteps())
	for {
		_, done, err := job.Step()
		require.NoError(t, err)
		if done {
			break
		}
	}
	assert.Equal(t, 1.0, job.Progress())

	cmp := compare.New()
	for _, path := range []string{"Assets/Art/Rock_4K.png", "Assets/Art/Trees/Bark_4K.tga"} {
		assert.True(t, cmp.Trees(f.snapshot(t, f.ref), f.snapshot(t, f.p.Importer(path))), path)
	}
	assert.Equal(t, skyMeta, f.p.ReadFile("Assets/Art/Sky_4K.png.meta"), "conforming assets are not rewritten")

	lost, _ := tree.Find("Assets/Art/Lost_4K.png")
	assert.False(t, lost.Conforms)
	assert.Len(t, tree.NonConforming(), 1)
}
