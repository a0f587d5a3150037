package testutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/filesystem"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/stretchr/testify/require"
)

// EnvType selects where a test project lives.
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // afero MemMapFs
	EnvIsolated                  // real filesystem in t.TempDir()
)

// Project is a test game project.
type Project struct {
	T      testing.TB
	FS     types.FS
	Root   string
	DB     *assetdb.Database
	Config *config.Config
}

// NewProject creates a project with an Assets folder and the default proxies.
func NewProject(t testing.TB, env EnvType) *Project {
	t.Helper()

	var fsys types.FS
	root := "/project"
	switch env {
	case EnvIsolated:
		fsys = filesystem.NewOS()
		root = t.TempDir()
	default:
		fsys = filesystem.NewMemory()
	}

	cfg, err := config.Default()
	require.NoError(t, err)

	p := &Project{T: t, FS: fsys, Root: root, Config: cfg}
	require.NoError(t, fsys.MkdirAll(filepath.Join(root, "Assets"), 0755))
	p.DB = assetdb.Open(fsys, root, cfg.Paths.AssetsDir)

	p.AddAsset(cfg.Paths.ProxyTexture, assetdb.ClassTexture, TextureSettings(2048, 1))
	p.AddAsset(cfg.Paths.ProxyModel, assetdb.ClassModel, ModelSettings(1, true))
	p.AddAsset(cfg.Paths.ProxyAudio, assetdb.ClassAudio, AudioSettings(0, true))
	return p
}

// Abs converts a project-relative path to a filesystem path.
func (p *Project) Abs(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// AddFile writes a raw file, creating parent folders.
func (p *Project) AddFile(rel, content string) {
	p.T.Helper()
	require.NoError(p.T, p.FS.MkdirAll(p.Abs(path.Dir(rel)), 0755))
	require.NoError(p.T, p.FS.WriteFile(p.Abs(rel), []byte(content), 0644))
}

// AddAsset writes an asset file and its meta with the given importer class
// and settings (YAML, unindented). It returns the asset's guid.
func (p *Project) AddAsset(rel, class, settings string) string {
	p.T.Helper()
	guid := assetdb.NewGUID()
	p.AddFile(rel, "binary:"+rel)
	p.AddFile(rel+assetdb.MetaExt, Meta(guid, class, settings))
	return guid
}

// AddAssetWithoutMeta writes an asset file that has no importer.
func (p *Project) AddAssetWithoutMeta(rel string) {
	p.T.Helper()
	p.AddFile(rel, "binary:"+rel)
}

// ReadFile returns a file's content.
func (p *Project) ReadFile(rel string) string {
	p.T.Helper()
	data, err := p.FS.ReadFile(p.Abs(rel))
	require.NoError(p.T, err)
	return string(data)
}

// Importer loads an asset's importer.
func (p *Project) Importer(rel string) *assetdb.Importer {
	p.T.Helper()
	imp, err := p.DB.ImporterAtPath(rel)
	require.NoError(p.T, err)
	return imp
}

// Meta renders a meta document.
func Meta(guid, class, settings string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fileFormatVersion: 2\nguid: %s\n%s:\n", guid, class)
	for _, line := range strings.Split(strings.TrimRight(settings, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// TextureSettings returns texture importer settings with the given max size
// and mip map flag.
func TextureSettings(maxSize, mipmaps int) string {
	return fmt.Sprintf(`serializedVersion: 11
mipmaps:
  mipMapMode: 0
  enableMipMap: %d
  sRGBTexture: 1
isReadable: 0
textureSettings:
  serializedVersion: 2
  filterMode: 1
  aniso: 1
  wrapU: 0
nPOTScale: 1
spriteMode: 0
spritePivot: {x: 0.5, y: 0.5}
spriteBorder: {x: 0, y: 0, z: 0, w: 0}
textureType: 0
maxTextureSize: %d
platformSettings:
- serializedVersion: 3
  buildTarget: DefaultTexturePlatform
  maxTextureSize: %d
  textureCompression: 1
spriteSheet:
  serializedVersion: 2
  sprites: []
userData:
assetBundleName:
assetBundleVariant:
`, mipmaps, maxSize, maxSize)
}

// ModelSettings returns model importer settings.
func ModelSettings(meshCompression int, readable bool) string {
	r := 0
	if readable {
		r = 1
	}
	return fmt.Sprintf(`serializedVersion: 22
fileIDToRecycleName:
  100000: //RootNode
materials:
  materialImportMode: 1
  materialName: 0
meshes:
  lODScreenPercentages: []
  globalScale: 1
  meshCompression: %d
  isReadable: %d
importAnimation: 1
animationType: 2
humanDescription:
  serializedVersion: 3
  armTwist: 0.5
userData:
assetBundleName:
assetBundleVariant:
`, meshCompression, r)
}

// AudioSettings returns audio importer settings.
func AudioSettings(loadType int, forceMono bool) string {
	mono := 0
	if forceMono {
		mono = 1
	}
	return fmt.Sprintf(`serializedVersion: 6
defaultSettings:
  loadType: %d
  sampleRateSetting: 0
  compressionFormat: 1
  quality: 1
forceToMono: %d
normalize: 1
preloadAudioData: 1
loadInBackground: 0
ambisonic: 0
3D: 1
userData:
assetBundleName:
assetBundleVariant:
`, loadType, mono)
}
