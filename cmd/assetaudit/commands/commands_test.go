// Test Type: Integration Test
// Description: Tests for the assetaudit command line against a project on disk

package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/assetaudit/cmd/assetaudit/commands"
	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refPath = "Assets/Editor/AssetAuditor/ProxyAssets/Tex4K.jpg"

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--project", root, "--format", "json", "--log-file", "off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

type savedRule struct {
	Action string `json:"action"`
	Rule   struct {
		Name             string `json:"name"`
		ReferenceAssetID string `json:"referenceAssetId"`
	} `json:"rule"`
	ReferencePath string `json:"referencePath"`
}

type scanReport struct {
	Summary struct {
		Assets        int `json:"assets"`
		Conforming    int `json:"conforming"`
		NonConforming int `json:"nonConforming"`
	} `json:"summary"`
	Assets []struct {
		Path     string `json:"path"`
		IsAsset  bool   `json:"isAsset"`
		Conforms bool   `json:"conforms"`
	} `json:"assets"`
}

// setup creates a project on disk with the Tex4K rule, whose reference asks
// for 4096 textures without mip maps.
func setup(t *testing.T) *testutil.Project {
	t.Helper()
	p := testutil.NewProject(t, testutil.EnvIsolated)
	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
	p.AddAsset("Assets/Art/Wood_2K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))

	out, err := run(t, p.Root, "rules", "new", "--name", "Tex4K", "--pattern", "_4K", "--kind", "Texture")
	require.NoError(t, err)
	var saved savedRule
	decode(t, out, &saved)
	require.Equal(t, "created", saved.Action)
	require.Equal(t, refPath, saved.ReferencePath)

	p.AddFile(refPath+assetdb.MetaExt, testutil.Meta(saved.Rule.ReferenceAssetID, assetdb.ClassTexture, testutil.TextureSettings(4096, 0)))
	return p
}

func TestRulesCommands(t *testing.T) {
	p := setup(t)

	t.Run("list", func(t *testing.T) {
		out, err := run(t, p.Root, "rules", "list")
		require.NoError(t, err)
		var list struct {
			Rules []struct {
				Name          string `json:"name"`
				Pattern       string `json:"pattern"`
				ReferencePath string `json:"referencePath"`
			} `json:"rules"`
		}
		decode(t, out, &list)
		require.Len(t, list.Rules, 1)
		assert.Equal(t, "Tex4K", list.Rules[0].Name)
		assert.Equal(t, "_4K", list.Rules[0].Pattern)
		assert.Equal(t, refPath, list.Rules[0].ReferencePath)
	})

	t.Run("duplicate_name", func(t *testing.T) {
		_, err := run(t, p.Root, "rules", "new", "--name", "Tex4K", "--pattern", "_8K")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRuleDuplicate))
	})

	t.Run("invalid_match_type", func(t *testing.T) {
		_, err := run(t, p.Root, "rules", "new", "--name", "X", "--pattern", "x", "--match", "Fuzzy")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("set_selective", func(t *testing.T) {
		out, err := run(t, p.Root, "rules", "set-selective", "Tex4K", "Max Texture Size")
		require.NoError(t, err)
		var saved struct {
			Action string `json:"action"`
			Rule   struct {
				SelectiveMode       bool     `json:"selectiveMode"`
				SelectiveProperties []string `json:"selectiveProperties"`
			} `json:"rule"`
		}
		decode(t, out, &saved)
		assert.Equal(t, "updated", saved.Action)
		assert.True(t, saved.Rule.SelectiveMode)
		assert.Equal(t, []string{"Max Texture Size"}, saved.Rule.SelectiveProperties)

		_, err = run(t, p.Root, "rules", "set-selective", "Tex4K")
		require.NoError(t, err)
	})

	t.Run("properties", func(t *testing.T) {
		out, err := run(t, p.Root, "rules", "properties", "texture")
		require.NoError(t, err)
		var list struct {
			Names []string `json:"names"`
		}
		decode(t, out, &list)
		assert.Contains(t, list.Names, "Max Texture Size")
	})

	t.Run("unknown_rule", func(t *testing.T) {
		_, err := run(t, p.Root, "scan", "Nope")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRuleNotFound))
	})
}

func TestScanAndFixAll(t *testing.T) {
	p := setup(t)

	out, err := run(t, p.Root, "scan", "Tex4K")
	require.NoError(t, err)
	var before scanReport
	decode(t, out, &before)
	assert.Equal(t, 1, before.Summary.Assets)
	assert.Equal(t, 1, before.Summary.NonConforming)

	out, err = run(t, p.Root, "fix", "Tex4K", "--all")
	require.NoError(t, err)
	var fixed struct {
		Rule  string   `json:"rule"`
		Fixed []string `json:"fixed"`
	}
	decode(t, out, &fixed)
	assert.Equal(t, "Tex4K", fixed.Rule)
	assert.Equal(t, []string{"Assets/Art/Rock_4K.png"}, fixed.Fixed)

	out, err = run(t, p.Root, "scan", "Tex4K")
	require.NoError(t, err)
	var after scanReport
	decode(t, out, &after)
	assert.Equal(t, 1, after.Summary.Conforming)
	assert.Equal(t, 0, after.Summary.NonConforming)

	assert.Contains(t, p.ReadFile("Assets/Art/Wood_2K.png.meta"), "maxTextureSize: 2048")
}

func TestScanFilter(t *testing.T) {
	p := setup(t)
	p.AddAsset("Assets/Props/Crate_4K.png", assetdb.ClassTexture, testutil.TextureSettings(4096, 0))

	out, err := run(t, p.Root, "scan", "Tex4K", "--filter", "crate")
	require.NoError(t, err)
	var report scanReport
	decode(t, out, &report)
	require.Len(t, report.Assets, 1)
	assert.Equal(t, "Assets/Props/Crate_4K.png", report.Assets[0].Path)
	assert.True(t, report.Assets[0].Conforms)
	assert.Equal(t, 2, report.Summary.Assets)
}

func TestFixAssets(t *testing.T) {
	p := setup(t)

	t.Run("needs_a_target", func(t *testing.T) {
		_, err := run(t, p.Root, "fix", "Tex4K")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

		_, err = run(t, p.Root, "fix", "Tex4K", "--all", "Assets/Art/Rock_4K.png")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("by_path", func(t *testing.T) {
		out, err := run(t, p.Root, "fix", "Tex4K", p.Abs("Assets/Art/Rock_4K.png"))
		require.NoError(t, err)
		var fixed struct {
			Fixed []string `json:"fixed"`
		}
		decode(t, out, &fixed)
		assert.Equal(t, []string{"Assets/Art/Rock_4K.png"}, fixed.Fixed)
		assert.Contains(t, p.ReadFile("Assets/Art/Rock_4K.png.meta"), "maxTextureSize: 4096")
	})
}

func TestExplain(t *testing.T) {
	p := setup(t)

	out, err := run(t, p.Root, "explain", "Tex4K", "Assets/Art/Rock_4K.png")
	require.NoError(t, err)
	var explanation struct {
		AssetPath     string        `json:"assetPath"`
		ReferencePath string        `json:"referencePath"`
		Conforms      bool          `json:"conforms"`
		Differences   []interface{} `json:"differences"`
		Unified       string        `json:"unified"`
	}
	decode(t, out, &explanation)
	assert.Equal(t, "Assets/Art/Rock_4K.png", explanation.AssetPath)
	assert.Equal(t, refPath, explanation.ReferencePath)
	assert.False(t, explanation.Conforms)
	assert.NotEmpty(t, explanation.Differences)
	assert.Contains(t, explanation.Unified, "maxTextureSize")
}

func TestNotAProject(t *testing.T) {
	_, err := run(t, t.TempDir(), "rules", "list")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestMiscCommands(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		cmd := commands.NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"version"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "assetaudit version dev")
	})

	t.Run("help_topics", func(t *testing.T) {
		cmd := commands.NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"help", "topics"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "  configuration\n")
		assert.Contains(t, out.String(), "  rules\n")
		assert.Contains(t, out.String(), "  --selective-index\n")
	})

	t.Run("gen_config", func(t *testing.T) {
		cmd := commands.NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"gen-config"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "[paths]")
		assert.Contains(t, out.String(), "[output]")
	})

	t.Run("gen_config_write", func(t *testing.T) {
		root := t.TempDir()
		out, err := run(t, root, "gen-config", "-w")
		require.NoError(t, err)
		assert.Contains(t, out, filepath.Join(root, ".assetaudit.toml"))
		data, err := os.ReadFile(filepath.Join(root, ".assetaudit.toml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "[paths]")

		out, err = run(t, root, "gen-config", "-w")
		require.NoError(t, err)
		assert.Contains(t, out, "already exists")
	})

	t.Run("no_command", func(t *testing.T) {
		cmd := commands.NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{})
		assert.Error(t, cmd.Execute())
	})
}
