// Test Type: Unit Test
// Description: Tests for the embedded style sheet

package styles_test

import (
	"testing"

	"github.com/arthur-debert/assetaudit/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	for _, name := range []string{
		"Header", "Success", "Error", "Warning", "Muted",
		"Conforming", "NonConforming", "Folder", "FilePath", "RuleName",
		"Difference", "DiffAdd", "DiffRemove", "DiffHunk",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := styles.StyleRegistry[name]
			assert.True(t, ok, "style %s should be defined", name)
		})
	}
}

func TestGetStyleUnknown(t *testing.T) {
	assert.Equal(t, "plain", styles.GetStyle("NoSuchStyle").Render("plain"))
}

func TestLoadStylesFromData(t *testing.T) {
	saved := styles.StyleRegistry
	t.Cleanup(func() { styles.StyleRegistry = saved })
	err := styles.LoadStylesFromData([]byte("colors:\n  red: {light: \"#f00\", dark: \"#f00\"}\nstyles:\n  Alert: {bold: true, foreground: red}\n"))
	require.NoError(t, err)
	_, ok := styles.StyleRegistry["Alert"]
	assert.True(t, ok)

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
}
