// Test Type: Unit Test
// Description: Tests for topic discovery and the topic-aware help command

package topics_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/arthur-debert/assetaudit/pkg/cobrax/topics"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpFS() fstest.MapFS {
	return fstest.MapFS{
		"help/rules.md":                   {Data: []byte("# Rules\n\nHow rules work")},
		"help/option-selective-index.txt": {Data: []byte("Selective index details")},
		"help/nested/matching.txt":        {Data: []byte("Matching details")},
		"help/notes.json":                 {Data: []byte("{}")},
	}
}

func TestScan(t *testing.T) {
	t.Run("default_extensions", func(t *testing.T) {
		tm := topics.New(helpFS(), "help")
		require.NoError(t, tm.Scan())
		assert.Equal(t, []string{"matching", "option-selective-index", "rules"}, tm.ListTopics())

		topic, ok := tm.GetTopic("rules")
		require.True(t, ok)
		assert.Equal(t, "# Rules\n\nHow rules work", topic.Content)
	})

	t.Run("custom_extensions", func(t *testing.T) {
		tm := topics.NewWithOptions(helpFS(), "help", topics.Options{Extensions: []string{".json"}})
		require.NoError(t, tm.Scan())
		assert.Equal(t, []string{"notes"}, tm.ListTopics())
	})

	t.Run("missing_root", func(t *testing.T) {
		tm := topics.New(helpFS(), "nowhere")
		require.NoError(t, tm.Scan())
		assert.Empty(t, tm.ListTopics())
	})
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := topics.New(helpFS(), "help")
	require.NoError(t, tm.Scan())

	for _, name := range []string{"--selective-index", "-selective-index", "selective-index"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "Selective index details", topic.Content)
	}
	_, ok := tm.GetTopic("nope")
	assert.False(t, ok)
}

type upperRenderer struct{}

func (upperRenderer) Render(content, format string) string { return format + ":" + content }

func TestHelpCommand(t *testing.T) {
	newRoot := func(t *testing.T) (*cobra.Command, *bytes.Buffer) {
		root := &cobra.Command{Use: "assetaudit", Run: func(*cobra.Command, []string) {}}
		root.AddCommand(&cobra.Command{Use: "scan", Short: "Scan a rule", Run: func(*cobra.Command, []string) {}})
		_, err := topics.InitializeWithOptions(root, helpFS(), "help", topics.Options{Renderer: upperRenderer{}})
		require.NoError(t, err)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		return root, &out
	}

	t.Run("topic", func(t *testing.T) {
		root, out := newRoot(t)
		root.SetArgs([]string{"help", "rules"})
		require.NoError(t, root.Execute())
		assert.Equal(t, ".md:# Rules\n\nHow rules work", out.String())
	})

	t.Run("topic_list", func(t *testing.T) {
		root, out := newRoot(t)
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "General topics:\n  matching\n  rules\n")
		assert.Contains(t, out.String(), "Option topics:\n  --selective-index\n")
		assert.Contains(t, out.String(), "Use 'assetaudit help <topic>'")
	})

	t.Run("command_help", func(t *testing.T) {
		root, out := newRoot(t)
		root.SetArgs([]string{"help", "scan"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Scan a rule")
	})
}

func TestGlamourRenderer(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	r := topics.NewGlamourRenderer()

	t.Run("plain_text_passes_through", func(t *testing.T) {
		assert.Equal(t, "Selective index details", r.Render("Selective index details", ".txt"))
	})

	t.Run("markdown", func(t *testing.T) {
		out := r.Render("# Rules\n\nHow rules work", ".md")
		assert.Contains(t, out, "Rules")
		assert.Contains(t, out, "How rules work")
	})
}
