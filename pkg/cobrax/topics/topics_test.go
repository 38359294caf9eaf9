package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicFS() fstest.MapFS {
	return fstest.MapFS{
		"ignore-rules.md":       {Data: []byte("# Ignore rules\n\nDefaults first.")},
		"mirroring.txt":         {Data: []byte("Mirrors are additive.")},
		"option-config.txt":     {Data: []byte("Config flag help")},
		"advanced/scoped.txt":   {Data: []byte("Scoped packages")},
		"notes.json":            {Data: []byte("{}")},
		"configuration.txxt":    {Data: []byte("Configuration Guide")},
		"advanced/readme.notes": {Data: []byte("skipped")},
	}
}

func TestScanTopics(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		want       []string
	}{
		{"default extensions", nil, []string{"ignore-rules", "mirroring", "option-config", "scoped"}},
		{"custom extensions", []string{".txt", ".md", ".txxt"}, []string{"configuration", "ignore-rules", "mirroring", "option-config", "scoped"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := NewWithOptions(topicFS(), Options{Extensions: tt.extensions})
			require.NoError(t, tm.scanTopics())
			assert.Equal(t, tt.want, tm.ListTopics())
		})
	}
}

func TestGetTopic(t *testing.T) {
	tm := New(topicFS())
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		{"mirroring", "mirroring", true},
		{"option-config", "option-config", true},
		{"config", "option-config", true},
		{"--config", "option-config", true},
		{"-config", "option-config", true},
		{"-c", "", false},
		{"scoped", "scoped", true},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestNilSource(t *testing.T) {
	tm := New(nil)
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func newApp(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	rootCmd := &cobra.Command{Use: "testapp", Short: "Test application"}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Sync something",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	require.NoError(t, Initialize(rootCmd, topicFS()))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	return rootCmd, &out
}

func TestHelpShowsTopic(t *testing.T) {
	rootCmd, out := newApp(t)
	rootCmd.SetArgs([]string{"help", "mirroring"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Mirrors are additive.")
}

func TestHelpListsTopics(t *testing.T) {
	rootCmd, out := newApp(t)
	rootCmd.SetArgs([]string{"help", "topics"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "General topics:")
	assert.Contains(t, out.String(), "  ignore-rules")
	assert.Contains(t, out.String(), "Option topics:")
	assert.Contains(t, out.String(), "  --config")
	assert.Contains(t, out.String(), "testapp help <topic>")
}

func TestHelpFallsBackToCommandHelp(t *testing.T) {
	rootCmd, out := newApp(t)
	rootCmd.SetArgs([]string{"help", "sync"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Sync something")
}

func TestGlamourRendererLeavesPlainText(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain", r.Render("plain", ".txt"))

	rendered := (&GlamourRenderer{Style: "notty", Width: 40}).Render("# Title\n\nBody", ".md")
	assert.Contains(t, rendered, "Title")
	assert.Contains(t, rendered, "Body")
}
