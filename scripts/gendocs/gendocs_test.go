package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVar(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"apiPath", "APPSHELL_APIPATH"},
		{"identityServer.client_id", "APPSHELL_IDENTITYSERVER__CLIENT_ID"},
		{"server.session_max_age", "APPSHELL_SERVER__SESSION_MAX_AGE"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envVar(tt.key))
	}
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"Key", "Description"}, [][]string{{"output", "auto|text"}})

	assert.Equal(t, "| Key | Description |\n|---|---|\n| output | auto\\|text |\n\n", string(w.Bytes()))
}

func TestMarkdownWriter_EmptyTable(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"Key"}, nil)
	assert.Empty(t, w.Bytes())
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`serve`](/cli/serve)")
	assert.Contains(t, string(index), "[`routes`](/cli/routes)")
	assert.Contains(t, string(index), "--identity-url")
	assert.Contains(t, string(index), "/reference/configuration")

	serve, err := os.ReadFile(filepath.Join(dir, "serve.md"))
	require.NoError(t, err)
	s := string(serve)
	assert.True(t, strings.HasPrefix(s, "---\ntitle: serve\n"))
	assert.Contains(t, s, "# appshell serve")
	assert.Contains(t, s, "--no-browser")
	assert.Contains(t, s, "## Global Flags")
	assert.Equal(t, 0, strings.Count(s, "```")%2)

	for _, name := range []string{"routes.md", "config.md", "version.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRenderCommand_SkipsEmptySections(t *testing.T) {
	got := string(renderCommand(commandDoc{Name: "version", Path: "appshell version", Summary: "Print the version", Details: "Print the version", Usage: "appshell version"}))

	assert.Contains(t, got, "## Usage")
	assert.NotContains(t, got, "## Flags")
	assert.NotContains(t, got, "## Examples")
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateConfigDocs(dir))

	doc, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	s := string(doc)
	assert.Contains(t, s, "## Server")
	assert.Contains(t, s, "| `server.port` | int | `8765` | `APPSHELL_SERVER__PORT` | Port to serve on |")
	assert.Equal(t, 0, strings.Count(s, "```")%2)
}
