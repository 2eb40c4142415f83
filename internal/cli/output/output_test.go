package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"explicit json on terminal", ModeJSON, true, ModeJSON},
		{"empty piped", "", false, ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestTable(t *testing.T) {
	header := []string{"Path", "Name"}
	rows := [][]string{{"/", "home"}, {"/charts", "charts"}}

	t.Run("markdown", func(t *testing.T) {
		out := &bytes.Buffer{}
		NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown).Table(header, rows)
		s := strings.ToLower(out.String())
		assert.Contains(t, s, "| path | name |")
		assert.Contains(t, s, "| /charts | charts |")
	})

	t.Run("text", func(t *testing.T) {
		out := &bytes.Buffer{}
		NewRendererWithTTY(out, &bytes.Buffer{}, true, ModeText).Table(header, rows)
		s := strings.ToLower(out.String())
		assert.Contains(t, s, "path")
		assert.Contains(t, s, "/charts")
		assert.Contains(t, s, "┌")
	})
}

func TestHeaderAndKeyValue(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
	r.Header(2, "Routes")
	r.KeyValue("Origin", "http://localhost:8765")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "## Routes", lines[0])
	assert.Equal(t, "- **Origin**: http://localhost:8765", lines[2])
}

func TestHeader_JSONModeIsSilent(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, true, ModeJSON)
	r.Header(1, "Routes")
	assert.Empty(t, out.String())
}

func TestJSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)
	require.NoError(t, r.JSON(map[string]int{"port": 8765}))
	assert.JSONEq(t, `{"port": 8765}`, out.String())
}

func TestWarn(t *testing.T) {
	errOut := &bytes.Buffer{}
	r := NewRendererWithTTY(&bytes.Buffer{}, errOut, false, ModeMarkdown)
	r.Warn("development session secret in use")
	assert.Equal(t, "Warning: development session secret in use\n", errOut.String())
}

func TestFormatHeader(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
}
