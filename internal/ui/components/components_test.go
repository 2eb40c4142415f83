package components

import (
	"bytes"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/appshell/internal/charts"
	"github.com/leapstack-labs/appshell/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(t.Context(), &buf))
	return buf.String()
}

func shellData() ShellData {
	return ShellData{
		Title:       "Dashboard",
		CurrentPath: "/",
		Nav: []NavItem{
			{Path: "/", Label: "Home", Icon: "house", Active: true},
			{Path: "/charts", Label: "Charts", Icon: "chart-line"},
		},
		Layout: layout.Initial().Signals(),
	}
}

func TestPage_Shell(t *testing.T) {
	body := render(t, Home(shellData()))

	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<title>Dashboard - AppShell</title>")
	assert.Contains(t, body, `href="/charts"`)
	assert.Contains(t, body, `class="active" aria-current="page"`)
	assert.Contains(t, body, `data-on:click="@post('/layout/toggle')"`)
	assert.Contains(t, body, "data-signals=")
	assert.Contains(t, body, "/signin?returnUrl=%2F")
	assert.NotContains(t, body, "/reload")
}

func TestPage_SignedInAndDev(t *testing.T) {
	data := shellData()
	data.Subject = "alice<script>"
	data.ExpiresAt = time.Now().Add(time.Hour)
	data.IsDev = true

	body := render(t, Home(data))

	assert.Contains(t, body, "alice&lt;script&gt;")
	assert.NotContains(t, body, "alice<script>")
	assert.Contains(t, body, `href="/signout"`)
	assert.Contains(t, body, "data-expires-at=")
	assert.Contains(t, body, "from now")
	assert.Contains(t, body, "/reload")
}

func TestPage_EscapesUserValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ShellData)
		want   string
		reject string
	}{
		{
			name:   "script nav path",
			modify: func(d *ShellData) { d.Nav[1].Path = "javascript:alert(1)" },
			want:   `href="about:invalid#TemplFailedSanitizationURL"`,
			reject: "javascript:",
		},
		{
			name:   "quoted icon",
			modify: func(d *ShellData) { d.Nav[0].Icon = `x" onclick="alert(1)` },
			want:   `data-icon="x&#34; onclick=&#34;alert(1)"`,
			reject: `onclick="alert(1)"`,
		},
		{
			name:   "quoted return path",
			modify: func(d *ShellData) { d.CurrentPath = `/charts"><script>` },
			want:   "/signin?returnUrl=%2Fcharts%22%3E%3Cscript%3E",
			reject: "<script>\"",
		},
		{
			name:   "quoted api path",
			modify: func(d *ShellData) { d.APIPath = `/api" data-init="@get('/x')` },
			want:   `data-api-path="/api&#34; data-init=&#34;@get(&#39;/x&#39;)"`,
			reject: `data-init="@get('/x')"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := shellData()
			tt.modify(&data)

			body := render(t, Home(data))
			assert.Contains(t, body, tt.want)
			assert.NotContains(t, body, tt.reject)
		})
	}
}

func TestLoginError(t *testing.T) {
	body := render(t, LoginError(shellData(), "state mismatch"))

	assert.Contains(t, body, `<dialog id="login-error"`)
	assert.Contains(t, body, "state mismatch")
}

func TestSilentCallback(t *testing.T) {
	assert.Contains(t, render(t, SilentCallback(true)), "ok: true")
	assert.Contains(t, render(t, SilentCallback(false)), "ok: false")
}

func TestCharts(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := charts.DemoSeries(charts.DefaultInstruments, 10, start, time.Hour)

	body := render(t, ChartsContent(ChartsData{Series: series}))
	assert.Equal(t, len(series), bytes.Count([]byte(body), []byte("<polyline")))
	assert.Contains(t, body, "?merge=true")

	body = render(t, ChartsContent(ChartsData{Series: charts.Merge(series), Merged: true}))
	assert.Equal(t, 1, bytes.Count([]byte(body), []byte("<polyline")))
	assert.Contains(t, body, charts.TotalName)
}

func TestCharts_Empty(t *testing.T) {
	body := render(t, ChartsContent(ChartsData{}))
	assert.NotContains(t, body, "<polyline")
}

func TestPolyline(t *testing.T) {
	s := charts.Series{Points: []charts.Point{{Value: 0}, {Value: 10}}}
	assert.Equal(t, "0.0,300.0 800.0,0.0", polyline(s, 0, 10))
}
