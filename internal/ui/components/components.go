// Package components holds the HTML components of the UI. Markup lives in
// the .templ files; run `templ generate` after editing them.
package components

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/leapstack-labs/appshell/internal/charts"
	"github.com/leapstack-labs/appshell/internal/layout"
)

//go:generate templ generate

// AppName is shown in titles and the header.
const AppName = "AppShell"

// NavItem is a navigation entry.
type NavItem struct {
	Path   string
	Label  string
	Icon   string
	Active bool
}

// ShellData is what every page shares.
type ShellData struct {
	Title       string
	CurrentPath string
	Nav         []NavItem
	Subject     string
	ExpiresAt   time.Time
	APIPath     string
	IsDev       bool
	Layout      layout.Signals
}

// SignedIn reports whether the page is rendered for a signed-in user.
func (d ShellData) SignedIn() bool {
	return d.Subject != ""
}

// ChartsData is the content of the charts page.
type ChartsData struct {
	Series []charts.Series
	Merged bool
}

const measure = "$layout.width = window.innerWidth; " +
	"$layout.headerHeight = document.getElementById('app-header').offsetHeight; " +
	"$layout.footerHeight = document.getElementById('app-footer').offsetHeight; "

func pageTitle(title string) string {
	return title + " - " + AppName
}

func signalsJSON(s layout.Signals) (string, error) {
	b, err := json.Marshal(map[string]any{"layout": s})
	return string(b), err
}

func signInURL(returnPath string) templ.SafeURL {
	return templ.SafeURL("/signin?returnUrl=" + url.QueryEscape(returnPath))
}

func expiresAt(d ShellData) string {
	return d.ExpiresAt.UTC().Format(time.RFC3339)
}

type layoutRow struct {
	Label string
	Expr  string
}

var layoutRows = []layoutRow{
	{"Width", "$layout.width + 'px'"},
	{"Screen", "$layout.screenName"},
	{"Side bar expanded", "$layout.sideBarExpanded"},
	{"Thin side bar", "$layout.thinSideBar"},
	{"Hover expanded", "$layout.hoverExpanded"},
	{"Scrolled to top", "$layout.isScrollTop"},
	{"Padding", "$layout.padTop + ' / ' + $layout.padBottom + ' / ' + $layout.padLeft"},
}

const (
	chartWidth  = 800
	chartHeight = 300
)

var palette = []string{"#2563eb", "#16a34a", "#dc2626", "#9333ea", "#ea580c"}

func seriesColor(i int) string {
	return palette[i%len(palette)]
}

func viewBox() string {
	return "0 0 " + strconv.Itoa(chartWidth) + " " + strconv.Itoa(chartHeight)
}

// plot holds the polyline of every series, scaled to a shared range.
func plot(series []charts.Series) []string {
	lo, hi := bounds(series)
	lines := make([]string, len(series))
	for i, s := range series {
		lines[i] = polyline(s, lo, hi)
	}
	return lines
}

func lastValue(s charts.Series) string {
	if n := len(s.Points); n > 0 {
		return humanize.CommafWithDigits(s.Points[n-1].Value, 2)
	}
	return ""
}

func bounds(series []charts.Series) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func polyline(s charts.Series, lo, hi float64) string {
	n := len(s.Points)
	var b strings.Builder
	for i, p := range s.Points {
		x := 0.0
		if n > 1 {
			x = float64(i) * chartWidth / float64(n-1)
		}
		y := chartHeight - (p.Value-lo)/(hi-lo)*chartHeight
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	return b.String()
}
