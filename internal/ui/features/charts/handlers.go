// Package charts provides the instrument charts feature for the UI.
package charts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/leapstack-labs/appshell/internal/charts"
	"github.com/leapstack-labs/appshell/internal/ui/components"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
)

const (
	demoPoints = 48
	demoStep   = time.Hour
)

// Handlers provides HTTP handlers for the charts feature.
type Handlers struct {
	shell *common.Shell
	now   func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(shell *common.Shell, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{shell: shell, now: now}
}

// ChartsPage renders the charts page. ?merge=true shows the total.
func (h *Handlers) ChartsPage(w http.ResponseWriter, r *http.Request) {
	merge := MergeParam(r)
	data := components.ChartsData{
		Series: Series(h.now(), merge),
		Merged: merge,
	}
	common.Render(w, r, http.StatusOK, components.Charts(h.shell.Data(r, "Charts"), data))
}

// Series returns the demo series ending at the hour of now, merged into a
// total when merge is set.
func Series(now time.Time, merge bool) []charts.Series {
	end := now.UTC().Truncate(demoStep)
	start := end.Add(-time.Duration(demoPoints-1) * demoStep)
	series := charts.DemoSeries(charts.DefaultInstruments, demoPoints, start, demoStep)
	if merge {
		return charts.Merge(series)
	}
	return series
}

// MergeParam reads the merge query parameter. Invalid values read as false.
func MergeParam(r *http.Request) bool {
	merge, err := strconv.ParseBool(r.URL.Query().Get("merge"))
	return err == nil && merge
}
