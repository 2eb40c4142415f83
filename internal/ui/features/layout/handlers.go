// Package layout provides the layout demo page and the endpoint that applies
// browser layout events to the layout state.
package layout

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/appshell/internal/layout"
	"github.com/leapstack-labs/appshell/internal/ui/components"
	"github.com/leapstack-labs/appshell/internal/ui/features/common"
	"github.com/starfederation/datastar-go/datastar"
)

// Layout events posted by the shell.
const (
	EventResize       = "resize"
	EventScroll       = "scroll"
	EventToggle       = "toggle"
	EventHover        = "hover"
	EventLeave        = "leave"
	EventClickOutside = "click-outside"
)

// EventSignals is the signal payload of a layout event.
type EventSignals struct {
	Layout layout.Signals `json:"layout"`
}

// Handlers provides HTTP handlers for the layout feature.
type Handlers struct {
	shell  *common.Shell
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(shell *common.Shell, logger *slog.Logger, now func() time.Time) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{shell: shell, logger: logger, now: now}
}

// LayoutPage renders the layout demo page.
func (h *Handlers) LayoutPage(w http.ResponseWriter, r *http.Request) {
	common.Render(w, r, http.StatusOK, components.LayoutDemo(h.shell.Data(r, "Layout")))
}

// Event applies the layout event named by the {event} URL parameter to the
// state the browser posted and patches the changed state back.
func (h *Handlers) Event(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")
	if !knownEvent(event) {
		http.Error(w, "unknown layout event "+event, http.StatusNotFound)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals EventSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "invalid layout signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	mgr := layout.NewManager(layout.FromSignals(signals.Layout)).WithClock(h.now)
	var changed *layout.State
	unsubscribe := mgr.Subscribe(func(s layout.State) { changed = &s })
	defer unsubscribe()

	sig := signals.Layout
	switch event {
	case EventResize:
		mgr.Resize(sig.Width, sig.HeaderHeight, sig.FooterHeight)
	case EventScroll:
		mgr.Scroll(sig.ScrollY)
	case EventToggle:
		mgr.MenuToggle()
	case EventHover:
		mgr.MenuHover(true)
	case EventLeave:
		mgr.MenuHover(false)
	case EventClickOutside:
		mgr.ClickOutside()
	}

	sse := datastar.NewSSE(w, r)
	if changed == nil {
		return
	}

	out := changed.Signals()
	out.ScrollY = sig.ScrollY
	if err := sse.MarshalAndPatchSignals(EventSignals{Layout: out}); err != nil {
		h.logger.Error("failed to patch layout signals", "event", event, "error", err)
		_ = sse.ConsoleError(err)
	}
}

func knownEvent(event string) bool {
	switch event {
	case EventResize, EventScroll, EventToggle, EventHover, EventLeave, EventClickOutside:
		return true
	}
	return false
}
