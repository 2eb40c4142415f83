// Package layout implements the responsive layout state machine: six
// screen-size buckets, a collapsible side panel, a thin rail with debounced
// hover-expand and the content padding derived from them.
//
// State transitions are pure functions returning a new State. Manager adds
// subscriptions on top for callers that re-render on change.
package layout

import "time"

// Screen is a viewport size bucket.
type Screen int

// Screen buckets, ordered by width.
const (
	ExtraSmall Screen = iota
	Small
	Medium
	Large
	ExtraLarge
	Huge
)

// Breakpoints are the exclusive upper widths of every bucket below Huge.
var Breakpoints = [...]int{576, 768, 992, 1200, 1360}

// Sizes used to reflow the content padding.
const (
	FullSideBarWidth = 240
	ThinSideBarWidth = 64
)

// DebounceWindow is how long after a rail toggle hover-expand is suppressed.
const DebounceWindow = 300 * time.Millisecond

var screenNames = [...]string{"xs", "sm", "md", "lg", "xl", "xxl"}

// ScreenFor returns the bucket of a viewport width.
func ScreenFor(width int) Screen {
	for i, bp := range Breakpoints {
		if width < bp {
			return Screen(i)
		}
	}
	return Huge
}

func (s Screen) String() string {
	if s < ExtraSmall || s > Huge {
		return "unknown"
	}
	return screenNames[s]
}

// Narrow reports whether the side panel slides out instead of docking.
func (s Screen) Narrow() bool {
	return s <= Medium
}

// Padding is the content-area padding in pixels.
type Padding struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// State is the layout of one viewport.
type State struct {
	Width        int
	HeaderHeight int
	FooterHeight int

	Screen          Screen
	SideBarExpanded bool
	ThinSideBar     bool
	HoverExpanded   bool
	IsScrollTop     bool
	ToggledAt       time.Time

	Padding Padding
}

// Initial returns the state before the first measurement.
func Initial() State {
	return State{Screen: Huge, IsScrollTop: true}
}

// Measured reports whether Resize has been applied.
func (s State) Measured() bool {
	return s.Width > 0
}

// Resize recomputes the bucket. Entering a new bucket resets the thin rail
// default and closes the slide-out panel; padding is always reflowed.
func (s State) Resize(width, headerHeight, footerHeight int) State {
	screen := ScreenFor(width)
	if !s.Measured() || screen != s.Screen {
		s.ThinSideBar = screen <= ExtraLarge
		s.SideBarExpanded = false
		s.HoverExpanded = false
	}
	s.Width = width
	s.Screen = screen
	s.HeaderHeight = headerHeight
	s.FooterHeight = footerHeight
	return s.reflow()
}

// MenuToggle toggles the slide-out panel on narrow screens and the thin rail
// on wide ones. A rail toggle opens the hover debounce window.
func (s State) MenuToggle(now time.Time) State {
	if s.Screen.Narrow() {
		s.SideBarExpanded = !s.SideBarExpanded
		return s
	}
	s.ThinSideBar = !s.ThinSideBar
	s.HoverExpanded = false
	s.ToggledAt = now
	return s.reflow()
}

// InDebounce reports whether now falls inside the window opened by the last
// rail toggle.
func (s State) InDebounce(now time.Time) bool {
	return !s.ToggledAt.IsZero() && now.Sub(s.ToggledAt) < DebounceWindow
}

// MenuHover expands the thin rail while the pointer is inside it. It only
// applies to a thin rail on wide screens and is ignored during debounce.
func (s State) MenuHover(now time.Time, inside bool) State {
	if s.Screen.Narrow() || !s.ThinSideBar {
		return s
	}
	if !inside {
		s.HoverExpanded = false
		return s
	}
	if s.InDebounce(now) {
		return s
	}
	s.HoverExpanded = true
	return s
}

// ClickOutside collapses the menu.
func (s State) ClickOutside() State {
	s.SideBarExpanded = false
	s.HoverExpanded = false
	return s
}

// Scroll records the vertical scroll offset.
func (s State) Scroll(scrollY int) State {
	s.IsScrollTop = scrollY <= 0
	return s
}

// SideBarWidth is the width the docked side bar takes from the content.
func (s State) SideBarWidth() int {
	switch {
	case s.Screen.Narrow():
		return 0
	case s.ThinSideBar:
		return ThinSideBarWidth
	default:
		return FullSideBarWidth
	}
}

func (s State) reflow() State {
	s.Padding = Padding{
		Top:    s.HeaderHeight,
		Bottom: s.FooterHeight,
		Left:   s.SideBarWidth(),
	}
	return s
}
