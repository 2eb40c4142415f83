package layout

import "time"

// Signals is the browser-side representation of State. The browser owns it
// and posts it back with every layout event.
type Signals struct {
	Width        int `json:"width"`
	HeaderHeight int `json:"headerHeight"`
	FooterHeight int `json:"footerHeight"`
	ScrollY      int `json:"scrollY"`

	Screen          int    `json:"screen"`
	ScreenName      string `json:"screenName"`
	SideBarExpanded bool   `json:"sideBarExpanded"`
	ThinSideBar     bool   `json:"thinSideBar"`
	HoverExpanded   bool   `json:"hoverExpanded"`
	IsScrollTop     bool   `json:"isScrollTop"`
	// ToggledAt is in Unix milliseconds, 0 when never toggled.
	ToggledAt int64 `json:"toggledAt"`

	PadTop    int `json:"padTop"`
	PadBottom int `json:"padBottom"`
	PadLeft   int `json:"padLeft"`
}

// Signals converts s for the browser.
func (s State) Signals() Signals {
	var toggled int64
	if !s.ToggledAt.IsZero() {
		toggled = s.ToggledAt.UnixMilli()
	}
	return Signals{
		Width:           s.Width,
		HeaderHeight:    s.HeaderHeight,
		FooterHeight:    s.FooterHeight,
		Screen:          int(s.Screen),
		ScreenName:      s.Screen.String(),
		SideBarExpanded: s.SideBarExpanded,
		ThinSideBar:     s.ThinSideBar,
		HoverExpanded:   s.HoverExpanded,
		IsScrollTop:     s.IsScrollTop,
		ToggledAt:       toggled,
		PadTop:          s.Padding.Top,
		PadBottom:       s.Padding.Bottom,
		PadLeft:         s.Padding.Left,
	}
}

// FromSignals rebuilds the State a browser reported. Out-of-range screens
// fall back to the bucket of the reported width.
func FromSignals(sig Signals) State {
	screen := Screen(sig.Screen)
	if screen < ExtraSmall || screen > Huge {
		screen = ScreenFor(sig.Width)
	}

	s := State{
		Width:           sig.Width,
		HeaderHeight:    sig.HeaderHeight,
		FooterHeight:    sig.FooterHeight,
		Screen:          screen,
		SideBarExpanded: sig.SideBarExpanded,
		ThinSideBar:     sig.ThinSideBar,
		HoverExpanded:   sig.HoverExpanded,
		IsScrollTop:     sig.IsScrollTop,
		Padding: Padding{
			Top:    sig.PadTop,
			Bottom: sig.PadBottom,
			Left:   sig.PadLeft,
		},
	}
	if sig.ToggledAt > 0 {
		s.ToggledAt = time.UnixMilli(sig.ToggledAt)
	}
	return s
}
