package layout

import (
	"sync"
	"time"
)

// Manager owns a State and notifies subscribers after every change.
type Manager struct {
	mu     sync.Mutex
	state  State
	now    func() time.Time
	subs   map[int]func(State)
	nextID int
}

// NewManager creates a Manager starting at initial.
func NewManager(initial State) *Manager {
	return &Manager{
		state: initial,
		now:   time.Now,
		subs:  make(map[int]func(State)),
	}
}

// WithClock replaces the clock used by MenuToggle and MenuHover.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Apply runs transition on the current state. Subscribers are called outside
// the lock, and only when the state changed.
func (m *Manager) Apply(transition func(State) State) State {
	m.mu.Lock()
	prev := m.state
	next := transition(prev)
	m.state = next
	var subs []func(State)
	if next != prev {
		subs = make([]func(State), 0, len(m.subs))
		for _, fn := range m.subs {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Resize applies State.Resize.
func (m *Manager) Resize(width, headerHeight, footerHeight int) State {
	return m.Apply(func(s State) State { return s.Resize(width, headerHeight, footerHeight) })
}

// MenuToggle applies State.MenuToggle at the current time.
func (m *Manager) MenuToggle() State {
	now := m.now()
	return m.Apply(func(s State) State { return s.MenuToggle(now) })
}

// MenuHover applies State.MenuHover at the current time.
func (m *Manager) MenuHover(inside bool) State {
	now := m.now()
	return m.Apply(func(s State) State { return s.MenuHover(now, inside) })
}

// ClickOutside applies State.ClickOutside.
func (m *Manager) ClickOutside() State {
	return m.Apply(State.ClickOutside)
}

// Scroll applies State.Scroll.
func (m *Manager) Scroll(scrollY int) State {
	return m.Apply(func(s State) State { return s.Scroll(scrollY) })
}
