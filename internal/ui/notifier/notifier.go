// Package notifier fans out reload events to connected browsers.
package notifier

import "sync"

// Kind says why browsers should reload.
type Kind string

// Event kinds.
const (
	// AssetsChanged is sent when a static asset changed on disk.
	AssetsChanged Kind = "assets"
	// ReloadRequested is sent when a build tool asks for a reload.
	ReloadRequested Kind = "reload"
)

// Event is a single notification.
type Event struct {
	Kind Kind
	Path string
}

// Notifier broadcasts events to all subscribed listeners. A listener that
// has not consumed its previous event misses the next one; reload events
// coalesce.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Listeners returns the number of subscribed listeners.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends ev to all listeners without blocking.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}
