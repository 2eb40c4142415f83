package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Listeners())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Listeners())

	_, open := <-ch
	assert.False(t, open, "channel is closed on unsubscribe")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	ev := Event{Kind: AssetsChanged, Path: "app.css"}
	n.Broadcast(ev)

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, ev, got)
		case <-time.After(100 * time.Millisecond):
			t.Error("listener did not receive broadcast")
		}
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	// Fill the channel buffer
	ch <- Event{Kind: ReloadRequested}

	done := make(chan struct{})
	go func() {
		n.Broadcast(Event{Kind: AssetsChanged})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on full channel")
	}

	assert.Equal(t, ReloadRequested, (<-ch).Kind, "pending event is kept")
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast(Event{Kind: ReloadRequested})
			n.Unsubscribe(ch)
		}()
	}

	wg.Wait()
	assert.Equal(t, 0, n.Listeners())
}
