package chain

import (
	"context"
	"sync"
)

// Listener subscribes once to the shred feed and exposes a liveness flag
// plus the latest pushed record. A delivered error flips the flag false and
// the listener is not restarted; a fresh Start begins a new subscription.
type Listener struct {
	watcher ShredWatcher

	mu        sync.Mutex
	latest    Shred
	connected bool
	unwatch   func()
}

func NewListener(w ShredWatcher) *Listener {
	return &Listener{watcher: w}
}

// Start subscribes to the shred feed. Calling Start on a running listener
// is a no-op.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.unwatch != nil {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	unwatch, err := l.watcher.WatchShreds(ctx, ShredHandlers{
		OnShred: func(s Shred) {
			l.mu.Lock()
			l.latest = s
			l.connected = true
			l.mu.Unlock()
		},
		OnError: func(error) {
			l.mu.Lock()
			l.connected = false
			l.mu.Unlock()
		},
	})
	if err != nil {
		l.mu.Lock()
		l.connected = false
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.unwatch = unwatch
	l.mu.Unlock()
	return nil
}

// Stop unsubscribes from the feed. Safe to call more than once; the
// unsubscribe function runs at most one time.
func (l *Listener) Stop() {
	l.mu.Lock()
	unwatch := l.unwatch
	l.unwatch = nil
	l.connected = false
	l.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
}

// Latest returns the most recently pushed shred, nil before the first push
func (l *Listener) Latest() Shred {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

// Connected reports whether the feed has delivered a shred more recently
// than an error
func (l *Listener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}
