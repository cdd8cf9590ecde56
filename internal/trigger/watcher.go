package trigger

import (
	"context"
	"time"

	"invitation-canvas-editor/internal/logger"
	"invitation-canvas-editor/internal/scene"
)

const DefaultPollInterval = 2 * time.Second

// Fetcher reads the current trigger field of a document. A nil trigger means none was fired.
type Fetcher interface {
	FetchTrigger(ctx context.Context) (*scene.Trigger, error)
}

type FetcherFunc func(ctx context.Context) (*scene.Trigger, error)

func (f FetcherFunc) FetchTrigger(ctx context.Context) (*scene.Trigger, error) {
	return f(ctx)
}

// Watcher polls a Fetcher and hands every new trigger to a callback once.
type Watcher struct {
	fetch    Fetcher
	tracker  *Tracker
	interval time.Duration

	// ReplayExisting plays a trigger that was already set at the first poll.
	// Off by default so a freshly opened display does not replay an old effect.
	ReplayExisting bool
}

func NewWatcher(fetch Fetcher, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{fetch: fetch, tracker: NewTracker(), interval: interval}
}

func (w *Watcher) Tracker() *Tracker {
	return w.tracker
}

// Poll fetches once and returns the trigger if it has not been played yet.
func (w *Watcher) Poll(ctx context.Context) (scene.Trigger, bool, error) {
	t, err := w.fetch.FetchTrigger(ctx)
	if err != nil {
		return scene.Trigger{}, false, err
	}
	if !w.ReplayExisting && !w.tracker.Primed() {
		w.tracker.Prime(t)
		return scene.Trigger{}, false, nil
	}
	if !w.tracker.Observe(t) {
		return scene.Trigger{}, false, nil
	}
	return *t, true, nil
}

// Run polls every interval, and additionally whenever wake fires, until ctx ends.
// Fetch errors are logged and polling continues.
func (w *Watcher) Run(ctx context.Context, wake <-chan struct{}, play func(scene.Trigger)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	poll := func() {
		t, ok, err := w.Poll(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warnf("[TRIGGER] poll failed: %v", err)
			}
			return
		}
		if ok {
			play(t)
		}
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll()
		case _, open := <-wake:
			if !open {
				wake = nil
				continue
			}
			poll()
		}
	}
}
