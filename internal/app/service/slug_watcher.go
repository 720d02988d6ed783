package service

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/directorio-backend/pkg/util"
)

// SlugWatcher re-derives a slug on every name change and debounces the
// availability lookup. Only the result for the latest candidate is delivered;
// answers for superseded candidates are dropped when they arrive.
type SlugWatcher struct {
	ctx      context.Context
	checker  SlugChecker
	opts     SlugCheckOptions
	delay    time.Duration
	onResult func(SlugResult)

	mu     sync.Mutex
	latest string
	timer  *time.Timer
	result *SlugResult
	closed bool
}

func NewSlugWatcher(ctx context.Context, checker SlugChecker, delay time.Duration, opts SlugCheckOptions, onResult func(SlugResult)) *SlugWatcher {
	return &SlugWatcher{
		ctx:      ctx,
		checker:  checker,
		opts:     opts,
		delay:    delay,
		onResult: onResult,
	}
}

// Input derives the candidate for name and schedules its check.
func (w *SlugWatcher) Input(name string) string {
	candidate := util.DeriveSlug(name)
	w.SetCandidate(candidate)
	return candidate
}

// SetCandidate schedules a check for a manually edited slug. Results that need
// no lookup are delivered at once and cancel the pending lookup.
func (w *SlugWatcher) SetCandidate(candidate string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.latest = candidate
	w.result = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	if result, ok := checkSlugLocally(candidate, w.opts); ok {
		w.mu.Unlock()
		w.deliver(result)
		return
	}

	w.timer = time.AfterFunc(w.delay, func() { w.lookup(candidate) })
	w.mu.Unlock()
}

func (w *SlugWatcher) lookup(candidate string) {
	w.mu.Lock()
	if w.closed || candidate != w.latest {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.deliver(w.checker.CheckAvailability(w.ctx, candidate, w.opts))
}

func (w *SlugWatcher) deliver(result SlugResult) {
	w.mu.Lock()
	if w.closed || result.Candidate != w.latest {
		w.mu.Unlock()
		return
	}
	w.result = &result
	w.mu.Unlock()

	if w.onResult != nil {
		w.onResult(result)
	}
}

// Latest returns the current candidate and its result, if one has arrived.
func (w *SlugWatcher) Latest() (string, *SlugResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return w.latest, nil
	}
	r := *w.result
	return w.latest, &r
}

// Close stops any pending lookup and drops results still in flight.
func (w *SlugWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
