package geolocation

import (
	"context"
	"sync"
	"time"
)

// feed fans fixes out to watches and implements the Source semantics shared by
// every transport: timeouts, cached fixes and per-watch time ordering.
type feed struct {
	now       func() time.Time
	available func() error

	pubMu sync.Mutex

	mu       sync.Mutex
	watchers map[WatchID]*watcher
	nextID   WatchID
	last     *Fix
}

type watcher struct {
	onFix func(Fix)
	onErr func(error)
	opts  Options

	mu      sync.Mutex
	stopped bool
	lastAt  time.Time
	timer   *time.Timer
}

func newFeed() *feed {
	return &feed{
		now:      time.Now,
		watchers: make(map[WatchID]*watcher),
	}
}

func (f *feed) WatchPosition(onFix func(Fix), onErr func(error), opts Options) (WatchID, error) {
	if f.available != nil {
		if err := f.available(); err != nil {
			return 0, err
		}
	}
	if onErr == nil {
		onErr = func(error) {}
	}
	w := &watcher{onFix: onFix, onErr: onErr, opts: opts}

	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.watchers[id] = w
	cached := f.cachedLocked(opts.MaximumAge)
	f.mu.Unlock()

	w.arm()
	if cached != nil {
		go w.deliver(*cached)
	}
	return id, nil
}

func (f *feed) ClearWatch(id WatchID) {
	f.mu.Lock()
	w, ok := f.watchers[id]
	delete(f.watchers, id)
	f.mu.Unlock()
	if ok {
		w.stop()
	}
}

func (f *feed) CurrentPosition(ctx context.Context, opts Options) (Fix, error) {
	f.mu.Lock()
	cached := f.cachedLocked(opts.MaximumAge)
	f.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	got := make(chan Fix, 1)
	id, err := f.WatchPosition(func(fx Fix) {
		select {
		case got <- fx:
		default:
		}
	}, nil, Options{EnableHighAccuracy: opts.EnableHighAccuracy})
	if err != nil {
		return Fix{}, err
	}
	defer f.ClearWatch(id)

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case fx := <-got:
		return fx, nil
	case <-t.C:
		return Fix{}, ErrTimeout
	case <-ctx.Done():
		return Fix{}, ctx.Err()
	}
}

// publish delivers a fix to every watch, one fix at a time.
func (f *feed) publish(fx Fix) {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()

	f.mu.Lock()
	if f.last == nil || !fx.At.Before(f.last.At) {
		cp := fx
		f.last = &cp
	}
	targets := f.snapshotLocked()
	f.mu.Unlock()

	for _, w := range targets {
		w.deliver(fx)
	}
}

// fail reports a recoverable error to every watch.
func (f *feed) fail(err error) {
	f.mu.Lock()
	targets := f.snapshotLocked()
	f.mu.Unlock()

	for _, w := range targets {
		w.report(err)
	}
}

func (f *feed) watchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

func (f *feed) snapshotLocked() []*watcher {
	out := make([]*watcher, 0, len(f.watchers))
	for _, w := range f.watchers {
		out = append(out, w)
	}
	return out
}

func (f *feed) cachedLocked(maxAge time.Duration) *Fix {
	if f.last == nil || maxAge <= 0 {
		return nil
	}
	if f.now().Sub(f.last.At) > maxAge {
		return nil
	}
	cp := *f.last
	return &cp
}

func (w *watcher) arm() {
	if w.opts.Timeout <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.timer = time.AfterFunc(w.opts.Timeout, w.expire)
}

func (w *watcher) expire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.timer = time.AfterFunc(w.opts.Timeout, w.expire)
	w.mu.Unlock()

	w.onErr(ErrTimeout)
}

func (w *watcher) deliver(fx Fix) {
	w.mu.Lock()
	if w.stopped || fx.At.Before(w.lastAt) {
		w.mu.Unlock()
		return
	}
	w.lastAt = fx.At
	if w.timer != nil {
		w.timer.Reset(w.opts.Timeout)
	}
	w.mu.Unlock()

	w.onFix(fx)
}

func (w *watcher) report(err error) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		w.onErr(err)
	}
}

func (w *watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
