package engine

import (
	"hash/fnv"
	"math"
	"sync"
	"time"

	"inkboard/internal/geom"
)

// watcher is the change-detector loop. The host offers no notification when
// the viewport pans/zooms or when an attached element moves, so the watcher
// polls a cheap fingerprint at a fixed interval and invokes step with
// whether it moved. The per-tick cost is proportional to the number of
// attached strokes, not all strokes.
type watcher struct {
	interval    time.Duration
	fingerprint func() uint64
	step        func(changed bool)

	mu   sync.Mutex
	last uint64
	done chan struct{}
}

func newWatcher(interval time.Duration, fingerprint func() uint64, step func(changed bool)) *watcher {
	return &watcher{interval: interval, fingerprint: fingerprint, step: step}
}

// start begins polling. Disabled (interval <= 0) watchers still baseline the
// fingerprint so rebase/tick behave consistently.
func (w *watcher) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = w.fingerprint()
	if w.interval <= 0 || w.done != nil {
		return
	}
	w.done = make(chan struct{})
	go w.run(w.done)
}

// stop halts polling and releases the ticker. Idempotent.
func (w *watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return
	}
	close(w.done)
	w.done = nil
}

// rebase records fp as the current baseline so the next tick does not
// re-repaint work the caller already did.
func (w *watcher) rebase(fp uint64) {
	w.mu.Lock()
	w.last = fp
	w.mu.Unlock()
}

// tick is one poll: compare, update baseline, dispatch.
func (w *watcher) tick() {
	fp := w.fingerprint()
	w.mu.Lock()
	changed := fp != w.last
	w.last = fp
	w.mu.Unlock()
	w.step(changed)
}

func (w *watcher) run(done chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// fingerprint hashes the viewport triple plus {id: position} for the given
// referenced element ids, in order. The repository supplies the ids already
// deduplicated (Repository.AttachedNodeIDs), so a tick never walks the full
// stroke list.
func fingerprint(vp geom.Viewport, nodeIDs []string, positionOf func(string) (geom.Point, bool)) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	word := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	f := func(v float64) { word(math.Float64bits(v)) }

	f(vp.X)
	f(vp.Y)
	f(vp.Zoom)

	for _, id := range nodeIDs {
		h.Write([]byte(id))
		if positionOf != nil {
			if p, ok := positionOf(id); ok {
				f(p.X)
				f(p.Y)
				continue
			}
		}
		word(0)
	}
	return h.Sum64()
}
