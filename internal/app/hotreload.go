package app

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PlanWatcher watches a plan file and triggers a callback when it is
// rewritten by another program, so the session can offer to reload it.
type PlanWatcher struct {
	mu            sync.Mutex
	path          string
	baseline      time.Time
	checkInterval time.Duration
	running       bool
	stopCh        chan struct{}
	onChange      func(path string) // Called when a newer file is detected
}

// NewPlanWatcher creates a watcher for path. Returns nil if the file cannot
// be stat'ed.
func NewPlanWatcher(path string, checkInterval time.Duration) *PlanWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &PlanWatcher{
		path:          path,
		baseline:      info.ModTime(),
		checkInterval: checkInterval,
	}
}

// OnChange sets the callback to invoke when the file changes. The callback
// is called from a background goroutine.
func (w *PlanWatcher) OnChange(callback func(path string)) {
	w.onChange = callback
}

// Start begins watching in a background goroutine. Starting a running
// watcher does nothing.
func (w *PlanWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *PlanWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

// Running reports whether the watcher is polling.
func (w *PlanWatcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *PlanWatcher) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if w.checkForUpdate() && w.onChange != nil {
				// Only trigger once; ResetBaseline and Start to resume
				w.mu.Lock()
				if w.stopCh == stop {
					w.running = false
				}
				w.mu.Unlock()
				w.onChange(w.path)
				return
			}
		}
	}
}

// checkForUpdate returns true if the file has been modified since the
// baseline.
func (w *PlanWatcher) checkForUpdate() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return info.ModTime().After(w.baseline)
}

// Path returns the watched file.
func (w *PlanWatcher) Path() string {
	return w.path
}

// ResetBaseline takes the file's current modification time as the new
// baseline. Call it after saving the plan ourselves or after the user
// declines a reload.
func (w *PlanWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.mu.Lock()
		w.baseline = info.ModTime()
		w.mu.Unlock()
	}
}

// PlanFollower keeps one PlanWatcher on the plan the session last loaded or
// saved. When the file changes it asks through Prompt; a yes calls Reload.
// An answer that arrives after the follower moved to another plan is
// dropped.
type PlanFollower struct {
	mu       sync.Mutex
	watcher  *PlanWatcher
	interval time.Duration
	log      zerolog.Logger

	// Prompt asks whether to reload path and reports the choice through
	// answer. It is called from the watcher goroutine.
	Prompt func(path string, answer func(reload bool))
	// Reload reopens path.
	Reload func(path string)
}

// NewPlanFollower creates a follower polling every interval.
func NewPlanFollower(interval time.Duration, log zerolog.Logger) *PlanFollower {
	return &PlanFollower{interval: interval, log: log}
}

// Attach follows every plan s loads or saves.
func (f *PlanFollower) Attach(s *State) {
	follow := func(data interface{}) {
		if path, ok := data.(string); ok {
			f.Follow(path)
		}
	}
	s.On(EventPlanLoaded, follow)
	s.On(EventPlanSaved, follow)
}

// Follow watches path. Following the current path again only resets the
// baseline, so our own saves do not prompt.
func (f *PlanFollower) Follow(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watcher != nil && f.watcher.Path() == path {
		f.watcher.ResetBaseline()
		return
	}
	if f.watcher != nil {
		f.watcher.Stop()
		f.watcher = nil
	}
	w := NewPlanWatcher(path, f.interval)
	if w == nil {
		f.log.Debug().Str("path", path).Msg("plan watcher: cannot stat file")
		return
	}
	w.OnChange(func(path string) { f.changed(w, path) })
	f.watcher = w
	w.Start()
}

// Stop stops the current watcher.
func (f *PlanFollower) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		f.watcher.Stop()
		f.watcher = nil
	}
}

// Watcher returns the current watcher, or nil.
func (f *PlanFollower) Watcher() *PlanWatcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watcher
}

func (f *PlanFollower) current(w *PlanWatcher) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watcher == w
}

func (f *PlanFollower) changed(w *PlanWatcher, path string) {
	f.log.Info().Str("path", path).Msg("plan watcher: file changed on disk")
	if f.Prompt == nil {
		w.ResetBaseline()
		w.Start()
		return
	}
	f.Prompt(path, func(reload bool) {
		if !f.current(w) {
			f.log.Debug().Str("path", path).Msg("plan watcher: stale reload answer dropped")
			return
		}
		// Reload re-enters Follow through the session events; f.mu is not
		// held here.
		if reload && f.Reload != nil {
			f.Reload(path)
		} else {
			w.ResetBaseline()
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.watcher == w {
			w.Start()
		}
	})
}
