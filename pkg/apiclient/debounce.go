package apiclient

import (
	"sync"
	"time"
)

// DefaultDebounce is tuned for search-as-you-type against the listing
// endpoints.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer coalesces rapid calls: only the last function handed to Do
// runs, after the delay with no further calls. Zero or negative delay
// falls back to DefaultDebounce.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn, replacing any previously scheduled call. fn runs on
// a timer goroutine.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
