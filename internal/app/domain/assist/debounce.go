package assist

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of calls into one, and hands out monotonically
// increasing tokens so completions can detect that they have been
// superseded. Classic last-writer-wins: a response whose token is no longer
// the latest must be discarded, not applied.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	token uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules run after the quiet period, cancelling any previously
// scheduled run. run receives the token current at scheduling time.
func (d *Debouncer) Trigger(run func(token uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.token++
	token := d.token
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		run(token)
	})
	return token
}

// Cancel stops any pending run and advances the token, so an in-flight
// completion holding an older token can no longer pass Latest.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.token++
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Latest reports whether token is still the most recently issued one.
func (d *Debouncer) Latest(token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return token == d.token
}
