package analysis

import (
	"context"
	"sync"
	"time"
)

// Dispatcher serializes async solver calls per logical target (e.g.
// "analyze", "diagrams:el-3"). Each submission gets a monotonic token;
// a response is applied only while its token is still the latest for
// its target, so out-of-order arrivals can never clobber newer results.
// Submissions are debounced: rapid re-triggers collapse into one call
// once the target has been quiet for the configured window.
type Dispatcher struct {
	delay time.Duration

	mu     sync.Mutex
	seq    map[string]uint64
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

func NewDispatcher(delay time.Duration) *Dispatcher {
	return &Dispatcher{
		delay:  delay,
		seq:    map[string]uint64{},
		timers: map[string]*time.Timer{},
	}
}

// Submit schedules run for the target. run executes on its own
// goroutine after the debounce window; apply fires on the same
// goroutine afterwards, and only if no newer submission for the target
// happened in the meantime. A run error skips apply.
func Submit[T any](d *Dispatcher, target string, run func(context.Context) (T, error), apply func(T, error)) {
	d.mu.Lock()
	d.seq[target]++
	token := d.seq[target]
	if t, ok := d.timers[target]; ok && t.Stop() {
		// The superseded run will never fire; settle its Wait slot.
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timers[target] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		if !d.isCurrent(target, token) {
			return
		}
		v, err := run(context.Background())
		if !d.isCurrent(target, token) {
			// A newer request took over while this one was in flight.
			return
		}
		apply(v, err)
	})
	d.mu.Unlock()
}

func (d *Dispatcher) isCurrent(target string, token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq[target] == token
}

// Invalidate marks every in-flight request for the target stale.
func (d *Dispatcher) Invalidate(target string) {
	d.mu.Lock()
	d.seq[target]++
	if t, ok := d.timers[target]; ok {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, target)
	}
	d.mu.Unlock()
}

// Wait blocks until every scheduled submission has resolved or been
// superseded. Test hook and shutdown aid.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
