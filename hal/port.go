package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickerPort implements the kernel port contract on any target with
// goroutines: a mutex stands in for interrupt masking and a time.Ticker
// delivers the periodic tick callback. It serves both the desktop host
// and TinyGo targets with a scheduler.
//
// The tick callback consequently runs on its own goroutine rather than in
// a true interrupt context; the mutex critical sections give it the same
// atomicity the kernel asks of a real port.
type TickerPort struct {
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewPort returns a goroutine-backed port.
func NewPort() *TickerPort {
	return &TickerPort{stop: make(chan struct{})}
}

func (p *TickerPort) EnterCritical() { p.mu.Lock() }
func (p *TickerPort) ExitCritical()  { p.mu.Unlock() }

// Interrupt masking collapses into the mutex here; the enable/disable
// pair exists to satisfy the port contract and is a no-op.
func (p *TickerPort) EnableInterrupts()  {}
func (p *TickerPort) DisableInterrupts() {}

// TimerInit starts a goroutine that invokes tick once per period until
// Stop is called. The kernel arms it exactly once, from Start.
func (p *TickerPort) TimerInit(periodMS uint32, tick func()) {
	if periodMS == 0 {
		periodMS = 1
	}
	go func() {
		t := time.NewTicker(time.Duration(periodMS) * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-t.C:
				tick()
			}
		}
	}()
}

// Idle sleeps out the remainder of the dispatch pass. It reports false
// once Stop has been called, which ends a blocking kernel Start loop.
func (p *TickerPort) Idle() bool {
	if p.stopped.Load() {
		return false
	}
	time.Sleep(time.Millisecond)
	return true
}

// Stop ends the timer and makes Idle report false. It is safe to call
// more than once and from any goroutine.
func (p *TickerPort) Stop() {
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.stop)
	})
}
