package sim

import (
	"sync"

	"github.com/paoloo/pulse"
)

// Event is one recorded task execution.
type Event struct {
	Tick uint32
	ID   pulse.TaskID
}

const traceCap = 512

// Trace records task executions into a fixed ring, newest overwriting
// oldest. Storage is allocated once; Record never allocates, so task
// functions can call it freely.
type Trace struct {
	mu    sync.Mutex
	now   uint32
	total int
	ring  [traceCap]Event
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Advance moves the trace clock one tick forward and returns the new
// tick number. The driver calls it once per kernel tick.
func (tr *Trace) Advance() uint32 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.now++
	return tr.now
}

// Now returns the current trace tick.
func (tr *Trace) Now() uint32 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.now
}

// Record logs one execution of the given task at the current tick.
func (tr *Trace) Record(id pulse.TaskID) {
	tr.mu.Lock()
	tr.ring[tr.total%traceCap] = Event{Tick: tr.now, ID: id}
	tr.total++
	tr.mu.Unlock()
}

// Len returns the number of events recorded so far, including any the
// ring has already overwritten.
func (tr *Trace) Len() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.total
}

// Snapshot copies the most recent events into dst in chronological order
// and returns how many were copied.
func (tr *Trace) Snapshot(dst []Event) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	n := tr.total
	if n > traceCap {
		n = traceCap
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = tr.ring[(tr.total-n+i)%traceCap]
	}
	return n
}
