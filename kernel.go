package pulse

import (
	"errors"
	"math"
	"math/bits"
)

// Registration errors. Any of these indicates a configuration defect to
// fix before deployment, not a transient condition to retry.
var (
	ErrInvalidPeriod    = errors.New("pulse: task period must be > 0")
	ErrNilTask          = errors.New("pulse: nil task function")
	ErrCapacityExceeded = errors.New("pulse: task table full")
)

// Port supplies the platform services the kernel depends on.
//
// EnterCritical and ExitCritical guard the ready set and per-task
// bookkeeping fields; on bare metal they typically mask and unmask
// interrupts. TimerInit arms a periodic timer that invokes tick once per
// period. Idle is called by Start between dispatch passes; returning
// false exits the loop, which hosted callers use to bound a run.
type Port interface {
	EnterCritical()
	ExitCritical()
	EnableInterrupts()
	DisableInterrupts()
	TimerInit(periodMS uint32, tick func())
	Idle() bool
}

// nopPort backs manual integration: the caller owns the timer and the
// dispatch loop, so every primitive collapses to a no-op and Idle ends a
// Start loop immediately.
type nopPort struct{}

func (nopPort) EnterCritical()           {}
func (nopPort) ExitCritical()            {}
func (nopPort) EnableInterrupts()        {}
func (nopPort) DisableInterrupts()       {}
func (nopPort) TimerInit(uint32, func()) {}
func (nopPort) Idle() bool               { return false }

// Config fixes kernel-wide scheduling policies. Policies are chosen once
// per kernel; the zero value matches the original defaults: nil task
// functions are rejected, a new task is ready immediately, and elapsed
// counters saturate instead of wrapping.
type Config struct {
	// AllowNilTask disables the nil-function registration guard. A nil
	// task is still never invoked; its dispatch only resets timing.
	AllowNilTask bool

	// DeferFirstRun makes a newly registered task wait one full period
	// before its first dispatch instead of being released immediately.
	DeferFirstRun bool

	// WrapElapsed lets elapsed counters overflow naturally instead of
	// saturating at the maximum value. Callers must then not rely on
	// unbounded linear growth across the wrap boundary.
	WrapElapsed bool
}

// Kernel is one scheduler instance: a fixed task table, the ready
// bitmask, and the tick timebase. All storage lives in the struct and no
// allocation happens after New, so Tick is safe in interrupt context.
type Kernel struct {
	port Port
	cfg  Config

	tasks     [MaxTasks]task
	taskCount uint8

	// ready has bit i set when task i is eligible to run. Tick sets
	// bits, Poll clears them; every read-modify-write of the mask and
	// the per-task fields happens inside the port critical section.
	ready uint64

	started bool
	tickMS  uint32
}

// New returns an initialized kernel with a 1ms tick period. A nil port
// selects no-op platform primitives for manual integration.
func New(port Port, cfg Config) *Kernel {
	if port == nil {
		port = nopPort{}
	}
	k := &Kernel{port: port, cfg: cfg}
	k.Init(1)
	return k
}

// Init resets the kernel: it empties the task table, clears the ready set
// and the started flag, and stores the tick period, clamped to at least
// 1ms. Registration happens after Init and before Start; Init again is
// the only way to discard registered tasks.
func (k *Kernel) Init(tickMS uint32) {
	if tickMS == 0 {
		tickMS = 1
	}

	k.port.EnterCritical()
	k.taskCount = 0
	k.started = false
	k.tickMS = tickMS
	k.ready = 0
	for i := range k.tasks {
		k.tasks[i] = task{}
	}
	k.port.ExitCritical()
}

// AddTask appends a task with the given initial state, period in ticks,
// and step function, and returns its ID. Registration order fixes
// dispatch priority; there is no removal or modification afterwards.
//
// Under the immediate-ready policy the task is released at registration
// time, so a Poll before the first Tick already runs it once.
func (k *Kernel) AddTask(initial State, periodTicks uint32, fn TaskFunc) (TaskID, error) {
	if periodTicks == 0 {
		return 0, ErrInvalidPeriod
	}
	if fn == nil && !k.cfg.AllowNilTask {
		return 0, ErrNilTask
	}

	k.port.EnterCritical()
	if int(k.taskCount) >= MaxTasks {
		k.port.ExitCritical()
		return 0, ErrCapacityExceeded
	}

	id := TaskID(k.taskCount)
	t := &k.tasks[id]
	t.running = false
	t.state = initial
	t.period = periodTicks
	t.fn = fn
	if k.cfg.DeferFirstRun {
		t.elapsed = 0
	} else {
		// Seed a full period so the task releases without waiting for
		// the timer.
		t.elapsed = periodTicks
		k.ready |= taskBit(id)
	}
	k.taskCount++
	k.port.ExitCritical()

	return id, nil
}

// Tick performs one period of bookkeeping. It is the only kernel entry
// point meant for interrupt context: it touches counters and the ready
// set, never invokes a task function, never allocates, and runs in time
// bounded by the registered task count.
func (k *Kernel) Tick() {
	n := k.taskCount
	for i := TaskID(0); i < TaskID(n); i++ {
		t := &k.tasks[i]

		k.port.EnterCritical()
		if k.cfg.WrapElapsed || t.elapsed < math.MaxUint32 {
			t.elapsed++
		}
		// elapsed is not reset here; that happens when the task starts
		// running, so a delayed poll cannot lose a release.
		if t.elapsed >= t.period && !t.running {
			k.ready |= taskBit(i)
		}
		k.port.ExitCritical()
	}
}

// Poll dispatches every task that was ready when the pass began, once
// each, in ascending ID order, then returns without blocking. Tasks
// released mid-pass by a concurrent Tick wait for the next Poll, and
// releases that piled up while polling was delayed are not queued: a
// task runs at most once per pass, with no catch-up executions.
func (k *Kernel) Poll() {
	k.port.EnterCritical()
	pending := k.ready
	k.port.ExitCritical()

	for pending != 0 {
		id := TaskID(bits.TrailingZeros64(pending))
		bit := taskBit(id)
		pending &^= bit

		// Claim the task in one critical section so a concurrent Tick
		// cannot re-release it between the read and the clear.
		k.port.EnterCritical()
		run := k.ready&bit != 0
		if run {
			k.ready &^= bit
			k.tasks[id].running = true
			k.tasks[id].elapsed = 0
		}
		k.port.ExitCritical()
		if !run {
			continue
		}

		t := &k.tasks[id]
		if t.fn != nil {
			t.state = t.fn(t.state)
		}

		k.port.EnterCritical()
		t.running = false
		k.port.ExitCritical()
	}
}

// Start runs the blocking convenience loop: it arms the port timer at the
// configured tick period with Tick as the callback, enables interrupts,
// then alternates Poll with the port idle hook until the hook reports
// false.
//
// Calling Start on an already started kernel does not restart it; the
// call parks in an idle-only loop instead. That asymmetry is inherited
// from the original kernel and kept as is.
func (k *Kernel) Start() {
	k.port.EnterCritical()
	if k.started {
		k.port.ExitCritical()
		for k.port.Idle() {
		}
		return
	}
	k.started = true
	k.port.ExitCritical()

	k.port.TimerInit(k.tickMS, k.Tick)
	k.port.EnableInterrupts()

	for {
		k.Poll()
		if !k.port.Idle() {
			return
		}
	}
}

// Started reports whether Start has armed the kernel.
func (k *Kernel) Started() bool {
	k.port.EnterCritical()
	s := k.started
	k.port.ExitCritical()
	return s
}

// TickPeriodMS returns the configured tick period in milliseconds.
func (k *Kernel) TickPeriodMS() uint32 {
	return k.tickMS
}

// TaskCount returns the number of registered tasks.
func (k *Kernel) TaskCount() int {
	k.port.EnterCritical()
	n := int(k.taskCount)
	k.port.ExitCritical()
	return n
}
