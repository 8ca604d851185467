// Package pulse implements a tiny cooperative scheduler for periodic tasks.
//
// A kernel holds a fixed-capacity task table and splits scheduling into
// two phases. Interrupt-context bookkeeping (Tick) advances per-task
// elapsed counters and marks due tasks in a ready bitmask. Main-context
// dispatch (Poll) drains the mask in ascending task-ID order, running each
// ready task to completion. Registration order fixes priority: lower IDs
// run first, and tasks cannot be removed or reprioritized after startup.
//
// Platform specifics (critical sections, interrupt control, the periodic
// timer, the idle hook) come from an injected Port. Passing a nil Port
// selects no-op primitives so a caller can instead invoke Tick from its
// own timer handler and Poll from its own loop; both integration styles
// behave the same.
package pulse
