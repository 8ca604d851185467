package pulse

// MaxTasks is the compile-time task capacity. The ready set is a single
// uint64 word, so the bound must stay at or below 64.
const MaxTasks = 16

// State is an opaque signed task state value. The kernel stores it between
// dispatches and never interprets it; only the owning task function does.
type State int32

// TaskFunc advances a task by one step: state in, next state out.
//
// A task function runs to completion in main context with nothing to
// preempt it, so it is expected to be bounded and non-blocking. It must
// not call back into kernel configuration operations.
type TaskFunc func(State) State

// TaskID identifies a registered task. IDs equal registration order and
// double as dispatch priority: lower runs first.
type TaskID uint8

// task is one slot of the kernel task table.
type task struct {
	running bool
	state   State
	period  uint32 // ticks, always > 0 for a registered task
	elapsed uint32 // ticks since the task last started running
	fn      TaskFunc
}

func taskBit(id TaskID) uint64 {
	return uint64(1) << uint64(id)
}
