// Package telemetry provides a seqlock-style snapshot for sharing a small
// record between producer tasks and a consumer that must never observe a
// torn update.
//
// Producer tasks on a pulse kernel run one at a time, so the single-writer
// requirement holds by construction; the sequence counter protects readers
// in other contexts (an interrupt handler, a goroutine draining a downlink)
// from catching a write mid-flight.
package telemetry

import "sync/atomic"

// Snapshot holds one value of type T behind a sequence counter. The
// counter is odd while a write is in progress and even when the value is
// stable; a reader retries until it sees the same even sequence on both
// sides of its copy.
type Snapshot[T any] struct {
	seq atomic.Uint32
	val T
}

// Update applies fn to the shared value as one write section.
func (s *Snapshot[T]) Update(fn func(*T)) {
	s.WriteBegin()
	fn(&s.val)
	s.WriteEnd()
}

// WriteBegin marks a write in progress. Writers that mutate the value
// directly must pair it with WriteEnd; Update does both.
func (s *Snapshot[T]) WriteBegin() { s.seq.Add(1) }

// WriteEnd marks the write complete.
func (s *Snapshot[T]) WriteEnd() { s.seq.Add(1) }

// Read returns a consistent copy of the value, retrying while a write is
// in progress or completes mid-copy. With a bounded writer it completes
// in a bounded number of attempts.
func (s *Snapshot[T]) Read() T {
	for {
		s0 := s.seq.Load()
		if s0&1 != 0 {
			continue
		}
		v := s.val
		if s.seq.Load() == s0 {
			return v
		}
	}
}

// Seq returns the current sequence number. Even means stable; the value
// increases by two per completed write.
func (s *Snapshot[T]) Seq() uint32 { return s.seq.Load() }
