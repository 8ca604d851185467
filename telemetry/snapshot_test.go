package telemetry

import (
	"testing"

	"github.com/paoloo/pulse"
)

type downlink struct {
	Tick   uint32
	TempC  int16
	VBatMV uint16
}

// TestPipelineOrderAndValues wires the classic downlink pipeline on a
// kernel: two producer tasks update the shared record, a transmit task
// snapshots it. Priority follows registration order, so each tick the
// transmitter sees both producers' updates for that tick.
func TestPipelineOrderAndValues(t *testing.T) {
	k := pulse.New(nil, pulse.Config{DeferFirstRun: true})

	var (
		shared Snapshot[downlink]
		now    uint32
		kinds  []string
		snaps  []downlink
	)

	sensor := func(s pulse.State) pulse.State {
		shared.Update(func(d *downlink) {
			d.Tick = now
			d.TempC += 10
		})
		kinds = append(kinds, "sensor")
		return s
	}
	battery := func(s pulse.State) pulse.State {
		shared.Update(func(d *downlink) {
			d.Tick = now
			d.VBatMV += 100
		})
		kinds = append(kinds, "battery")
		return s
	}
	tx := func(s pulse.State) pulse.State {
		kinds = append(kinds, "tx")
		snaps = append(snaps, shared.Read())
		return s
	}

	for _, fn := range []pulse.TaskFunc{sensor, battery, tx} {
		if _, err := k.AddTask(0, 1, fn); err != nil {
			t.Fatal(err)
		}
	}

	for i := uint32(1); i <= 3; i++ {
		now = i
		k.Tick()
		k.Poll()
	}

	want := []string{
		"sensor", "battery", "tx",
		"sensor", "battery", "tx",
		"sensor", "battery", "tx",
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d is %q, want %q", i, kinds[i], want[i])
		}
	}

	for i, snap := range snaps {
		tick := uint32(i + 1)
		if snap.Tick != tick {
			t.Fatalf("snapshot %d carries tick %d, want %d", i, snap.Tick, tick)
		}
		if snap.TempC != int16(tick)*10 {
			t.Fatalf("snapshot %d temp %d, want %d", i, snap.TempC, int16(tick)*10)
		}
		if snap.VBatMV != uint16(tick)*100 {
			t.Fatalf("snapshot %d vbat %d, want %d", i, snap.VBatMV, uint16(tick)*100)
		}
	}

	if shared.Seq() != 12 {
		t.Fatalf("sequence %d after 6 writes, want 12", shared.Seq())
	}
}

type pair struct {
	A, B uint64
}

// TestReadNeverTorn hammers a snapshot from a concurrent writer that keeps
// A == B; any torn read would break the invariant.
func TestReadNeverTorn(t *testing.T) {
	var s Snapshot[pair]

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100000; i++ {
			s.Update(func(p *pair) {
				p.A++
				p.B++
			})
		}
	}()

	for i := 0; i < 100000; i++ {
		p := s.Read()
		if p.A != p.B {
			t.Fatalf("torn read: A=%d B=%d", p.A, p.B)
		}
	}
	<-done

	final := s.Read()
	if final.A != 100000 || final.B != 100000 {
		t.Fatalf("final value %+v, want A=B=100000", final)
	}
}

func TestWriteBeginEndPair(t *testing.T) {
	var s Snapshot[downlink]

	s.WriteBegin()
	if s.Seq()&1 == 0 {
		t.Fatal("sequence even during write")
	}
	s.WriteEnd()
	if s.Seq()&1 != 0 {
		t.Fatal("sequence odd after write")
	}
}
