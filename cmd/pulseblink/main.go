// Command pulseblink is the canonical pulse application: a heartbeat LED
// plus a telemetry line over the board logger, driven by the blocking
// kernel run loop. It builds for the desktop host and, with TinyGo, for
// bare-metal boards; the hal package picks the board behind the same API.
package main

import (
	"github.com/paoloo/pulse"
	"github.com/paoloo/pulse/hal"
	"github.com/paoloo/pulse/internal/buildinfo"
	"github.com/paoloo/pulse/telemetry"
)

type health struct {
	Beats  uint32
	Uptime uint32 // ticks
}

func main() {
	board := hal.New()
	log := board.Logger()
	led := board.LED()

	log.WriteLineString("pulseblink " + buildinfo.Short())

	port := hal.NewPort()
	k := pulse.New(port, pulse.Config{})
	k.Init(100) // 100ms tick

	var shared telemetry.Snapshot[health]

	// Heartbeat: state is the LED level, flipped every 5 ticks.
	mustAdd(k, log, "heartbeat", 0, 5, func(s pulse.State) pulse.State {
		if s == 0 {
			led.High()
			shared.Update(func(h *health) { h.Beats++ })
			return 1
		}
		led.Low()
		return 0
	})

	mustAdd(k, log, "uptime", 0, 1, func(s pulse.State) pulse.State {
		shared.Update(func(h *health) { h.Uptime++ })
		return s
	})

	// Report every 50 ticks; state counts reports sent.
	mustAdd(k, log, "report", 0, 50, func(s pulse.State) pulse.State {
		h := shared.Read()
		log.WriteLineString("health: beats=" + utoa(h.Beats) + " uptime=" + utoa(h.Uptime) + " reports=" + utoa(uint32(s)))
		return s + 1
	})

	k.Start()
}

func mustAdd(k *pulse.Kernel, log hal.Logger, name string, initial pulse.State, period uint32, fn pulse.TaskFunc) {
	if _, err := k.AddTask(initial, period, fn); err != nil {
		log.WriteLineString("register " + name + ": " + err.Error())
		panic(err)
	}
}

// utoa formats without fmt so TinyGo builds stay small.
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
