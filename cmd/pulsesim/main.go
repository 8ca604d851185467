//go:build !tinygo

// Command pulsesim runs a pulse kernel on the desktop and visualizes the
// dispatch trace: one lane per task, one cell per tick. The demo workload
// is the classic telemetry pipeline (sensor, battery, transmit over a
// seqlock snapshot).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/paoloo/pulse"
	"github.com/paoloo/pulse/sim"
	"github.com/paoloo/pulse/telemetry"
)

type downlink struct {
	Tick   uint32
	TempC  int16
	VBatMV uint16
}

func main() {
	var cfg sim.Config
	flag.BoolVar(&cfg.Headless, "headless", false, "Run without a window, logging executions.")
	flag.IntVar(&cfg.Hz, "hz", 20, "Tick rate.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.Parse()

	k := pulse.New(nil, pulse.Config{})
	tr := sim.NewTrace()

	var shared telemetry.Snapshot[downlink]
	var last downlink

	tasks := []struct {
		name   string
		period uint32
		fn     func(id pulse.TaskID) pulse.TaskFunc
	}{
		{name: "sensor", period: 2, fn: func(id pulse.TaskID) pulse.TaskFunc {
			return func(s pulse.State) pulse.State {
				tr.Record(id)
				shared.Update(func(d *downlink) {
					d.Tick = tr.Now()
					d.TempC = 200 + int16(s%80)
				})
				return s + 1
			}
		}},
		{name: "battery", period: 5, fn: func(id pulse.TaskID) pulse.TaskFunc {
			return func(s pulse.State) pulse.State {
				tr.Record(id)
				shared.Update(func(d *downlink) {
					d.Tick = tr.Now()
					d.VBatMV = 3300 - uint16(s%200)
				})
				return s + 1
			}
		}},
		{name: "transmit", period: 4, fn: func(id pulse.TaskID) pulse.TaskFunc {
			return func(s pulse.State) pulse.State {
				tr.Record(id)
				last = shared.Read()
				return s + 1
			}
		}},
		{name: "blink", period: 10, fn: func(id pulse.TaskID) pulse.TaskFunc {
			return func(s pulse.State) pulse.State {
				tr.Record(id)
				if s == 0 {
					return 1
				}
				return 0
			}
		}},
	}

	cfg.Title = "pulse sim"
	for _, task := range tasks {
		cfg.Names = append(cfg.Names, task.name)
	}
	cfg.Status = func() string {
		return fmt.Sprintf("downlink: tick=%d temp=%d.%d vbat=%dmV",
			last.Tick, last.TempC/10, last.TempC%10, last.VBatMV)
	}

	for i, task := range tasks {
		id, err := k.AddTask(0, task.period, task.fn(pulse.TaskID(i)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "register %s: %v\n", task.name, err)
			os.Exit(1)
		}
		if int(id) != i {
			fmt.Fprintf(os.Stderr, "register %s: got id %d, want %d\n", task.name, id, i)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := sim.Run(ctx, k, tr, cfg); err != nil {
		if err == context.Canceled {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
