//go:build !tinygo

package sim

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"tinygo.org/x/tinyfont"

	"github.com/paoloo/pulse"
	"github.com/paoloo/pulse/internal/buildinfo"
)

// Config controls a simulator run.
type Config struct {
	Title  string
	Names  []string      // task names indexed by task ID
	Status func() string // optional status line, polled every frame

	Headless bool
	Hz       int       // tick rate, headless mode
	Ticks    uint64    // headless: stop after N ticks (0 = run forever)
	Out      io.Writer // headless event log, default stdout
}

var (
	colorBG     = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorFG     = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorDim    = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	colorHeader = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xff}
	colorRun    = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
)

const (
	frameW     = 320
	laneLeft   = 72
	laneTop    = 28
	laneHeight = 18
	cellW      = 4
	tickWindow = 60 // most recent ticks shown
)

// Run drives the kernel one tick per step and presents the execution
// trace. Integration is manual: the simulator owns the timebase and the
// dispatch loop, calling Tick and Poll itself.
func Run(ctx context.Context, k *pulse.Kernel, tr *Trace, cfg Config) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Headless {
		return runHeadless(ctx, k, tr, cfg)
	}
	return runWindow(k, tr, cfg)
}

func runHeadless(ctx context.Context, k *pulse.Kernel, tr *Trace, cfg Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid sim hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	events := make([]Event, traceCap)
	var done uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			tick := tr.Advance()
			k.Tick()
			k.Poll()

			n := tr.Snapshot(events)
			for i := 0; i < n; i++ {
				e := events[i]
				if e.Tick != tick {
					continue
				}
				fmt.Fprintf(out, "tick %4d: task %d (%s)\n", e.Tick, e.ID, taskName(cfg.Names, e.ID))
			}

			done++
			if cfg.Ticks > 0 && done >= cfg.Ticks {
				return nil
			}
		}
	}
}

func runWindow(k *pulse.Kernel, tr *Trace, cfg Config) error {
	h := laneTop + k.TaskCount()*laneHeight + 20
	g := &game{
		k:      k,
		tr:     tr,
		cfg:    cfg,
		frame:  NewFrame(frameW, h),
		events: make([]Event, traceCap),
	}

	title := cfg.Title
	if title == "" {
		title = "pulse"
	}
	ebiten.SetWindowTitle(title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(frameW*2, h*2)
	ebiten.SetTPS(cfg.Hz)
	return ebiten.RunGame(g)
}

type game struct {
	k      *pulse.Kernel
	tr     *Trace
	cfg    Config
	frame  *Frame
	events []Event

	img *ebiten.Image
	pix []byte
}

func (g *game) Update() error {
	g.tr.Advance()
	g.k.Tick()
	g.k.Poll()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.render()

	if g.img == nil {
		g.img = ebiten.NewImage(g.frame.Width(), g.frame.Height())
		g.pix = make([]byte, g.frame.Width()*g.frame.Height()*4)
	}
	g.frame.RGBA(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.frame.Width(), g.frame.Height()
}

func (g *game) render() {
	f := g.frame
	now := g.tr.Now()

	f.Fill(0, 0, f.Width(), f.Height(), colorBG)
	f.Fill(0, 0, f.Width(), laneTop-8, colorHeader)

	font := &tinyfont.Org01
	header := fmt.Sprintf("pulse %s  tick %d  period %dms", buildinfo.Short(), now, g.k.TickPeriodMS())
	tinyfont.WriteLine(f, font, 4, 12, header, colorFG)

	n := g.tr.Snapshot(g.events)
	tasks := g.k.TaskCount()
	for id := 0; id < tasks; id++ {
		y := laneTop + id*laneHeight
		tinyfont.WriteLine(f, font, 4, int16(y+10), taskName(g.cfg.Names, pulse.TaskID(id)), colorFG)
		// Lane baseline for ticks with no execution.
		f.Fill(laneLeft, y+11, tickWindow*cellW, 1, colorDim)
	}

	for i := 0; i < n; i++ {
		e := g.events[i]
		if e.Tick+tickWindow <= now || int(e.ID) >= tasks {
			continue
		}
		x := laneLeft + int(tickWindow-1-(now-e.Tick))*cellW
		y := laneTop + int(e.ID)*laneHeight
		f.Fill(x, y+2, cellW-1, laneHeight-6, colorRun)
	}

	if g.cfg.Status != nil {
		tinyfont.WriteLine(f, font, 4, int16(f.Height()-6), g.cfg.Status(), colorDim)
	}
}

func taskName(names []string, id pulse.TaskID) string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("task%d", id)
}
