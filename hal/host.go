//go:build !baremetal

package hal

import (
	"fmt"
	"os"
	"sync"
)

type hostBoard struct {
	logger *hostLogger
	led    *hostLED
}

// New returns the host board: stdout logging and a virtual LED that
// reports its transitions through the logger.
func New() Board {
	logger := &hostLogger{w: os.Stdout}
	return &hostBoard{
		logger: logger,
		led:    &hostLED{logger: logger},
	}
}

func (b *hostBoard) Logger() Logger { return b.logger }
func (b *hostBoard) LED() LED       { return b.led }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}
