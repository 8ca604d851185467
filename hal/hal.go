// Package hal supplies platform ports and minimal board peripherals for
// the pulse kernel: critical sections, the periodic tick timer, the idle
// hook, a line logger, and an LED for heartbeat demos. Build tags select
// the host or TinyGo implementation behind the same surface.
package hal

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

// Board bundles the peripherals a demo application uses alongside the
// kernel port.
type Board interface {
	Logger() Logger
	LED() LED
}
