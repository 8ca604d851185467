//go:build baremetal

package hal

import "machine"

type tinyGoBoard struct {
	logger *uartLogger
	led    *pinLED
}

// New returns the bare-metal board: UART0 logging at 115200 8N1 and the
// on-board LED pin.
func New() Board {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &tinyGoBoard{
		logger: &uartLogger{uart: uart},
		led:    &pinLED{pin: ledPin},
	}
}

func (b *tinyGoBoard) Logger() Logger { return b.logger }
func (b *tinyGoBoard) LED() LED       { return b.led }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }
