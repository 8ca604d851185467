package sim

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Frame is an RGB565 pixel buffer sized like a small MCU display. It
// implements drivers.Displayer so the tinyfont renderer can draw on it,
// and converts to RGBA for presentation on the host.
type Frame struct {
	w, h int
	buf  []byte
}

var _ drivers.Displayer = (*Frame)(nil)

// NewFrame allocates a frame of the given size.
func NewFrame(w, h int) *Frame {
	return &Frame{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *Frame) Width() int  { return f.w }
func (f *Frame) Height() int { return f.h }

// Size implements drivers.Displayer.
func (f *Frame) Size() (x, y int16) {
	return int16(f.w), int16(f.h)
}

// SetPixel implements drivers.Displayer.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= f.w || iy < 0 || iy >= f.h {
		return
	}
	p := rgb565(c.R, c.G, c.B)
	off := (iy*f.w + ix) * 2
	f.buf[off] = byte(p)
	f.buf[off+1] = byte(p >> 8)
}

// Display implements drivers.Displayer. The frame has no panel behind
// it; presentation happens when the host copies the buffer out.
func (f *Frame) Display() error { return nil }

// Fill paints a rectangle, clipped to the frame.
func (f *Frame) Fill(x, y, w, h int, c color.RGBA) {
	p := rgb565(c.R, c.G, c.B)
	lo := byte(p)
	hi := byte(p >> 8)
	for yy := y; yy < y+h; yy++ {
		if yy < 0 || yy >= f.h {
			continue
		}
		for xx := x; xx < x+w; xx++ {
			if xx < 0 || xx >= f.w {
				continue
			}
			off := (yy*f.w + xx) * 2
			f.buf[off] = lo
			f.buf[off+1] = hi
		}
	}
}

// RGBA expands the RGB565 buffer into dst as 8-bit RGBA, one row after
// another. dst must hold w*h*4 bytes.
func (f *Frame) RGBA(dst []byte) {
	for i := 0; i+1 < len(f.buf) && i/2*4+3 < len(dst); i += 2 {
		r, g, b := rgb888From565(uint16(f.buf[i]) | uint16(f.buf[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
}

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}
