// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package video rebuilds raster images from the pixel level video output of a
// simulated design.
package video

import (
	"image"
	"image/color"
)

// ChannelScale expands a 4 bit color channel to 8 bits: 0 maps to 0 and 15 to
// 255.
const ChannelScale = 17

// Signals is the state of a design's video outputs at a given time.
type Signals struct {
	PixClk bool  // pixel clock
	DE     bool  // display enabled
	X, Y   int   // beam position
	R      uint8 // 4 bit red channel
	G      uint8 // 4 bit green channel
	B      uint8 // 4 bit blue channel
}

// Expand4 converts a 4 bit channel value to 8 bits. Only the 4 low bits of v
// are used.
func Expand4(v uint8) uint8 {
	return (v & 0x0f) * ChannelScale
}

// An Assembler samples video signals once per clock cycle and writes a pixel
// on every rising edge of the pixel clock while the display is enabled.
//
// The framebuffer is never cleared: each written pixel stays until the design
// draws it again. This is fine for designs that redraw the whole raster every
// frame. Others need to clear or double buffer the images returned by
// TakeFrame.
type Assembler struct {
	fb     *image.RGBA
	prev   bool
	ready  bool
	frames uint64
	pixels uint64
}

// NewAssembler returns a new Assembler for a raster of the given size.
func NewAssembler(width, height int) *Assembler {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Assembler{
		fb: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Bounds returns the framebuffer bounds.
func (a *Assembler) Bounds() image.Rectangle { return a.fb.Rect }

// Sample processes the video signals for one clock cycle.
func (a *Assembler) Sample(s Signals) {
	rising := s.PixClk && !a.prev
	a.prev = s.PixClk
	if !rising || !s.DE {
		return
	}
	if !(image.Point{s.X, s.Y}.In(a.fb.Rect)) {
		return
	}
	i := a.fb.PixOffset(s.X, s.Y)
	p := a.fb.Pix[i : i+4 : i+4]
	p[0] = Expand4(s.R)
	p[1] = Expand4(s.G)
	p[2] = Expand4(s.B)
	p[3] = 0xff
	a.pixels++

	if s.X == a.fb.Rect.Max.X-1 && s.Y == a.fb.Rect.Max.Y-1 {
		a.ready = true
		a.frames++
	}
}

// TakeFrame returns the framebuffer and whether a full frame has been drawn
// since the last call. Only the frame ready flag is cleared.
//
// The returned image is the live framebuffer. It must be treated as read only
// and not retained across calls to Sample.
func (a *Assembler) TakeFrame() (*image.RGBA, bool) {
	r := a.ready
	a.ready = false
	return a.fb, r
}

// Ready returns the frame ready flag without clearing it.
func (a *Assembler) Ready() bool { return a.ready }

// Frames returns the number of frames completed so far.
func (a *Assembler) Frames() uint64 { return a.frames }

// Pixels returns the number of pixels written so far.
func (a *Assembler) Pixels() uint64 { return a.pixels }

// At returns the color of the framebuffer pixel at (x, y).
func (a *Assembler) At(x, y int) color.RGBA {
	return a.fb.RGBAAt(x, y)
}
