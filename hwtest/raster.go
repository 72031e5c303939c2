// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import "github.com/db47h/hwbridge/video"

// Raster is a reference video timing generator. Every call to Next moves it by
// one clock cycle. The pixel clock period is Div cycles, high for the first
// half of the period. Each period draws one position of a
// (Width+HBlank)x(Height+VBlank) scan, display enabled only inside the
// Width x Height area.
type Raster struct {
	Width, Height  int
	HBlank, VBlank int
	Div            int
	// Color returns the 4 bit channels for visible pixel (x, y). If nil, the
	// pixel color is derived from its coordinates.
	Color func(x, y int) (r, g, b uint8)

	n uint64
}

// FrameCycles returns the number of cycles for a full scan.
func (r *Raster) FrameCycles() int {
	return r.div() * (r.Width + r.HBlank) * (r.Height + r.VBlank)
}

func (r *Raster) div() int {
	if r.Div < 2 {
		return 2
	}
	return r.Div
}

// At returns the signals for the n-th cycle since the raster started.
func (r *Raster) At(n uint64) video.Signals {
	div := uint64(r.div())
	ht := uint64(r.Width + r.HBlank)
	vt := uint64(r.Height + r.VBlank)
	pos := n / div
	x, y := int(pos%ht), int((pos/ht)%vt)
	s := video.Signals{
		PixClk: n%div < div/2,
		DE:     x < r.Width && y < r.Height,
		X:      x,
		Y:      y,
	}
	if s.DE {
		s.R, s.G, s.B = r.color(x, y)
	}
	return s
}

func (r *Raster) color(x, y int) (uint8, uint8, uint8) {
	if r.Color != nil {
		return r.Color(x, y)
	}
	return uint8(x & 0xf), uint8(y & 0xf), uint8((x + y) & 0xf)
}

// Next returns the signals for the current cycle and moves to the next one.
func (r *Raster) Next() video.Signals {
	s := r.At(r.n)
	r.n++
	return s
}

// Reset moves the raster back to its first cycle.
func (r *Raster) Reset() { r.n = 0 }
