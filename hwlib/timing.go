// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwbridge/hwsim"
)

// CoordBits is the width of the beam position buses.
const CoordBits = 12

// Timing describes a raster scan. Each position of a
// (Width+HBlank)x(Height+VBlank) scan lasts Div clock cycles, Div being the
// pixel clock period. The display is enabled in the Width x Height area only.
type Timing struct {
	Width, Height  int
	HBlank, VBlank int
	Div            int
}

func (t Timing) div() int {
	if t.Div < 2 {
		return 2
	}
	return t.Div
}

// FrameCycles returns the number of clock cycles for a full scan.
func (t Timing) FrameCycles() int {
	return t.div() * (t.Width + t.HBlank) * (t.Height + t.VBlank)
}

type beam struct {
	pixClk, de bool
	x, y       int
}

func (t Timing) at(n int) beam {
	div := t.div()
	ht := t.Width + t.HBlank
	pos := n / div
	x, y := pos%ht, pos/ht
	return beam{
		pixClk: n%div < div/2,
		de:     x < t.Width && y < t.Height,
		x:      x,
		y:      y,
	}
}

// VideoTiming returns a raster timing generator. The pixel clock is high
// during the first half of each position. After reset is released, the first
// raising edge of the clock starts position (0, 0).
//
//	Inputs: rst
//	Outputs: pix_clk, de, sof, sx[12], sy[12]
//	Function: sof is high during position (0, 0).
func VideoTiming(t Timing) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "VIDEOTIMING",
		Inputs:  []string{pRst},
		Outputs: hwsim.IO("pix_clk, de, sof, sx[12], sy[12]"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			rst := s.Pin(pRst)
			pixClk, de, sof := s.Pin("pix_clk"), s.Pin("de"), s.Pin("sof")
			sx, sy := s.Bus("sx"), s.Bus("sy")
			total := t.FrameCycles()
			var (
				n       int
				started bool
			)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.Rising() {
					switch {
					case c.Get(rst):
						started = false
					case !started:
						n, started = 0, true
					default:
						n = (n + 1) % total
					}
				}
				var b beam
				if started {
					b = t.at(n)
				}
				c.Set(pixClk, b.pixClk)
				c.Set(de, b.de)
				c.Set(sof, started && b.x == 0 && b.y == 0)
				SetInt64(c, sx, int64(b.x))
				SetInt64(c, sy, int64(b.y))
			}}
		}}).NewPart
}
