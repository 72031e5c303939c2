// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwbridge/hwsim"
	"github.com/db47h/hwbridge/input"
)

// Sprite returns the size of the player squares drawn by TestCard on a raster
// of the given timing.
func (t Timing) Sprite() int {
	s := t.Width
	if t.Height < s {
		s = t.Height
	}
	s /= 16
	if s < 1 {
		s = 1
	}
	return s
}

type player struct {
	x, y    int
	buttons input.Buttons
}

func (p *player) move(t Timing, speed int) {
	b := p.buttons
	switch {
	case b.Has(input.Up):
		p.y -= speed
	case b.Has(input.Down):
		p.y += speed
	}
	switch {
	case b.Has(input.Left):
		p.x -= speed
	case b.Has(input.Right):
		p.x += speed
	}
	size := t.Sprite()
	p.x = clamp(p.x, 0, t.Width-size)
	p.y = clamp(p.y, 0, t.Height-size)
}

func (p *player) covers(x, y, size int) bool {
	return x >= p.x && x < p.x+size && y >= p.y && y < p.y+size
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// TestCard returns a pixel generator drawing a checkerboard and two player
// squares. Player 1 is controlled by the p1 bus, player 2 by the p2 bus.
// Players move once per frame, when sof goes high. The action button changes
// a player's color.
//
//	Inputs: rst, sof, de, sx[12], sy[12], p1[5], p2[8]
//	Outputs: r[4], g[4], b[4]
func TestCard(t Timing) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "TESTCARD",
		Inputs:  hwsim.IO("rst, sof, de, sx[12], sy[12], p1[5], p2[8]"),
		Outputs: hwsim.IO("r[4], g[4], b[4]"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			rst, sof, de := s.Pin(pRst), s.Pin("sof"), s.Pin("de")
			sx, sy := s.Bus("sx"), s.Bus("sy")
			p1, p2 := s.Bus("p1"), s.Bus("p2")
			r, g, b := s.Bus("r"), s.Bus("g"), s.Bus("b")
			size := t.Sprite()
			speed := (size + 3) / 4
			home := func() (player, player) {
				y := (t.Height - size) / 2
				return player{x: t.Width / 4, y: y}, player{x: t.Width*3/4 - size, y: y}
			}
			one, two := home()
			var prevSOF bool
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.Rising() {
					start := c.Get(sof)
					switch {
					case c.Get(rst):
						one, two = home()
					case start && !prevSOF:
						one.buttons = input.Buttons(Int64(c, p1))
						two.buttons = input.Buttons(Int64(c, p2) & 0x1f)
						one.move(t, speed)
						two.move(t, speed)
					}
					prevSOF = start
				}
				var cr, cg, cb int64
				if c.Get(de) {
					x, y := int(Int64(c, sx)), int(Int64(c, sy))
					switch {
					case one.covers(x, y, size):
						cr, cg, cb = 15, 3, 3
						if one.buttons.Has(input.Action) {
							cg = 15
						}
					case two.covers(x, y, size):
						cr, cg, cb = 3, 3, 15
						if two.buttons.Has(input.Action) {
							cg = 15
						}
					case (x/size+y/size)&1 == 0:
						cr, cg, cb = 2, 6, 2
					default:
						cr, cg, cb = 1, 4, 1
					}
				}
				SetInt64(c, r, cr)
				SetInt64(c, g, cg)
				SetInt64(c, b, cb)
			}}
		}}).NewPart
}
