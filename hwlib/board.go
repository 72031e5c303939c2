// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwbridge/hwsim"
	"github.com/db47h/hwbridge/input"
	"github.com/db47h/hwbridge/video"
	"github.com/pkg/errors"
)

// BoardConfig configures a Board.
type BoardConfig struct {
	Timing
	// Serial bit duration in clock cycles.
	BitCycles int
	// Simulation worker goroutines, see hwsim.NewCircuit.
	Workers int
}

// Board is a test card design wired the way the bridge expects a device under
// test: active low reset, a serial receive line for player 2, button inputs for
// player 1 and 4 bit per channel video outputs.
//
// The serial line goes through a two flip-flop synchronizer before reaching the
// receiver.
type Board struct {
	c       *hwsim.Circuit
	timing  Timing
	rstN    bool
	rx      bool
	buttons input.Buttons

	pixClk, de int
	sx, sy     []int
	r, g, b    []int
	count      []int
}

// NewBoard builds a new Board. The board starts in reset with its serial line
// idle.
func NewBoard(cfg BoardConfig) (*Board, error) {
	t := cfg.Timing
	if t.Width < 1 || t.Height < 1 || t.HBlank < 0 || t.VBlank < 0 {
		return nil, errors.Errorf("invalid raster %dx%d (blanking %d, %d)", t.Width, t.Height, t.HBlank, t.VBlank)
	}
	if lim := 1 << CoordBits; t.Width+t.HBlank > lim || t.Height+t.VBlank > lim {
		return nil, errors.Errorf("raster %dx%d does not fit in %d bit coordinates", t.Width+t.HBlank, t.Height+t.VBlank, CoordBits)
	}
	bd := &Board{timing: t, rx: true}
	c, err := hwsim.NewCircuit(cfg.Workers,
		Input(func() bool { return bd.rstN })("out=rst_n"),
		Input(func() bool { return bd.rx })("out=rx"),
		InputN(5, func() int64 { return int64(bd.buttons) })("out=p1"),
		Not("in=rst_n, out=rst"),
		DFF("in=rx, out=rx_meta"),
		DFF("in=rx_meta, out=rx_sync"),
		UARTRx(cfg.BitCycles)("rx=rx_sync, rst=rst, data=p2, valid=p2_valid"),
		// receive counter: p2_count + p2_valid, cleared by rst
		AdderN(16)("a=p2_count, b=false, cin=p2_valid, out=p2_inc"),
		MuxN(16)("a=p2_inc, b=false, sel=rst, out=p2_next"),
		Register(16)("in=p2_next, out=p2_count"),
		VideoTiming(t)("rst=rst, pix_clk=pix_clk, de=de, sof=sof, sx=sx, sy=sy"),
		TestCard(t)("rst=rst, sof=sof, de=de, sx=sx, sy=sy, p1=p1, p2=p2, r=r, g=g, b=b"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build test card")
	}
	bd.c = c
	bd.pixClk, _ = c.Wire("pix_clk")
	bd.de, _ = c.Wire("de")
	bd.sx, bd.sy = c.Bus("sx"), c.Bus("sy")
	bd.r, bd.g, bd.b = c.Bus("r"), c.Bus("g"), c.Bus("b")
	bd.count = c.Bus("p2_count")
	return bd, nil
}

// Timing returns the board's raster timing.
func (bd *Board) Timing() Timing { return bd.timing }

// Circuit returns the underlying circuit.
func (bd *Board) Circuit() *hwsim.Circuit { return bd.c }

// SetClock sets the clock input.
func (bd *Board) SetClock(high bool) { bd.c.SetClock(high) }

// SetReset asserts or releases reset.
func (bd *Board) SetReset(asserted bool) { bd.rstN = !asserted }

// SetRx sets the serial receive line.
func (bd *Board) SetRx(level bool) { bd.rx = level }

// SetButtons sets player 1's buttons.
func (bd *Board) SetButtons(b input.Buttons) { bd.buttons = b }

// Eval evaluates the design.
func (bd *Board) Eval() { bd.c.Eval() }

// Video returns the video outputs.
func (bd *Board) Video() video.Signals {
	c := bd.c
	return video.Signals{
		PixClk: c.Get(bd.pixClk),
		DE:     c.Get(bd.de),
		X:      int(Int64(c, bd.sx)),
		Y:      int(Int64(c, bd.sy)),
		R:      uint8(Int64(c, bd.r)),
		G:      uint8(Int64(c, bd.g)),
		B:      uint8(Int64(c, bd.b)),
	}
}

// Received returns the number of bytes received on the serial line since
// reset was last released, modulo 2^16.
func (bd *Board) Received() int { return int(Int64(bd.c, bd.count)) }

// Close releases the resources held by the simulation.
func (bd *Board) Close() error {
	bd.c.Dispose()
	return nil
}
