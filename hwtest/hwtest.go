// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing the bridge and
// simulated designs.
package hwtest

import (
	"github.com/db47h/hwbridge/input"
	"github.com/db47h/hwbridge/video"
)

// Phase records the inputs of a FakeDevice at the time Eval was called.
type Phase struct {
	Clock   bool
	Reset   bool
	Rx      bool
	Buttons input.Buttons
}

// FakeDevice is a device under test that records its inputs on every Eval and
// plays its video outputs from a Raster, one position per rising clock edge.
type FakeDevice struct {
	Phases []Phase
	Raster *Raster // optional video source
	Done   bool    // value returned by Finished

	clk, rst, rx bool
	btn          input.Buttons
	prevClk      bool
	out          video.Signals
}

// NewFakeDevice returns a FakeDevice with its serial line idle.
func NewFakeDevice(r *Raster) *FakeDevice {
	return &FakeDevice{Raster: r, rx: true}
}

// SetClock sets the clock input.
func (d *FakeDevice) SetClock(high bool) { d.clk = high }

// SetReset sets the reset input.
func (d *FakeDevice) SetReset(asserted bool) { d.rst = asserted }

// SetRx sets the serial receive input.
func (d *FakeDevice) SetRx(level bool) { d.rx = level }

// SetButtons sets the controller inputs.
func (d *FakeDevice) SetButtons(b input.Buttons) { d.btn = b }

// Eval records the current inputs and, on a rising clock edge, moves the
// raster to its next position.
func (d *FakeDevice) Eval() {
	d.Phases = append(d.Phases, Phase{Clock: d.clk, Reset: d.rst, Rx: d.rx, Buttons: d.btn})
	if d.clk && !d.prevClk && d.Raster != nil {
		d.out = d.Raster.Next()
	}
	d.prevClk = d.clk
}

// Video returns the current video outputs.
func (d *FakeDevice) Video() video.Signals { return d.out }

// Finished returns d.Done.
func (d *FakeDevice) Finished() bool { return d.Done }

// Rx returns the serial line level seen at each rising clock edge.
func (d *FakeDevice) Rx() []bool {
	var out []bool
	prev := false
	for _, p := range d.Phases {
		if p.Clock && !prev {
			out = append(out, p.Rx)
		}
		prev = p.Clock
	}
	return out
}
