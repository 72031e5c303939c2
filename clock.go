// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbridge

// Clock drives a Device through whole clock cycles.
//
// Each cycle, the serial line level is taken from the LineSource and presented
// to the device, then the device is evaluated with its clock low, then high.
// The Sampler sees the device outputs as they stand after the high phase.
// Inputs do not change between the two phases of a cycle.
type Clock struct {
	dev     Device
	line    LineSource
	sampler Sampler

	time   uint64
	cycles uint64
}

// NewClock returns a new Clock. line and sampler may be nil.
func NewClock(dev Device, line LineSource, sampler Sampler) *Clock {
	return &Clock{dev: dev, line: line, sampler: sampler}
}

// RunCycles runs exactly n clock cycles.
func (c *Clock) RunCycles(n int) {
	dev := c.dev
	for i := 0; i < n; i++ {
		if c.line != nil {
			dev.SetRx(c.line.Step())
		}

		dev.SetClock(false)
		dev.Eval()
		c.time++

		dev.SetClock(true)
		dev.Eval()
		c.time++

		if c.sampler != nil {
			c.sampler.Sample(dev.Video())
		}
		c.cycles++
	}
}

// Time returns the simulated time: the number of phase evaluations so far.
func (c *Clock) Time() uint64 { return c.time }

// Cycles returns the number of completed clock cycles.
func (c *Clock) Cycles() uint64 { return c.cycles }
