// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

// LineDecoder decodes an 8-N-1 serial line sampled once per clock cycle. A
// frame starts on a high to low transition; each bit is sampled in the middle
// of its window.
type LineDecoder struct {
	BitCycles int

	Bytes  []byte // decoded bytes
	Errors int    // frames with a bad start or stop bit

	busy bool
	prev bool
	n    int
	b    byte
}

// NewLineDecoder returns a LineDecoder for a line holding each bit for
// bitCycles cycles. The line is assumed idle (high).
func NewLineDecoder(bitCycles int) *LineDecoder {
	if bitCycles < 1 {
		bitCycles = 1
	}
	return &LineDecoder{BitCycles: bitCycles, prev: true}
}

// Sample feeds the line level for one cycle. It returns the decoded byte and
// true when a valid stop bit has just been sampled.
func (d *LineDecoder) Sample(level bool) (byte, bool) {
	defer func() { d.prev = level }()
	if !d.busy {
		if d.prev && !level {
			d.busy = true
			d.n = 0
			d.b = 0
			d.check(level)
		}
		return 0, false
	}
	d.n++
	return d.check(level)
}

func (d *LineDecoder) check(level bool) (byte, bool) {
	if (d.n-d.BitCycles/2)%d.BitCycles != 0 {
		return 0, false
	}
	switch bit := (d.n - d.BitCycles/2) / d.BitCycles; {
	case bit == 0:
		if level {
			// glitch
			d.busy = false
			d.Errors++
		}
	case bit <= 8:
		if level {
			d.b |= 1 << uint(bit-1)
		}
	default:
		d.busy = false
		if !level {
			d.Errors++
			return 0, false
		}
		d.Bytes = append(d.Bytes, d.b)
		return d.b, true
	}
	return 0, false
}

// Decode runs a LineDecoder over a recorded line and returns the decoded bytes
// and the number of framing errors.
func Decode(bitCycles int, line []bool) ([]byte, int) {
	d := NewLineDecoder(bitCycles)
	for _, l := range line {
		d.Sample(l)
	}
	return d.Bytes, d.Errors
}
