// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/hwbridge/hwsim"
)

// UARTRx returns an 8-N-1 serial receiver. The line is sampled on every
// raising edge of the clock, each bit in the middle of its bitCycles long
// window. A frame with a bad start or stop bit is dropped.
//
//	Inputs: rx, rst
//	Outputs: data[8], valid
//	Function: data holds the last byte received. valid is high for one
//	          clock cycle after a byte has been received.
func UARTRx(bitCycles int) hwsim.NewPartFn {
	if bitCycles < 1 {
		bitCycles = 1
	}
	half := bitCycles / 2
	return (&hwsim.PartSpec{
		Name:    "UARTRX",
		Inputs:  []string{"rx", pRst},
		Outputs: hwsim.IO("data[8], valid"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			rx, rst := s.Pin("rx"), s.Pin(pRst)
			data, valid := s.Bus("data"), s.Pin("valid")
			var (
				busy   bool
				n      int
				shift  int64
				out    int64
				strobe bool
			)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.Rising() {
					strobe = false
					switch {
					case c.Get(rst):
						busy, out = false, 0
					case !busy:
						if !c.Get(rx) {
							busy, n, shift = true, 0, 0
						}
					default:
						n++
					}
					if busy && n >= half && (n-half)%bitCycles == 0 {
						l := c.Get(rx)
						switch bit := (n - half) / bitCycles; {
						case bit == 0:
							// false start
							busy = !l
						case bit <= 8:
							if l {
								shift |= 1 << uint(bit-1)
							}
						default:
							busy = false
							if l {
								out, strobe = shift, true
							}
						}
					}
				}
				SetInt64(c, data, out)
				c.Set(valid, strobe)
			}}
		}}).NewPart
}
