// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwbridge/hwsim"
)

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
func DFF(w string) hwsim.Part {
	return (&hwsim.PartSpec{
		Name:    "DFF",
		Inputs:  []string{pIn},
		Outputs: []string{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			var curOut bool
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					// raising edge?
					if c.Rising() {
						curOut = c.Get(in)
					}
					c.Set(out, curOut)
				}}
		}}).NewPart(w)
}

// Register returns a clocked register of the given bits size.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out(t) = in(t-1)
func Register(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "REGISTER" + strconv.Itoa(bits),
		Inputs:  hwsim.IO(pIn + "[" + strconv.Itoa(bits) + "]"),
		Outputs: hwsim.IO(pOut + "[" + strconv.Itoa(bits) + "]"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn), s.Bus(pOut)
			var v int64
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.Rising() {
					v = Int64(c, in)
				}
				SetInt64(c, out, v)
			}}
		}}).NewPart
}
