/*
Package hwsim is a naive simulator for clocked digital designs, used as a
software device under test.

A circuit is a flat list of parts connected by named wires. Each part mounts
one or more components: closures that read wire states with Circuit.Get and
write them with Circuit.Set. Wire states are double buffered: a simulation
step computes the next state of every wire from the current one, so the order
in which components run does not matter.

The clock is not generated by the circuit. The caller drives it with
SetClock and brings the circuit up to date with Eval, once per half cycle.
Clocked components latch their inputs when Rising reports a clock edge:

	dff := &hwsim.PartSpec{
		Name:    "DFF",
		Inputs:  hwsim.IO("in"),
		Outputs: hwsim.IO("out"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin("in"), s.Pin("out")
			var q bool
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if c.Rising() {
						q = c.Get(in)
					}
					c.Set(out, q)
				}}
		}}
*/
package hwsim
