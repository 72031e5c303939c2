/*
Package hwbridge drives a simulated clocked design (the device under test)
from the host.

The bridge is made of three parts, each owning its own state:

	uart.Transmitter  serializes input event bytes into a timed 8-N-1 line
	Clock             steps the device through low and high clock phases
	video.Assembler   samples the device's video outputs into a framebuffer

A Bridge ties them together into the outer loop of a front-end: push the
latest controller state, run a batch of clock cycles, present the frame if one
was completed:

	br, err := hwbridge.New(hwbridge.DefaultConfig(), dev)
	if err != nil {
		// ...
	}
	for {
		br.SetPlayer1(p1)
		br.SetPlayer2(p2)
		if img, ok := br.Step(); ok {
			present(img)
		}
	}

Everything runs synchronously on the caller's goroutine.
*/
package hwbridge
