// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package uart implements a software, transmit only, asynchronous serial
// encoder. Bytes are framed 8-N-1: one start bit (low), eight data bits sent
// least significant bit first, no parity and one stop bit (high).
//
// The Transmitter has no notion of wall clock time. It is stepped once per
// clock cycle of the receiving design and holds each bit for a fixed number of
// cycles, which must be the receiver's clock frequency divided by the baud
// rate.
package uart

import "strconv"

// State is the state of a Transmitter.
type State int

// Transmitter states.
const (
	Idle State = iota
	Start
	Data
	Stop
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Start:
		return "Start"
	case Data:
		return "Data"
	case Stop:
		return "Stop"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// BitCycles returns the number of clock cycles a bit must be held for a
// receiver clocked at clockHz and listening at baud bits per second.
func BitCycles(clockHz, baud int) int {
	if baud <= 0 {
		return 1
	}
	n := clockHz / baud
	if n < 1 {
		n = 1
	}
	return n
}

// Transmitter serializes queued bytes into a line level, one clock cycle at a
// time.
//
// A Transmitter is not safe for concurrent use.
type Transmitter struct {
	bitCycles int

	queue []byte
	last  byte // last enqueued byte, 0 initially

	state  State
	bit    int  // current data bit in Data state
	remain int  // cycles left in the current state
	shift  byte // byte being sent
	sent   uint64
}

// NewTransmitter returns a new idle Transmitter holding each bit for bitCycles
// clock cycles. Values below 1 are raised to 1.
func NewTransmitter(bitCycles int) *Transmitter {
	if bitCycles < 1 {
		bitCycles = 1
	}
	return &Transmitter{bitCycles: bitCycles}
}

// BitCycles returns the number of cycles each bit is held on the line.
func (t *Transmitter) BitCycles() int { return t.bitCycles }

// FrameCycles returns the number of cycles needed to send one byte.
func (t *Transmitter) FrameCycles() int { return 10 * t.bitCycles }

// Enqueue queues b for transmission unless it is equal to the most recently
// enqueued byte. The comparison is against the last enqueued value, not the
// last transmitted one, so Enqueue must be understood as a notification of the
// latest logical state: a value that goes X, Y, X is queued three times, but
// X, X only once.
//
// A new Transmitter compares against 0, the state of a receiver out of reset:
// enqueuing 0 first is a no-op.
func (t *Transmitter) Enqueue(b byte) {
	if b == t.last {
		return
	}
	t.queue = append(t.queue, b)
	t.last = b
}

// Pending returns the number of bytes waiting to be sent. The byte currently on
// the line is not included.
func (t *Transmitter) Pending() int { return len(t.queue) }

// Sent returns the number of bytes fully transmitted, stop bit included.
func (t *Transmitter) Sent() uint64 { return t.sent }

// State returns the current state. In the Data state, bit is the index of
// the data bit on the line, 0 being the least significant bit.
func (t *Transmitter) State() (s State, bit int) {
	return t.state, t.bit
}

// Line returns the level that the current state puts on the line.
func (t *Transmitter) Line() bool {
	switch t.state {
	case Start:
		return false
	case Data:
		return t.shift&(1<<uint(t.bit)) != 0
	}
	// Idle and Stop
	return true
}

// Step returns the line level for the current clock cycle then advances the
// transmitter by one cycle. It must be called exactly once per cycle.
func (t *Transmitter) Step() bool {
	if t.state == Idle {
		if len(t.queue) == 0 {
			return true
		}
		t.shift = t.queue[0]
		t.queue = append(t.queue[:0], t.queue[1:]...)
		t.enter(Start)
	}

	line := t.Line()
	t.remain--
	if t.remain == 0 {
		t.next()
	}
	return line
}

func (t *Transmitter) enter(s State) {
	t.state = s
	t.remain = t.bitCycles
}

func (t *Transmitter) next() {
	switch t.state {
	case Start:
		t.bit = 0
		t.enter(Data)
	case Data:
		if t.bit < 7 {
			t.bit++
			t.remain = t.bitCycles
			return
		}
		t.enter(Stop)
	case Stop:
		t.state = Idle
		t.bit = 0
		t.sent++
	}
}
