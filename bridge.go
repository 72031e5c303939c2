// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbridge

import (
	"context"
	"image"

	"github.com/db47h/hwbridge/input"
	"github.com/db47h/hwbridge/logger"
	"github.com/db47h/hwbridge/uart"
	"github.com/db47h/hwbridge/video"
	"github.com/pkg/errors"
)

// ErrFinished is returned by Run when the device ends the simulation.
var ErrFinished = errors.New("device finished")

// Bridge is the outer loop driving a device: it holds the device in reset for
// a number of loops, forwards controller state and runs batches of clock
// cycles, collecting frames along the way.
//
// Player 1 is wired to the device's button inputs, player 2 goes over the
// serial line.
type Bridge struct {
	cfg   Config
	dev   Device
	tx    *uart.Transmitter
	clock *Clock
	video *video.Assembler

	resetLeft   int
	inReset     bool
	sentInitial bool
	p1, p2      input.Buttons
	loops       uint64
}

// New returns a new Bridge driving dev. The device is put in reset.
func New(cfg Config, dev Device) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if dev == nil {
		return nil, errors.New("nil device")
	}
	b := &Bridge{
		cfg:       cfg,
		dev:       dev,
		tx:        uart.NewTransmitter(cfg.BitCycles()),
		video:     video.NewAssembler(cfg.Width, cfg.Height),
		resetLeft: cfg.ResetLoops,
		inReset:   true,
	}
	b.clock = NewClock(dev, b.tx, b.video)
	dev.SetReset(true)
	dev.SetRx(true)
	logger.Logf("bridge", "%dHz, %d bauds (%d cycles per bit), %dx%d", cfg.ClockHz, cfg.BaudRate, b.tx.BitCycles(), cfg.Width, cfg.Height)
	return b, nil
}

// Config returns the bridge configuration.
func (b *Bridge) Config() Config { return b.cfg }

// Clock returns the clock driver.
func (b *Bridge) Clock() *Clock { return b.clock }

// Transmitter returns the serial transmitter.
func (b *Bridge) Transmitter() *uart.Transmitter { return b.tx }

// Assembler returns the frame assembler.
func (b *Bridge) Assembler() *video.Assembler { return b.video }

// Loops returns the number of calls to Step.
func (b *Bridge) Loops() uint64 { return b.loops }

// InReset returns true while the device is held in reset.
func (b *Bridge) InReset() bool { return b.inReset }

// SetPlayer1 sets the buttons presented to the device's inputs from the next
// call to Step.
func (b *Bridge) SetPlayer1(bt input.Buttons) { b.p1 = bt }

// SetPlayer2 queues the new player 2 state for transmission on the serial
// line. Repeating the same state is a no-op. While the device is in reset, the
// state is only recorded: it is sent once reset is released.
func (b *Bridge) SetPlayer2(bt input.Buttons) {
	b.p2 = bt
	if b.sentInitial {
		b.tx.Enqueue(bt.Byte())
	}
}

// Step runs one iteration of the outer loop: reset sequencing, input
// forwarding and StepsPerLoop clock cycles. It returns the framebuffer and
// true if a frame was completed during this or a previous iteration and has
// not been returned yet.
func (b *Bridge) Step() (*image.RGBA, bool) {
	if b.resetLeft > 0 {
		b.resetLeft--
		b.dev.SetReset(true)
	} else {
		if b.inReset {
			logger.Logf("bridge", "reset released after %d loops", b.loops)
		}
		b.inReset = false
		b.dev.SetReset(false)
	}

	if !b.inReset && !b.sentInitial {
		b.sentInitial = true
		b.tx.Enqueue(b.p2.Byte())
		logger.Logf("bridge", "initial player 2 state %s", b.p2)
	}

	b.dev.SetButtons(b.p1)
	b.clock.RunCycles(b.cfg.StepsPerLoop)
	b.loops++
	return b.video.TakeFrame()
}

// Run calls Step until ctx is canceled, the device finishes, the configured
// simulated time limit is reached or present returns an error. present is
// called with every completed frame.
//
// Run returns ErrFinished if the device ended the simulation and nil if the
// time limit was reached.
func (b *Bridge) Run(ctx context.Context, present func(*image.RGBA) error) error {
	fin, _ := b.dev.(Finisher)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if fin != nil && fin.Finished() {
			logger.Logf("bridge", "device finished at time %d", b.clock.Time())
			return ErrFinished
		}
		if b.cfg.MaxTime > 0 && b.clock.Time() >= b.cfg.MaxTime {
			logger.Logf("bridge", "time limit reached (%d)", b.clock.Time())
			return nil
		}
		if img, ok := b.Step(); ok && present != nil {
			if err := present(img); err != nil {
				return errors.Wrap(err, "present frame")
			}
		}
	}
}
