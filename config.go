// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbridge

import (
	"github.com/db47h/hwbridge/uart"
	"github.com/pkg/errors"
)

// Config holds the environment specific parameters of a Bridge.
type Config struct {
	// Device clock frequency in Hz.
	ClockHz int
	// Serial line bit rate.
	BaudRate int
	// Raster size.
	Width, Height int
	// Clock cycles per call to Bridge.Step.
	StepsPerLoop int
	// Number of calls to Bridge.Step during which reset is held.
	ResetLoops int
	// Simulated time after which Bridge.Run returns. 0 means no limit.
	MaxTime uint64
}

// DefaultConfig returns the default configuration: a 100MHz device listening
// at 115200 bauds and drawing a 1280x800 raster.
func DefaultConfig() Config {
	return Config{
		ClockHz:      100000000,
		BaudRate:     115200,
		Width:        1280,
		Height:       800,
		StepsPerLoop: 5000,
		ResetLoops:   40,
	}
}

// BitCycles returns the serial bit duration in clock cycles.
func (c Config) BitCycles() int {
	return uart.BitCycles(c.ClockHz, c.BaudRate)
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.ClockHz <= 0:
		return errors.Errorf("invalid clock frequency %d", c.ClockHz)
	case c.BaudRate <= 0:
		return errors.Errorf("invalid baud rate %d", c.BaudRate)
	case c.BaudRate > c.ClockHz:
		return errors.Errorf("baud rate %d higher than clock frequency %d", c.BaudRate, c.ClockHz)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("invalid raster size %dx%d", c.Width, c.Height)
	case c.StepsPerLoop <= 0:
		return errors.Errorf("invalid steps per loop %d", c.StepsPerLoop)
	case c.ResetLoops < 0:
		return errors.Errorf("invalid reset loops %d", c.ResetLoops)
	}
	return nil
}
