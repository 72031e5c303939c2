// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbridge

import (
	"github.com/db47h/hwbridge/input"
	"github.com/db47h/hwbridge/video"
)

// Device is the device under test. Inputs set with the Set methods are only
// seen by the device on the next call to Eval. Video returns the outputs as
// computed by the last Eval.
type Device interface {
	SetClock(high bool)
	SetReset(asserted bool)
	SetRx(level bool)
	SetButtons(b input.Buttons)
	Eval()
	Video() video.Signals
}

// A Finisher is a Device that can end the simulation on its own.
type Finisher interface {
	Finished() bool
}

// LineSource supplies the serial line level, once per clock cycle.
type LineSource interface {
	Step() bool
}

// Sampler receives the video outputs of the device once per clock cycle.
type Sampler interface {
	Sample(video.Signals)
}
