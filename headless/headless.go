// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package headless runs a bridge without a window and fingerprints the frames
// it produces, optionally driving the controllers from a Lua script.
package headless

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/db47h/hwbridge"
	"github.com/db47h/hwbridge/logger"
	"github.com/db47h/hwbridge/script"
	"github.com/db47h/hwbridge/video"
	"github.com/pkg/errors"
)

// Options configures a headless run.
type Options struct {
	// Stop after this many frames. 0 means no limit.
	Frames int
	// Lua input script. Without a frame count or time limit, the run stops
	// when the script ends.
	Script string
	// Directory for snapshots with a relative file name.
	SnapshotDir string
	// Snapshot scale.
	Scale int
}

// Result summarizes a headless run.
type Result struct {
	Frames int
	Time   uint64
	Digest string
}

func (r Result) String() string {
	return fmt.Sprintf("%d frames, time %d, digest %s", r.Frames, r.Time, r.Digest)
}

var errEnough = errors.New("frame count reached")

// Run runs br until the frame count or time limit is reached, the script ends,
// the device finishes or ctx is canceled.
func Run(ctx context.Context, br *hwbridge.Bridge, o Options) (Result, error) {
	var d video.Digest
	var err error
	if o.Script == "" {
		err = br.Run(ctx, func(img *image.RGBA) error {
			d.Add(img)
			if o.Frames > 0 && d.Frames() >= o.Frames {
				return errEnough
			}
			return nil
		})
	} else {
		err = play(ctx, br, o, &d)
	}
	r := Result{Frames: d.Frames(), Time: br.Clock().Time(), Digest: d.Hash()}
	switch errors.Cause(err) {
	case nil, errEnough, context.Canceled, hwbridge.ErrFinished:
		return r, nil
	}
	return r, err
}

// Print runs br like Run and writes the result to w.
func Print(ctx context.Context, br *hwbridge.Bridge, o Options, w io.Writer) error {
	r, err := Run(ctx, br, o)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, r)
	return errors.Wrap(err, "print result")
}

func play(ctx context.Context, br *hwbridge.Bridge, o Options, d *video.Digest) error {
	tl, err := script.Load(o.Script)
	if err != nil {
		return err
	}
	logger.Logf("script", "%s: %d events over %d loops", tl.Name, len(tl.Events()), tl.End())
	maxTime := br.Config().MaxTime
	for loop := 0; ; loop++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		switch {
		case maxTime > 0 && br.Clock().Time() >= maxTime:
			return nil
		case o.Frames > 0 && d.Frames() >= o.Frames:
			return nil
		case o.Frames == 0 && maxTime == 0 && loop > tl.End():
			return nil
		}

		evs := tl.At(loop)
		for _, ev := range evs {
			switch ev.Player {
			case 1:
				br.SetPlayer1(ev.Buttons)
			case 2:
				br.SetPlayer2(ev.Buttons)
			}
		}
		img, ok := br.Step()
		if ok {
			d.Add(img)
		}
		for _, ev := range evs {
			if ev.Snapshot == "" {
				continue
			}
			name := ev.Snapshot
			if !filepath.IsAbs(name) {
				name = filepath.Join(o.SnapshotDir, name)
			}
			if err = video.SavePNG(name, img, o.Scale); err != nil {
				return err
			}
			logger.Logf("script", "loop %d: saved %s", loop, name)
		}
	}
}
