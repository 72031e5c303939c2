// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwbridge runs the test card design in a window, or headless.
//
// In a window, player 1 uses W, A, S, D and Space, player 2 the arrow keys and
// Enter. F1 toggles the status line, F12 saves a snapshot and Escape quits.
//
// Headless runs print a digest of the frames produced, which makes them
// usable as regression tests. A Lua script can drive the controllers, see
// package script.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/db47h/hwbridge"
	"github.com/db47h/hwbridge/headless"
	"github.com/db47h/hwbridge/hwlib"
	"github.com/db47h/hwbridge/logger"
	"github.com/db47h/hwbridge/statsview"
	"github.com/pkg/errors"
)

type options struct {
	cfg    hwbridge.Config
	timing hwlib.Timing

	workers  int
	headless bool
	frames   int
	script   string
	snapDir  string
	scale    int
	loops    int
	stats    bool
	log      bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{cfg: hwbridge.DefaultConfig()}
	d := o.cfg
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.IntVar(&o.cfg.ClockHz, "clock", d.ClockHz, "device clock frequency in `Hz`")
	fs.IntVar(&o.cfg.BaudRate, "baud", d.BaudRate, "serial line bit rate")
	fs.IntVar(&o.cfg.Width, "width", 320, "raster width")
	fs.IntVar(&o.cfg.Height, "height", 200, "raster height")
	fs.IntVar(&o.cfg.StepsPerLoop, "steps", d.StepsPerLoop, "clock `cycles` per loop")
	fs.IntVar(&o.cfg.ResetLoops, "reset", d.ResetLoops, "number of `loops` reset is held")
	fs.Uint64Var(&o.cfg.MaxTime, "time", 0, "stop after this simulated `time` (0 = no limit)")
	fs.IntVar(&o.timing.HBlank, "hblank", 16, "horizontal blanking in pixels")
	fs.IntVar(&o.timing.VBlank, "vblank", 4, "vertical blanking in lines")
	fs.IntVar(&o.timing.Div, "pixdiv", 2, "pixel clock period in clock cycles")
	fs.IntVar(&o.workers, "workers", 1, "simulation worker goroutines (0 = GOMAXPROCS)")
	fs.BoolVar(&o.headless, "headless", false, "run without a window")
	fs.IntVar(&o.frames, "frames", 0, "headless: stop after this many frames")
	fs.StringVar(&o.script, "script", "", "headless: Lua input `script`")
	fs.StringVar(&o.snapDir, "snapshots", ".", "snapshot `directory`")
	fs.IntVar(&o.scale, "scale", 2, "snapshot and window scale")
	fs.IntVar(&o.loops, "loops", 4, "window: loops per update")
	fs.BoolVar(&o.stats, "statsview", false, "launch the runtime stats server")
	fs.BoolVar(&o.log, "log", false, "echo log to stderr")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.scale < 1 {
		o.scale = 1
	}
	o.timing.Width, o.timing.Height = o.cfg.Width, o.cfg.Height
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args)
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err = run(o); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		logger.Tail(os.Stderr, 10)
		os.Exit(1)
	}
}

func run(o *options) error {
	if o.log {
		logger.SetEcho(os.Stderr)
	}
	if o.stats {
		if !statsview.Available() {
			return errors.New("statsview support not compiled in, rebuild with -tags statsview")
		}
		statsview.Launch(os.Stdout)
	}
	bd, br, err := newBridge(o)
	if err != nil {
		return err
	}
	defer bd.Close()

	if o.headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return headless.Print(ctx, br, headless.Options{
			Frames:      o.frames,
			Script:      o.script,
			SnapshotDir: o.snapDir,
			Scale:       o.scale,
		}, os.Stdout)
	}
	return runWindow(br, o)
}

func newBridge(o *options) (*hwlib.Board, *hwbridge.Bridge, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	bd, err := hwlib.NewBoard(hwlib.BoardConfig{
		Timing:    o.timing,
		BitCycles: o.cfg.BitCycles(),
		Workers:   o.workers,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Logf("main", "circuit of %d components", bd.Circuit().Size())
	br, err := hwbridge.New(o.cfg, bd)
	if err != nil {
		bd.Close()
		return nil, nil, err
	}
	return bd, br, nil
}
