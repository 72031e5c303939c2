package hwbridge_test

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/db47h/hwbridge"
	"github.com/db47h/hwbridge/hwlib"
	"github.com/db47h/hwbridge/hwtest"
	"github.com/db47h/hwbridge/input"
	"github.com/go-test/deep"
	"github.com/pkg/errors"
)

func testConfig() hwbridge.Config {
	return hwbridge.Config{
		ClockHz:      4 * 115200, // 4 cycles per bit
		BaudRate:     115200,
		Width:        16,
		Height:       8,
		StepsPerLoop: 100,
		ResetLoops:   2,
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := hwbridge.DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	if n := hwbridge.DefaultConfig().BitCycles(); n != 868 {
		t.Fatalf("default bit cycles = %d, expected 868", n)
	}
	td := []struct {
		name string
		mod  func(c *hwbridge.Config)
	}{
		{"clock", func(c *hwbridge.Config) { c.ClockHz = 0 }},
		{"baud", func(c *hwbridge.Config) { c.BaudRate = -1 }},
		{"baud_high", func(c *hwbridge.Config) { c.BaudRate = c.ClockHz + 1 }},
		{"width", func(c *hwbridge.Config) { c.Width = 0 }},
		{"height", func(c *hwbridge.Config) { c.Height = -3 }},
		{"steps", func(c *hwbridge.Config) { c.StepsPerLoop = 0 }},
		{"reset", func(c *hwbridge.Config) { c.ResetLoops = -1 }},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			cfg := testConfig()
			d.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
			if _, err := hwbridge.New(cfg, hwtest.NewFakeDevice(nil)); err == nil {
				t.Fatal("expected error from New")
			}
		})
	}
}

func TestBridge_reset(t *testing.T) {
	cfg := testConfig()
	dev := hwtest.NewFakeDevice(nil)
	br, err := hwbridge.New(cfg, dev)
	if err != nil {
		t.Fatal(err)
	}
	br.SetPlayer1(input.Up | input.Action)
	for i := 0; i < 4; i++ {
		br.Step()
	}
	per := 2 * cfg.StepsPerLoop
	if len(dev.Phases) != 4*per {
		t.Fatalf("expected %d evaluations, got %d", 4*per, len(dev.Phases))
	}
	for i, p := range dev.Phases {
		if want := i < cfg.ResetLoops*per; p.Reset != want {
			t.Fatalf("evaluation %d: reset = %v, expected %v", i, p.Reset, want)
		}
		if p.Buttons != input.Up|input.Action {
			t.Fatalf("evaluation %d: buttons = %s", i, p.Buttons)
		}
	}
	if br.InReset() || br.Loops() != 4 {
		t.Fatalf("in reset = %v, loops = %d", br.InReset(), br.Loops())
	}
}

func TestBridge_serial(t *testing.T) {
	cfg := testConfig()
	dev := hwtest.NewFakeDevice(nil)
	br, err := hwbridge.New(cfg, dev)
	if err != nil {
		t.Fatal(err)
	}

	// recorded during reset, sent once on release
	br.SetPlayer2(input.Left)
	br.SetPlayer2(input.Right)
	br.Step()
	br.Step()
	if br.Transmitter().Pending() != 0 {
		t.Fatal("bytes queued during reset")
	}
	br.Step()

	br.SetPlayer2(input.Right | input.Action)
	br.SetPlayer2(input.Right | input.Action)
	br.SetPlayer2(input.Right)
	for i := 0; i < 4; i++ {
		br.Step()
	}

	got, errs := hwtest.Decode(cfg.BitCycles(), dev.Rx())
	if errs != 0 {
		t.Fatalf("%d framing errors", errs)
	}
	want := []byte{
		input.Right.Byte(),
		(input.Right | input.Action).Byte(),
		input.Right.Byte(),
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatal(diff)
	}
	if br.Transmitter().Sent() != 3 {
		t.Fatalf("sent = %d, expected 3", br.Transmitter().Sent())
	}
}

func TestBridge_serialIdle(t *testing.T) {
	cfg := testConfig()
	dev := hwtest.NewFakeDevice(nil)
	br, err := hwbridge.New(cfg, dev)
	if err != nil {
		t.Fatal(err)
	}

	// no buttons pressed: the device already holds 0 out of reset
	for i := 0; i < 6; i++ {
		br.Step()
	}
	for i, l := range dev.Rx() {
		if !l {
			t.Fatalf("cycle %d: serial line not idle", i)
		}
	}
	if n := br.Transmitter().Sent(); n != 0 {
		t.Fatalf("sent = %d, expected 0", n)
	}

	// releasing all buttons after a press is sent
	br.SetPlayer2(input.Down)
	br.SetPlayer2(0)
	for i := 0; i < 2; i++ {
		br.Step()
	}
	got, errs := hwtest.Decode(cfg.BitCycles(), dev.Rx())
	if errs != 0 {
		t.Fatalf("%d framing errors", errs)
	}
	if diff := deep.Equal(got, []byte{input.Down.Byte(), 0}); diff != nil {
		t.Fatal(diff)
	}
}

func TestBridge_Run(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTime = 2000

	r := &hwtest.Raster{Width: cfg.Width, Height: cfg.Height, Div: 2}
	dev := hwtest.NewFakeDevice(r)
	br, err := hwbridge.New(cfg, dev)
	if err != nil {
		t.Fatal(err)
	}
	frames := 0
	err = br.Run(context.Background(), func(img *image.RGBA) error {
		frames++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if br.Clock().Time() != 2000 {
		t.Fatalf("time = %d, expected 2000", br.Clock().Time())
	}
	// 10 loops, 2 in reset. The fake device ignores reset.
	if want := int(br.Assembler().Frames()); frames == 0 || frames > want {
		t.Fatalf("presented %d frames, %d completed", frames, want)
	}

	dev.Done = true
	if err = br.Run(context.Background(), nil); err != hwbridge.ErrFinished {
		t.Fatalf("expected ErrFinished, got %v", err)
	}

	dev.Done = false
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err = br.Run(ctx, nil); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBridge_Run_presentError(t *testing.T) {
	cfg := testConfig()
	r := &hwtest.Raster{Width: cfg.Width, Height: cfg.Height, Div: 2}
	br, err := hwbridge.New(cfg, hwtest.NewFakeDevice(r))
	if err != nil {
		t.Fatal(err)
	}
	errStop := errors.New("stop")
	err = br.Run(context.Background(), func(*image.RGBA) error { return errStop })
	if errors.Cause(err) != errStop {
		t.Fatalf("expected %v, got %v", errStop, err)
	}
}

// find returns the bounds of pixels of color c.
func find(img *image.RGBA, c color.RGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestBridge_testCard(t *testing.T) {
	cfg := testConfig()
	bd, err := hwlib.NewBoard(hwlib.BoardConfig{
		Timing:    hwlib.Timing{Width: cfg.Width, Height: cfg.Height, HBlank: 2, VBlank: 1, Div: 2},
		BitCycles: cfg.BitCycles(),
		Workers:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer bd.Close()

	br, err := hwbridge.New(cfg, bd)
	if err != nil {
		t.Fatal(err)
	}
	br.SetPlayer1(input.Left)
	br.SetPlayer2(input.Right)

	var (
		img    *image.RGBA
		frames int
	)
	for i := 0; i < 40; i++ {
		if f, ok := br.Step(); ok {
			img = f
			frames++
		}
	}
	if frames < 5 {
		t.Fatalf("only %d frames drawn", frames)
	}
	if bd.Received() != 1 {
		t.Fatalf("device received %d bytes, expected 1", bd.Received())
	}

	red := color.RGBA{255, 51, 51, 255}
	blue := color.RGBA{51, 51, 255, 255}
	p1, p2 := find(img, red), find(img, blue)
	if p1.Empty() || p2.Empty() {
		t.Fatalf("players not found: %v, %v", p1, p2)
	}
	// start positions are x=4 and x=11, one pixel per frame.
	if p1.Min.X != 0 {
		t.Errorf("player 1 at %v, expected to have moved to the left edge", p1)
	}
	if p2.Min.X != cfg.Width-1 {
		t.Errorf("player 2 at %v, expected to have moved to the right edge", p2)
	}

	// background checkerboard
	dark, light := color.RGBA{34, 102, 34, 255}, color.RGBA{17, 68, 17, 255}
	for _, pt := range []image.Point{{0, 0}, {1, 1}, {2, 0}} {
		if got := img.RGBAAt(pt.X, pt.Y); got != dark && got != red {
			t.Errorf("pixel %v = %v, expected %v", pt, got, dark)
		}
	}
	if got := img.RGBAAt(1, 0); got != light {
		t.Errorf("pixel (1, 0) = %v, expected %v", got, light)
	}
}
