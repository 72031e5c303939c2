// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/db47h/hwbridge"
	"github.com/db47h/hwbridge/input"
	"github.com/db47h/hwbridge/logger"
	"github.com/db47h/hwbridge/video"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"
)

// keyMap maps up, down, left, right and action to keys.
type keyMap [5]ebiten.Key

var (
	p1Keys = keyMap{ebiten.KeyW, ebiten.KeyS, ebiten.KeyA, ebiten.KeyD, ebiten.KeySpace}
	p2Keys = keyMap{ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyEnter}
)

func (m *keyMap) buttons() input.Buttons {
	var b input.Buttons
	for i, k := range m {
		b = b.With(input.Buttons(1)<<uint(i), ebiten.IsKeyPressed(k))
	}
	return b
}

type window struct {
	br     *hwbridge.Bridge
	o      *options
	fb     *image.RGBA // last complete frame
	img    *ebiten.Image
	status bool
	frames int
	snaps  int
	p1, p2 input.Buttons
}

func runWindow(br *hwbridge.Bridge, o *options) error {
	cfg := br.Config()
	w := &window{
		br:     br,
		o:      o,
		fb:     image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		status: true,
	}
	ebiten.SetWindowSize(cfg.Width*o.scale, cfg.Height*o.scale)
	ebiten.SetWindowTitle("hwbridge")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(w); err != nil && err != ebiten.Termination {
		return errors.Wrap(err, "window")
	}
	return nil
}

func (w *window) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		w.status = !w.status
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		w.snaps++
		name := filepath.Join(w.o.snapDir, fmt.Sprintf("hwbridge%03d.png", w.snaps))
		if err := video.SavePNG(name, w.fb, w.o.scale); err != nil {
			logger.Log("window", err.Error())
		} else {
			logger.Logf("window", "saved %s", name)
		}
	}

	if b := p1Keys.buttons(); b != w.p1 {
		w.p1 = b
		w.br.SetPlayer1(b)
	}
	if b := p2Keys.buttons(); b != w.p2 {
		w.p2 = b
		w.br.SetPlayer2(b)
	}

	for i := 0; i < w.o.loops; i++ {
		if img, ok := w.br.Step(); ok {
			copy(w.fb.Pix, img.Pix)
			w.frames++
		}
	}
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(w.fb.Rect.Dx(), w.fb.Rect.Dy())
	}
	w.img.WritePixels(w.fb.Pix)
	screen.DrawImage(w.img, nil)
	if !w.status {
		return
	}
	msg := fmt.Sprintf("frame %d  loop %d  P1 %s  P2 %s", w.frames, w.br.Loops(), w.p1, w.p2)
	if w.br.InReset() {
		msg += "  RESET"
	}
	text.Draw(screen, msg, basicfont.Face7x13, 4, 14, color.White)
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.fb.Rect.Dx(), w.fb.Rect.Dy()
}
