// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package video

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Scale returns a copy of img enlarged by an integer factor using nearest
// neighbour sampling. A scale below 2 returns an unscaled copy.
func Scale(img image.Image, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	if scale == 1 {
		draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
		return dst
	}
	draw.NearestNeighbor.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img, scaled by scale, as PNG to w.
func WritePNG(w io.Writer, img image.Image, scale int) error {
	if err := png.Encode(w, Scale(img, scale)); err != nil {
		return errors.Wrap(err, "encode png")
	}
	return nil
}

// SavePNG writes img, scaled by scale, to a PNG file.
func SavePNG(name string, img image.Image, scale int) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close snapshot")
		}
	}()
	return errors.Wrap(WritePNG(f, img, scale), name)
}
