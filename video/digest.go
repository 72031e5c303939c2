// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package video

import (
	"crypto/sha1"
	"fmt"
	"image"
)

// Digest fingerprints successive frames. Each fingerprint is chained with the
// previous one so that the final value identifies the whole sequence of
// frames.
type Digest struct {
	sum    [sha1.Size]byte
	buf    []byte
	frames int
}

// Add chains the pixels of img into the digest.
func (d *Digest) Add(img *image.RGBA) {
	d.buf = append(d.buf[:0], d.sum[:]...)
	w := img.Rect.Dx() * 4
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		d.buf = append(d.buf, img.Pix[i:i+w]...)
	}
	d.sum = sha1.Sum(d.buf)
	d.frames++
}

// Frames returns the number of frames added.
func (d *Digest) Frames() int { return d.frames }

// Reset resets the digest to its initial state.
func (d *Digest) Reset() {
	d.sum = [sha1.Size]byte{}
	d.frames = 0
}

// Hash returns the current fingerprint.
func (d *Digest) Hash() string {
	return fmt.Sprintf("%x", d.sum)
}
