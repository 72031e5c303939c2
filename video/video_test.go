package video_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/db47h/hwbridge/video"
	"github.com/stretchr/testify/require"
)

// pixel feeds a and returns after a full pixel clock period at (x, y).
func pixel(a *video.Assembler, x, y int, r, g, b uint8) {
	a.Sample(video.Signals{PixClk: false, DE: true, X: x, Y: y, R: r, G: g, B: b})
	a.Sample(video.Signals{PixClk: true, DE: true, X: x, Y: y, R: r, G: g, B: b})
}

func scan(a *video.Assembler, w, h int, col func(x, y int) (r, g, b uint8)) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := col(x, y)
			pixel(a, x, y, r, g, b)
		}
	}
}

func TestExpand4(t *testing.T) {
	require.Equal(t, uint8(0), video.Expand4(0))
	require.Equal(t, uint8(255), video.Expand4(15))
	for v := uint8(0); v < 16; v++ {
		require.Equal(t, v*17, video.Expand4(v))
	}
	// high bits are ignored
	require.Equal(t, uint8(17), video.Expand4(0xf1))
}

func TestAssembler_edges(t *testing.T) {
	a := video.NewAssembler(4, 4)

	// high level without an edge writes nothing
	s := video.Signals{PixClk: true, DE: true, X: 1, Y: 1, R: 15}
	a.Sample(s)
	require.Equal(t, uint64(1), a.Pixels())
	a.Sample(s)
	a.Sample(s)
	require.Equal(t, uint64(1), a.Pixels())

	// falling edge
	s.PixClk = false
	a.Sample(s)
	require.Equal(t, uint64(1), a.Pixels())

	// next rising edge with new color
	s.PixClk, s.R, s.G = true, 0, 8
	a.Sample(s)
	require.Equal(t, uint64(2), a.Pixels())
	require.Equal(t, color.RGBA{0, 136, 0, 255}, a.At(1, 1))
}

func TestAssembler_blanking(t *testing.T) {
	a := video.NewAssembler(2, 2)
	a.Sample(video.Signals{})
	a.Sample(video.Signals{PixClk: true, X: 0, Y: 0, R: 15})
	require.Zero(t, a.Pixels())
	require.Equal(t, color.RGBA{}, a.At(0, 0))

	// out of range positions are dropped
	pixel(a, 2, 0, 15, 15, 15)
	pixel(a, 0, 2, 15, 15, 15)
	pixel(a, -1, 0, 15, 15, 15)
	require.Zero(t, a.Pixels())
	require.False(t, a.Ready())
}

func TestAssembler_frames(t *testing.T) {
	const w, h = 5, 3
	a := video.NewAssembler(w, h)
	require.Equal(t, image.Rect(0, 0, w, h), a.Bounds())

	col := func(x, y int) (uint8, uint8, uint8) { return uint8(x), uint8(y), 15 }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, ok := a.TakeFrame()
			require.False(t, ok, "frame ready before last pixel at %d,%d", x, y)
			r, g, b := col(x, y)
			pixel(a, x, y, r, g, b)
		}
	}
	require.True(t, a.Ready())
	img, ok := a.TakeFrame()
	require.True(t, ok)
	require.Equal(t, uint64(1), a.Frames())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Equal(t, color.RGBA{uint8(x * 17), uint8(y * 17), 255, 255}, img.RGBAAt(x, y))
		}
	}

	// TakeFrame only clears the flag
	img, ok = a.TakeFrame()
	require.False(t, ok)
	require.Equal(t, color.RGBA{68, 34, 255, 255}, img.RGBAAt(4, 2))

	// a partial redraw keeps older pixels
	pixel(a, 0, 0, 15, 15, 15)
	require.Equal(t, color.RGBA{255, 255, 255, 255}, a.At(0, 0))
	require.Equal(t, color.RGBA{17, 0, 255, 255}, a.At(1, 0))
	require.False(t, a.Ready())

	// the last pixel alone sets the flag again
	pixel(a, w-1, h-1, 0, 0, 0)
	require.True(t, a.Ready())
	require.Equal(t, uint64(2), a.Frames())
}

func TestNewAssembler_clamp(t *testing.T) {
	a := video.NewAssembler(0, -3)
	require.Equal(t, image.Rect(0, 0, 1, 1), a.Bounds())
	pixel(a, 0, 0, 1, 2, 3)
	_, ok := a.TakeFrame()
	require.True(t, ok)
}

func TestDigest(t *testing.T) {
	const w, h = 8, 4
	a := video.NewAssembler(w, h)
	scan(a, w, h, func(x, y int) (uint8, uint8, uint8) { return uint8(x), uint8(y), 0 })
	img, ok := a.TakeFrame()
	require.True(t, ok)

	var d1, d2 video.Digest
	empty := d1.Hash()
	d1.Add(img)
	d2.Add(img)
	require.Equal(t, d1.Hash(), d2.Hash())
	require.NotEqual(t, empty, d1.Hash())
	require.Len(t, d1.Hash(), 40)

	// chaining makes the sequence matter
	d1.Add(img)
	require.NotEqual(t, d1.Hash(), d2.Hash())
	require.Equal(t, 2, d1.Frames())

	pixel(a, 3, 2, 15, 15, 15)
	d2.Add(img)
	require.NotEqual(t, d1.Hash(), d2.Hash())

	d1.Reset()
	require.Zero(t, d1.Frames())
	require.Equal(t, empty, d1.Hash())
}

func TestDigest_subImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	cp := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			cp.SetRGBA(x, y, sub.RGBAAt(x+1, y+1))
		}
	}
	var d1, d2 video.Digest
	d1.Add(sub)
	d2.Add(cp)
	require.Equal(t, d1.Hash(), d2.Hash())
}

func TestWritePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(2, 1, color.RGBA{255, 0, 0, 255})

	for _, scale := range []int{0, 1, 3} {
		var buf bytes.Buffer
		require.NoError(t, video.WritePNG(&buf, img, scale))
		out, err := png.Decode(&buf)
		require.NoError(t, err)
		s := scale
		if s < 1 {
			s = 1
		}
		require.Equal(t, image.Rect(0, 0, 3*s, 2*s), out.Bounds())
		r, g, b, a := out.At(3*s-1, 2*s-1).RGBA()
		require.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
		r, _, _, _ = out.At(2*s-1, 2*s-1).RGBA()
		require.Zero(t, r)
	}
}

func TestSavePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	name := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, video.SavePNG(name, img, 2))

	err := video.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png"), img, 1)
	require.Error(t, err)
}
