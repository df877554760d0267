/*
Copyright 2024 The Walletkit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package images decodes and downsamples image bytes to a bounded
// pixel size. Raster decoding honors EXIF orientation; bytes that
// fail raster decoding are retried as SVG.
package images

import (
	"bytes"
	"errors"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go4.org/syncutil"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeOpts bound the size of the decoded image.
type DecodeOpts struct {
	// MaxWidth and MaxHeight optionally bound the final image's
	// size. The aspect ratio is preserved.
	MaxWidth, MaxHeight int
}

// Config describes the decoded result.
type Config struct {
	Width, Height int
	Format        string // "jpeg", "png", "svg", ...
	// Modified reports whether the pixels differ from a plain
	// decode of the source bytes (scaled down, rotated, or
	// flipped), meaning the source bytes cannot be reused as an
	// encoding of the result.
	Modified bool
}

// This is the maximum concurrent number of bytes we allocate for
// uncompressed pixel data while decoding.
const maxDecodeBytes = 256 << 20

var decodeSem = syncutil.NewSem(maxDecodeBytes)

var errTooLarge = errors.New("images: image dimensions exceed decode memory budget")

// DecodeBytes decodes b, downsampling per opts.
// It returns an error if b is not a raster or SVG image.
func DecodeBytes(b []byte, opts *DecodeOpts) (image.Image, Config, error) {
	var c Config

	conf, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		// Not a registered raster format; try vector.
		return decodeSVG(b, opts)
	}

	// An estimate of the memory needed to hold the decode; YCbCr
	// runs under this, RGBA at it.
	ramSize := int64(conf.Width) * int64(conf.Height) * 4
	if ramSize > maxDecodeBytes {
		return nil, c, errTooLarge
	}
	if err := decodeSem.Acquire(ramSize); err != nil {
		return nil, c, err
	}
	defer decodeSem.Release(ramSize)

	im, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, c, err
	}
	c.Format = format

	if angle, flipped := exifOrientation(b); angle != 0 || flipped {
		im = orient(im, angle, flipped)
		c.Modified = true
	}
	if scaled := scaleDown(im, opts); scaled != im {
		im = scaled
		c.Modified = true
	}
	c.Width, c.Height = im.Bounds().Dx(), im.Bounds().Dy()
	return im, c, nil
}

// scaleDown returns im scaled to fit within opts, or im itself if it
// already fits.
func scaleDown(im image.Image, opts *DecodeOpts) image.Image {
	if opts == nil || opts.MaxWidth <= 0 && opts.MaxHeight <= 0 {
		return im
	}
	b := im.Bounds()
	w, h := b.Dx(), b.Dy()
	tw, th := w, h
	if opts.MaxWidth > 0 && tw > opts.MaxWidth {
		th = th * opts.MaxWidth / tw
		tw = opts.MaxWidth
	}
	if opts.MaxHeight > 0 && th > opts.MaxHeight {
		tw = tw * opts.MaxHeight / th
		th = opts.MaxHeight
	}
	if tw == w && th == h {
		return im
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), im, b, xdraw.Src, nil)
	return dst
}

// exifOrientation reports the rotation (counter-clockwise degrees:
// 0, 90, 180, or -90) and horizontal flip needed to display b
// upright. Missing or unreadable EXIF means no correction.
func exifOrientation(b []byte) (angle int, flipped bool) {
	ex, err := exif.Decode(bytes.NewReader(b))
	if err != nil {
		return 0, false
	}
	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return 0, false
	}
	o, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	switch o {
	case 2:
		return 0, true
	case 3:
		return 180, false
	case 4:
		return 180, true
	case 5:
		return -90, true
	case 6:
		return -90, false
	case 7:
		return 90, true
	case 8:
		return 90, false
	}
	return 0, false
}

// orient returns im rotated counter-clockwise by angle degrees, then
// flipped horizontally if flipped is set.
func orient(im image.Image, angle int, flipped bool) image.Image {
	b := im.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.RGBA
	switch angle {
	case 90, -90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	default:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := im.At(b.Min.X+x, b.Min.Y+y)
			var dx, dy int
			switch angle {
			case 90:
				dx, dy = y, w-1-x
			case -90:
				dx, dy = h-1-y, x
			case 180, -180:
				dx, dy = w-1-x, h-1-y
			default:
				dx, dy = x, y
			}
			dst.Set(dx, dy, px)
		}
	}
	if flipped {
		fb := dst.Bounds()
		for y := fb.Min.Y; y < fb.Max.Y; y++ {
			for x := 0; x < fb.Dx()/2; x++ {
				l, r := fb.Min.X+x, fb.Max.X-1-x
				pl, pr := dst.At(l, y), dst.At(r, y)
				dst.Set(l, y, pr)
				dst.Set(r, y, pl)
			}
		}
	}
	return dst
}

// decodeSVG rasterizes SVG bytes at the bounding size from opts, or
// at the document's own size if unbounded.
func decodeSVG(b []byte, opts *DecodeOpts) (image.Image, Config, error) {
	var c Config
	icon, err := oksvg.ReadIconStream(bytes.NewReader(b))
	if err != nil {
		return nil, c, err
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 512, 512
	}
	tw, th := w, h
	if opts != nil {
		if opts.MaxWidth > 0 && tw > opts.MaxWidth {
			th = th * opts.MaxWidth / tw
			tw = opts.MaxWidth
		}
		if opts.MaxHeight > 0 && th > opts.MaxHeight {
			tw = tw * opts.MaxHeight / th
			th = opts.MaxHeight
		}
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	ramSize := int64(tw) * int64(th) * 4
	if ramSize > maxDecodeBytes {
		return nil, c, errTooLarge
	}
	if err := decodeSem.Acquire(ramSize); err != nil {
		return nil, c, err
	}
	defer decodeSem.Release(ramSize)

	rgba := image.NewRGBA(image.Rect(0, 0, tw, th))
	scanner := rasterx.NewScannerGV(tw, th, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(tw, th, scanner)
	icon.SetTarget(0, 0, float64(tw), float64(th))
	icon.Draw(dasher, 1.0)

	c.Format = "svg"
	// Rasterizing is always a re-rendering; the source bytes are
	// not an encoding of the pixels.
	c.Modified = true
	c.Width, c.Height = tw, th
	return rgba, c, nil
}
