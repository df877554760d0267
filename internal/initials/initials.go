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

// Package initials synthesizes placeholder avatar images: a single
// letter centered on a colored circular badge. They are cheap to
// regenerate, so callers keep them in memory only.
package initials

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce sync.Once
	badgeTTF *sfnt.Font
	fontErr  error
)

func badgeFont() (*sfnt.Font, error) {
	fontOnce.Do(func() {
		badgeTTF, fontErr = opentype.Parse(goregular.TTF)
	})
	return badgeTTF, fontErr
}

// circle is an alpha mask for a filled circle of radius r centered
// on p.
type circle struct {
	p image.Point
	r int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.p.X-c.r, c.p.Y-c.r, c.p.X+c.r, c.p.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	xx, yy := float64(x-c.p.X)+0.5, float64(y-c.p.Y)+0.5
	if math.Hypot(xx, yy) < float64(c.r) {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

// Draw renders letter centered on a dim×dim circular badge filled
// with bg, in fg. An empty letter yields a plain badge. dim must be
// positive.
func Draw(letter string, dim int, bg, fg color.Color) (image.Image, error) {
	dst := image.NewRGBA(image.Rect(0, 0, dim, dim))
	center := image.Pt(dim/2, dim/2)
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(bg), image.Point{},
		&circle{p: center, r: dim / 2}, image.Point{}, draw.Over)
	if letter == "" {
		return dst, nil
	}

	f, err := badgeFont()
	if err != nil {
		return nil, err
	}
	// At 72 DPI one point is one pixel, so the face size is the
	// glyph height in pixels.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(dim) * 0.52,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	adv := d.MeasureString(letter)
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(dim)/2 - adv/2,
		Y: fixed.I(dim)/2 + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(letter)
	return dst, nil
}
