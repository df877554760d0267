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

// Package qrcode renders QR code images for wallet addresses and
// deep links, on top of rsc.io/qr.
package qrcode

import (
	"fmt"
	"image"
	"sort"

	"rsc.io/qr"
)

// Level is the QR error correction level.
type Level int

const (
	// L recovers from up to 20% erroneous data.
	L Level = iota
	// M recovers from up to 38% erroneous data. The default.
	M
	// Q recovers from up to 55% erroneous data.
	Q
	// H recovers from up to 65% erroneous data.
	H
)

func (l Level) String() string {
	switch l {
	case L:
		return "L"
	case Q:
		return "Q"
	case H:
		return "H"
	default:
		return "M"
	}
}

func (l Level) qrLevel() qr.Level {
	switch l {
	case L:
		return qr.L
	case Q:
		return qr.Q
	case H:
		return qr.H
	default:
		return qr.M
	}
}

// Options control the rendered code. The zero value means error
// correction level M at the encoder's default pixel scale.
type Options struct {
	Level Level

	// MinSize, if positive, is the minimum width and height in
	// pixels of the rendered image. The module scale is grown
	// until the code (including its quiet zone) covers it.
	MinSize int
}

// Tags returns a stable, sorted representation of o, for use in
// cache keys.
func (o Options) Tags() []string {
	tags := []string{
		"ec" + o.Level.String(),
		fmt.Sprintf("min%d", o.MinSize),
	}
	sort.Strings(tags)
	return tags
}

// Generate encodes text as a QR code image.
func Generate(text string, o Options) (image.Image, error) {
	c, err := qr.Encode(text, o.Level.qrLevel())
	if err != nil {
		return nil, err
	}
	if o.MinSize > 0 {
		// The rendered image is (Size + 2*quiet zone) modules
		// of Scale pixels each.
		side := c.Size + 8
		if scale := (o.MinSize + side - 1) / side; scale > c.Scale {
			c.Scale = scale
		}
	}
	return c.Image(), nil
}
