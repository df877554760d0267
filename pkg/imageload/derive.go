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

package imageload

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"walletkit.org/imageload/internal/images"
	"walletkit.org/imageload/internal/initials"
)

// initialsScale rasterizes badges at 2x their point size so they
// stay sharp on high-density screens.
const initialsScale = 2

// defaultInitialsDim is the badge pixel size when the request
// carries a zero Size.
const defaultInitialsDim = 80

// Get returns the image for src, deriving and caching it on a miss.
//
// Every failure (network, decode, missing source data, generation)
// collapses to a nil image so UI callers can fall through to their
// placeholder; causes are logged here. Nil results are never cached,
// so a later request retries from scratch.
func (s *Service) Get(ctx context.Context, src Source) image.Image {
	switch v := src.(type) {
	case URLSource:
		maxDim := v.maxDim
		if maxDim <= 0 {
			maxDim = MaxImageDim
		}
		return s.resolve(ctx, v.Key(), maxDim, true, func(ctx context.Context) (image.Image, []byte, error) {
			return s.deriveURL(ctx, v.URL, maxDim)
		})

	case InitialsSource:
		// Cheap to regenerate; cached in memory only.
		return s.resolve(ctx, v.Key(), 0, false, func(context.Context) (image.Image, []byte, error) {
			return s.deriveInitials(v)
		})

	case DomainSource:
		p := v.Domain.ProfilePicture
		if p == nil || p.Path == "" {
			return nil
		}
		return s.Get(ctx, URLSource{URL: p.Path})

	case DomainInitialsSource:
		return s.Get(ctx, v.initials())

	case DomainOrInitialsSource:
		if im := s.Get(ctx, DomainSource{Domain: v.Domain}); im != nil {
			return im
		}
		return s.Get(ctx, DomainInitialsSource{Domain: v.Domain, Size: v.Size})

	case CurrencySource:
		if u := s.coinIconURL(v.Coin.Ticker, MaxIconDim); u != "" {
			if im := s.Get(ctx, URLSource{URL: u, maxDim: MaxIconDim}); im != nil {
				return im
			}
		}
		return s.Get(ctx, InitialsSource{Name: v.Coin.Ticker, Size: v.Size, Style: v.Style})

	case AppIconSource:
		if u := v.App.preferredIconURL(); u != "" {
			if im := s.Get(ctx, URLSource{URL: u, maxDim: MaxIconDim}); im != nil {
				return im
			}
		}
		return s.Get(ctx, InitialsSource{Name: v.App.DisplayName, Size: v.Size, Style: StyleGray})

	case QRCodeSource:
		return s.resolve(ctx, v.Key(), MaxImageDim, true, func(context.Context) (image.Image, []byte, error) {
			return s.deriveQR(v)
		})
	}
	return nil
}

func (s *Service) deriveURL(ctx context.Context, url string, maxDim int) (image.Image, []byte, error) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	imageBytesFetchedVar.Add(int64(len(data)))
	im, conf, err := images.DecodeBytes(data, &images.DecodeOpts{MaxWidth: maxDim, MaxHeight: maxDim})
	if err != nil {
		return nil, nil, err
	}
	encoded := data
	if conf.Modified {
		// Downsampled or reoriented; the fetched bytes no
		// longer describe the result.
		encoded, err = encodeImage(im, conf.Format)
		if err != nil {
			return nil, nil, err
		}
	}
	return im, encoded, nil
}

func (s *Service) deriveInitials(v InitialsSource) (image.Image, []byte, error) {
	dim := DownsampleSpec{Size: v.Size, Scale: initialsScale}.MaxDim()
	if dim <= 0 {
		dim = defaultInitialsDim
	}
	bg, fg := v.Style.colors()
	im, err := initials.Draw(firstLetter(v.Name), dim, bg, fg)
	return im, nil, err
}

func (s *Service) deriveQR(v QRCodeSource) (image.Image, []byte, error) {
	opts := v.Options
	if opts.MinSize <= 0 {
		opts.MinSize = MaxImageDim
	}
	im, err := s.qr.Generate(v.URL, opts)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := encodeImage(im, "png")
	if err != nil {
		return nil, nil, err
	}
	return im, encoded, nil
}

// encodeImage encodes im for the disk store: PNG for formats that
// may carry transparency, JPEG otherwise.
func encodeImage(im image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png", "svg", "gif":
		err = png.Encode(&buf, im)
	default:
		err = jpeg.Encode(&buf, im, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
