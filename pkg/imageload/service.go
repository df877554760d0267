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

// Package imageload loads, derives, and caches the images shown by
// the wallet UI: remote pictures, domain avatars, currency and app
// icons, generated initials badges, and QR codes.
//
// All of them sit behind one keyed cache: a cost-bounded memory
// cache of decoded images in front of an optional persistent disk
// store of encoded bytes, with at most one in-flight derivation per
// key no matter how many callers ask concurrently.
package imageload

import (
	"context"
	"expvar"
	"fmt"
	"image"
	"log"
	"strings"

	"go4.org/syncutil/singleflight"

	"walletkit.org/imageload/internal/images"
	"walletkit.org/imageload/pkg/diskstore"
	"walletkit.org/imageload/pkg/lru"
	"walletkit.org/imageload/pkg/qrcode"
)

const (
	// MaxImageDim is the pixel bound applied to general images
	// (remote pictures, QR codes).
	MaxImageDim = 512

	// MaxIconDim is the smaller pixel bound applied to currency
	// and app icons.
	MaxIconDim = 256

	// DefaultMemCacheBytes is the default ceiling on decoded
	// pixel bytes held in memory.
	DefaultMemCacheBytes = 50 << 20
)

var (
	imageBytesFetchedVar = expvar.NewInt("imageload-bytes-fetched")
	memHitsVar           = expvar.NewInt("imageload-mem-hits")
	diskHitsVar          = expvar.NewInt("imageload-disk-hits")
	derivationsVar       = expvar.NewInt("imageload-derivations")
)

// A QRGenerator renders a QR code image for a URL.
type QRGenerator interface {
	Generate(url string, opts qrcode.Options) (image.Image, error)
}

type qrGenerator struct{}

func (qrGenerator) Generate(url string, opts qrcode.Options) (image.Image, error) {
	return qrcode.Generate(url, opts)
}

// CoinIconURLFunc maps a ticker to its provider icon URL sized up to
// maxDim pixels. Returning "" means no icon is available.
type CoinIconURLFunc func(ticker string, maxDim int) string

func defaultCoinIconURL(ticker string, maxDim int) string {
	if ticker == "" {
		return ""
	}
	return fmt.Sprintf("https://cryptoicons.org/api/icon/%s/%d", strings.ToLower(ticker), maxDim)
}

// Config configures a Service. The zero value is usable: HTTP
// fetching, built-in QR generation, default icon provider, no disk
// persistence.
type Config struct {
	// Fetcher downloads remote bytes. Nil means a plain HTTP
	// fetcher honoring the context's client.
	Fetcher Fetcher

	// QR renders QR codes. Nil means the built-in rsc.io/qr-based
	// generator.
	QR QRGenerator

	// Disk, if non-nil, persists derived images across restarts.
	Disk *diskstore.Store

	// CoinIconURL maps tickers to provider icon URLs. Nil means
	// the default provider.
	CoinIconURL CoinIconURLFunc

	// MemCacheBytes overrides DefaultMemCacheBytes if positive.
	MemCacheBytes int64
}

// Service is the wallet's image loading service.
// It is safe for concurrent use by multiple goroutines.
type Service struct {
	fetcher     Fetcher
	qr          QRGenerator
	disk        *diskstore.Store
	coinIconURL CoinIconURLFunc

	mem *lru.Cache

	// single guards against duplicate concurrent derivations of
	// the same key. (e.g. a currency list showing the same coin
	// icon in many rows at once)
	single singleflight.Group
}

// NewService returns a Service for cfg.
func NewService(cfg Config) *Service {
	s := &Service{
		fetcher:     cfg.Fetcher,
		qr:          cfg.QR,
		disk:        cfg.Disk,
		coinIconURL: cfg.CoinIconURL,
	}
	if s.fetcher == nil {
		s.fetcher = httpFetcher{}
	}
	if s.qr == nil {
		s.qr = qrGenerator{}
	}
	if s.coinIconURL == nil {
		s.coinIconURL = defaultCoinIconURL
	}
	ceiling := cfg.MemCacheBytes
	if ceiling <= 0 {
		ceiling = DefaultMemCacheBytes
	}
	s.mem = lru.New(ceiling)
	return s
}

// resolve is the common cache path for leaf sources: memory cache,
// then one shared in-flight derivation per key, which itself checks
// the disk store before calling derive. maxDim bounds the decode of
// disk bytes. A derivation yielding no image is not cached; the next
// request for the key retries from scratch.
//
// derive returns the decoded image plus, when the result should be
// persisted, its encoded bytes.
func (s *Service) resolve(ctx context.Context, key string, maxDim int, persist bool, derive func(ctx context.Context) (image.Image, []byte, error)) image.Image {
	if im, ok := s.mem.Get(key); ok {
		memHitsVar.Add(1)
		return im.(image.Image)
	}
	v, err := s.single.Do(key, func() (interface{}, error) {
		// A racing caller may have populated the cache between
		// our miss and winning the flight.
		if im, ok := s.mem.Get(key); ok {
			memHitsVar.Add(1)
			return im.(image.Image), nil
		}
		if s.disk != nil {
			if data, err := s.disk.Get(key); err == nil {
				if im, _, err := images.DecodeBytes(data, &images.DecodeOpts{MaxWidth: maxDim, MaxHeight: maxDim}); err == nil {
					diskHitsVar.Add(1)
					s.mem.Add(key, im, imageCost(im))
					return im, nil
				}
				// Unreadable bytes are a miss; rederive.
			}
		}
		derivationsVar.Add(1)
		im, encoded, err := derive(ctx)
		if err != nil || im == nil {
			return nil, err
		}
		s.mem.Add(key, im, imageCost(im))
		if persist && s.disk != nil && encoded != nil {
			if err := s.disk.Put(key, encoded); err != nil {
				log.Printf("imageload: storing %q: %v", key, err)
			}
		}
		return im, nil
	})
	if err != nil {
		log.Printf("imageload: deriving %q: %v", key, err)
		return nil
	}
	if v == nil {
		return nil
	}
	return v.(image.Image)
}

// imageCost estimates the decoded memory footprint of im.
func imageCost(im image.Image) int64 {
	b := im.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// ClearMemory drops every decoded image from the memory cache. The
// disk store is unaffected.
func (s *Service) ClearMemory() {
	s.mem.Clear()
}

// ClearStored wipes the persistent disk store, if any. The memory
// cache is unaffected.
func (s *Service) ClearStored() error {
	if s.disk == nil {
		return nil
	}
	return s.disk.Wipe()
}
