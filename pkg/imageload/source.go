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
	"fmt"
	"image/color"
	"strings"
	"unicode"

	"walletkit.org/imageload/pkg/qrcode"
)

// Size is a requested display size in points.
type Size struct {
	Width, Height int
}

func (s Size) tag() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// maxDim returns the larger of the two dimensions.
func (s Size) maxDim() int {
	if s.Width > s.Height {
		return s.Width
	}
	return s.Height
}

// DownsampleSpec describes a bounded pixel size for a decoded image:
// the target size times the display scale factor. It is purely
// descriptive and carries no identity.
type DownsampleSpec struct {
	Size  Size
	Scale int
}

// MaxDim returns the target pixel dimension,
// max(width, height) * scale.
func (d DownsampleSpec) MaxDim() int {
	m := d.Size.maxDim()
	if d.Scale > 1 {
		m *= d.Scale
	}
	return m
}

// Style selects the color scheme of a generated initials badge.
type Style int

const (
	StyleDefault Style = iota
	StyleAccent
	StyleGray
)

func (st Style) String() string {
	switch st {
	case StyleAccent:
		return "accent"
	case StyleGray:
		return "gray"
	default:
		return "default"
	}
}

func (st Style) colors() (bg, fg color.Color) {
	switch st {
	case StyleAccent:
		return color.RGBA{R: 0x0d, G: 0x67, B: 0xfe, A: 0xff}, color.White
	case StyleGray:
		return color.RGBA{R: 0xe1, G: 0xe3, B: 0xe8, A: 0xff}, color.RGBA{R: 0x3a, G: 0x40, B: 0x4c, A: 0xff}
	default:
		return color.RGBA{R: 0x3a, G: 0x40, B: 0x4c, A: 0xff}, color.White
	}
}

// A Source describes a requested image. Sources are immutable
// values; their cache key is a pure function of their fields, and
// two sources naming the same visual asset produce equal keys.
type Source interface {
	// Key returns the deterministic cache key for the source.
	Key() string
}

// URLSource requests the image at a remote URL.
type URLSource struct {
	URL string

	// maxDim, if positive, overrides the general downsample bound
	// for this fetch. Not part of the key: a URL names one asset.
	maxDim int
}

func (s URLSource) Key() string { return s.URL }

// InitialsSource requests a generated one-letter badge for a name.
type InitialsSource struct {
	Name  string
	Size  Size
	Style Style
}

func (s InitialsSource) Key() string {
	return fmt.Sprintf("initials:%s:%s:%s", firstLetter(s.Name), s.Size.tag(), s.Style)
}

// firstLetter returns the uppercased first rune of name, or "" if
// name is empty.
func firstLetter(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return ""
}

// DomainSource requests a domain's profile picture.
type DomainSource struct {
	Domain Domain
}

func (s DomainSource) Key() string {
	if p := s.Domain.ProfilePicture; p != nil {
		return p.Path
	}
	return "domainpfp:" + s.Domain.Name + ":none"
}

// DomainInitialsSource requests the initials badge for a domain
// name, in the accent style.
type DomainInitialsSource struct {
	Domain Domain
	Size   Size
}

func (s DomainInitialsSource) Key() string {
	return s.initials().Key()
}

func (s DomainInitialsSource) initials() InitialsSource {
	return InitialsSource{Name: s.Domain.Name, Size: s.Size, Style: StyleAccent}
}

// DomainOrInitialsSource requests a domain's profile picture,
// falling back to its initials badge when the domain has none.
type DomainOrInitialsSource struct {
	Domain Domain
	Size   Size
}

func (s DomainOrInitialsSource) Key() string {
	if s.Domain.ProfilePicture != nil {
		return DomainSource{Domain: s.Domain}.Key()
	}
	return DomainInitialsSource{Domain: s.Domain, Size: s.Size}.Key()
}

// CurrencySource requests a coin's provider icon, falling back to a
// ticker initials badge.
type CurrencySource struct {
	Coin  Coin
	Size  Size
	Style Style
}

func (s CurrencySource) Key() string {
	return fmt.Sprintf("currency:%s:%s:%s", s.Coin.Ticker, s.Size.tag(), s.Style)
}

// AppIconSource requests a WalletConnect app icon, falling back to a
// gray initials badge of the display name. Construct it with
// WCAppIcon or ConnectedAppIcon.
type AppIconSource struct {
	App  AppInfo
	Size Size
}

// WCAppIcon is the icon source for an app from a WalletConnect
// pairing proposal.
func WCAppIcon(app AppInfo, size Size) AppIconSource {
	return AppIconSource{App: app, Size: size}
}

// ConnectedAppIcon is the icon source for a stored connected app.
// It keys identically to WCAppIcon for the same display name, so the
// two share cache entries.
func ConnectedAppIcon(app AppInfo, size Size) AppIconSource {
	return AppIconSource{App: app, Size: size}
}

func (s AppIconSource) Key() string {
	return fmt.Sprintf("app:%s:%s", s.App.DisplayName, s.Size.tag())
}

// QRCodeSource requests a rendered QR code for a URL.
type QRCodeSource struct {
	URL     string
	Options qrcode.Options
}

func (s QRCodeSource) Key() string {
	return fmt.Sprintf("qr:%s:%s", s.URL, strings.Join(s.Options.Tags(), ","))
}
