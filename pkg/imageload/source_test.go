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
	"strings"
	"testing"

	"walletkit.org/imageload/pkg/qrcode"
)

var size24 = Size{Width: 24, Height: 24}

func TestKeyDeterminism(t *testing.T) {
	pairs := []struct {
		name string
		a, b Source
	}{
		{"url", URLSource{URL: "https://x.test/a.png"}, URLSource{URL: "https://x.test/a.png"}},
		{"initials", InitialsSource{Name: "matt", Size: size24, Style: StyleAccent}, InitialsSource{Name: "matt", Size: size24, Style: StyleAccent}},
		{"initials case-folds to first letter", InitialsSource{Name: "matt", Size: size24}, InitialsSource{Name: "Mike", Size: size24}},
		{"currency", CurrencySource{Coin: Coin{Ticker: "BTC"}, Size: size24, Style: StyleGray}, CurrencySource{Coin: Coin{Ticker: "BTC", Name: "Bitcoin"}, Size: size24, Style: StyleGray}},
		{"qr", QRCodeSource{URL: "https://w.test", Options: qrcode.Options{Level: qrcode.H, MinSize: 512}}, QRCodeSource{URL: "https://w.test", Options: qrcode.Options{Level: qrcode.H, MinSize: 512}}},
	}
	for _, p := range pairs {
		if ka, kb := p.a.Key(), p.b.Key(); ka != kb {
			t.Errorf("%s: keys differ: %q vs %q", p.name, ka, kb)
		}
	}
}

func TestDistinctKeys(t *testing.T) {
	srcs := []Source{
		URLSource{URL: "https://x.test/a.png"},
		URLSource{URL: "https://x.test/b.png"},
		InitialsSource{Name: "matt", Size: size24, Style: StyleAccent},
		InitialsSource{Name: "matt", Size: size24, Style: StyleGray},
		InitialsSource{Name: "matt", Size: Size{Width: 40, Height: 40}, Style: StyleAccent},
		InitialsSource{Name: "zoe", Size: size24, Style: StyleAccent},
		CurrencySource{Coin: Coin{Ticker: "BTC"}, Size: size24},
		CurrencySource{Coin: Coin{Ticker: "ETH"}, Size: size24},
		AppIconSource{App: AppInfo{DisplayName: "Swapper"}, Size: size24},
		QRCodeSource{URL: "https://x.test/a.png", Options: qrcode.Options{MinSize: 512}},
	}
	seen := map[string]Source{}
	for _, s := range srcs {
		k := s.Key()
		if prev, dup := seen[k]; dup {
			t.Errorf("key %q shared by %#v and %#v", k, prev, s)
		}
		seen[k] = s
	}
}

func TestEmptyInitialsKey(t *testing.T) {
	k := InitialsSource{Name: "", Size: size24, Style: StyleAccent}.Key()
	if k == "" {
		t.Fatal("empty name produced empty key")
	}
	k2 := InitialsSource{Name: "", Size: size24, Style: StyleAccent}.Key()
	if k != k2 {
		t.Fatalf("empty-name key not deterministic: %q vs %q", k, k2)
	}
}

func TestDomainKeys(t *testing.T) {
	withPic := Domain{Name: "alice.wallet", ProfilePicture: &ProfilePicture{Path: "https://pfp.test/alice.png"}}
	without := Domain{Name: "alice.wallet"}

	if got, want := (DomainSource{Domain: withPic}).Key(), "https://pfp.test/alice.png"; got != want {
		t.Errorf("domain key = %q; want picture path %q", got, want)
	}
	if got, want := (DomainOrInitialsSource{Domain: withPic, Size: size24}).Key(), (DomainSource{Domain: withPic}).Key(); got != want {
		t.Errorf("domain-or-initials (with picture) key = %q; want %q", got, want)
	}
	if got, want := (DomainOrInitialsSource{Domain: without, Size: size24}).Key(), (DomainInitialsSource{Domain: without, Size: size24}).Key(); got != want {
		t.Errorf("domain-or-initials (no picture) key = %q; want %q", got, want)
	}
	if got, want := (DomainInitialsSource{Domain: without, Size: size24}).Key(), (InitialsSource{Name: "alice.wallet", Size: size24, Style: StyleAccent}).Key(); got != want {
		t.Errorf("domain initials key = %q; want %q", got, want)
	}
}

func TestAppIconKeysShared(t *testing.T) {
	app := AppInfo{DisplayName: "Swapper", IconURLs: []string{"https://a.test/i.svg"}}
	wc := WCAppIcon(app, size24).Key()
	conn := ConnectedAppIcon(AppInfo{DisplayName: "Swapper"}, size24).Key()
	if wc != conn {
		t.Errorf("wc key %q != connected key %q; same display name should share the asset", wc, conn)
	}
}

func TestQRKeyTags(t *testing.T) {
	k := QRCodeSource{URL: "https://w.test/pay", Options: qrcode.Options{Level: qrcode.Q, MinSize: 300}}.Key()
	if !strings.Contains(k, "https://w.test/pay") {
		t.Errorf("qr key %q does not contain url", k)
	}
	if !strings.Contains(k, "ecQ") || !strings.Contains(k, "min300") {
		t.Errorf("qr key %q missing option tags", k)
	}
}

func TestFirstLetter(t *testing.T) {
	cases := []struct{ in, want string }{
		{"matt", "M"},
		{"Ether", "E"},
		{"", ""},
		{"0xdead", "0"},
		{"ñandu", "Ñ"},
	}
	for _, c := range cases {
		if got := firstLetter(c.in); got != c.want {
			t.Errorf("firstLetter(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}
