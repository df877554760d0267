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

import "strings"

// Domain is a named domain item as exposed by the wallet's domain
// manager.
type Domain struct {
	Name string

	// ProfilePicture is the domain's avatar reference, or nil if
	// the domain has none.
	ProfilePicture *ProfilePicture
}

// ProfilePicture references a domain avatar image.
type ProfilePicture struct {
	// NFT reports whether the picture is an NFT asset rather than
	// a plain uploaded image.
	NFT bool

	// Path is the image URL.
	Path string
}

// Coin identifies a currency in the wallet's coin list.
type Coin struct {
	Ticker string
	Name   string
}

// AppInfo describes a WalletConnect app, either from a pairing
// proposal or from stored connected-app state.
type AppInfo struct {
	DisplayName string
	IconURLs    []string
}

// preferredIconURL returns the PNG-suffixed candidate among the
// app's icon URLs if one exists, else the first URL, else "".
func (a AppInfo) preferredIconURL() string {
	for _, u := range a.IconURLs {
		if strings.HasSuffix(strings.ToLower(u), ".png") {
			return u
		}
	}
	if len(a.IconURLs) > 0 {
		return a.IconURLs[0]
	}
	return ""
}
