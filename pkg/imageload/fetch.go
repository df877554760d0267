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
	"context"
	"fmt"
	"io"
	"net/http"

	"go4.org/ctxutil"
	"golang.org/x/net/context/ctxhttp"
)

// A Fetcher downloads raw bytes for a URL. Implementations make a
// single attempt; retry policy belongs to the caller, and here the
// caller never retries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// maxFetchBytes caps a single image download. Anything larger is
// not something we would ever show at thumbnail sizes.
const maxFetchBytes = 8 << 20

// httpFetcher fetches over HTTP using the context's client
// (ctxutil.Client), defaulting to http.DefaultClient.
type httpFetcher struct{}

func (httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := ctxhttp.Get(ctx, ctxutil.Client(ctx), url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imageload: fetching %s: status %v", url, res.Status)
	}
	slurp, err := io.ReadAll(io.LimitReader(res.Body, maxFetchBytes+1))
	if err != nil {
		return nil, err
	}
	if len(slurp) > maxFetchBytes {
		return nil, fmt.Errorf("imageload: fetching %s: response larger than %d bytes", url, maxFetchBytes)
	}
	return slurp, nil
}
