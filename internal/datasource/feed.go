// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package datasource holds the download-and-cache logic shared by the threat
// intelligence feeds.
package datasource

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/cache"
)

// DefaultClient is used by feeds that are not given their own client.
var DefaultClient = &http.Client{Timeout: 60 * time.Second}

// FetchFunc downloads the raw feed content.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Feed binds a cached file to the function that refreshes it.
type Feed struct {
	Name     string
	Filename string
	Cache    *cache.Cache
	Fetch    FetchFunc
}

// Load returns the feed content, using the cache when appropriate.
//
// Logic:
//  1. If skipUpdate and cache exists -> return cached data.
//  2. If cache is fresh -> return cached data.
//  3. Download fresh data.
//  4. If download succeeds -> store in cache, return it.
//  5. If download fails and cache exists -> log a warning, return stale cache.
//  6. If download fails and no cache -> return error.
func (f *Feed) Load(ctx context.Context, skipUpdate bool) ([]byte, error) {
	logger := ctxlog.From(ctx)

	if skipUpdate && f.Cache.Exists(f.Filename) {
		logger.Debug("using cached feed without update check", "feed", f.Name)
		return f.Cache.Load(f.Filename)
	}

	if f.Cache.IsFresh() && f.Cache.Exists(f.Filename) {
		logger.Debug("using fresh cached feed", "feed", f.Name)
		return f.Cache.Load(f.Filename)
	}

	data, err := f.Fetch(ctx)
	if err == nil {
		if storeErr := f.Cache.Store(f.Filename, data); storeErr != nil {
			return nil, goerr.Wrap(storeErr, "storing feed data in cache", goerr.V("feed", f.Name))
		}
		logger.Info("downloaded feed", "feed", f.Name, "bytes", len(data))
		return data, nil
	}

	if f.Cache.Exists(f.Filename) {
		logger.Warn("failed to download feed, using stale cache", "feed", f.Name, "error", err)
		return f.Cache.Load(f.Filename)
	}

	return nil, goerr.Wrap(err, "downloading feed", goerr.V("feed", f.Name))
}

// Download GETs url and returns at most limit bytes of the response body.
// When decode is non-nil the body is passed through it first.
func Download(ctx context.Context, client *http.Client, url string, limit int64, decode func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "building request", goerr.V("url", url))
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "HTTP request failed", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, goerr.New("unexpected HTTP status",
			goerr.V("status", resp.StatusCode),
			goerr.V("url", url))
	}

	var body io.Reader = resp.Body
	if decode != nil {
		rc, err := decode(resp.Body)
		if err != nil {
			return nil, goerr.Wrap(err, "decoding response body", goerr.V("url", url))
		}
		defer rc.Close()
		body = rc
	}

	data, err := io.ReadAll(io.LimitReader(body, limit))
	if err != nil {
		return nil, goerr.Wrap(err, "reading response body", goerr.V("url", url))
	}
	return data, nil
}
