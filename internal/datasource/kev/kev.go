// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package kev

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/cache"
	"github.com/bonial-oss/sentinel-risk/internal/datasource"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

const (
	cacheFilename   = "known_exploited_vulnerabilities.json"
	primaryURL      = "https://www.cisa.gov/sites/default/files/feeds/known_exploited_vulnerabilities.json"
	fallbackURL     = "https://raw.githubusercontent.com/cisagov/kev-data/main/known_exploited_vulnerabilities.json"
	maxResponseSize = 50 * 1024 * 1024 // 50 MB
)

// Source provides access to CISA KEV data with caching support.
type Source struct {
	feed    datasource.Feed
	client  *http.Client
	urls    []string
	entries map[string]types.KEVEntry
}

// Option configures a Source.
type Option func(*Source)

// WithURLs replaces the download URLs, tried in order.
func WithURLs(urls ...string) Option {
	return func(s *Source) { s.urls = urls }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.client = c }
}

// NewSource creates a new KEV data source with cache stored under cacheDir/kev/.
func NewSource(cacheDir string, opts ...Option) *Source {
	s := &Source{
		urls:    []string{primaryURL, fallbackURL},
		entries: make(map[string]types.KEVEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.feed = datasource.Feed{
		Name:     "kev",
		Filename: cacheFilename,
		Cache:    cache.New(filepath.Join(cacheDir, "kev")),
		Fetch:    s.download,
	}
	return s
}

// Load fetches the catalog through the cache and indexes it by CVE id.
func (s *Source) Load(ctx context.Context, skipUpdate bool) error {
	data, err := s.feed.Load(ctx, skipUpdate)
	if err != nil {
		return goerr.Wrap(err, "loading KEV data")
	}
	return s.parseJSON(data)
}

// Lookup returns the KEV entry for the given CVE ID, or nil if not found.
func (s *Source) Lookup(cveID string) *types.KEVEntry {
	entry, ok := s.entries[cveID]
	if !ok {
		return nil
	}
	return &entry
}

// Len returns the number of catalog entries loaded.
func (s *Source) Len() int { return len(s.entries) }

// download tries each URL in order and returns the first success.
func (s *Source) download(ctx context.Context) ([]byte, error) {
	var errs []error
	for _, url := range s.urls {
		data, err := datasource.Download(ctx, s.client, url, maxResponseSize, nil)
		if err == nil {
			return data, nil
		}
		errs = append(errs, err)
	}
	return nil, goerr.New("all KEV mirrors failed", goerr.V("errors", errs))
}

// parseJSON unmarshals the KEV catalog JSON and populates the entries map.
func (s *Source) parseJSON(data []byte) error {
	s.entries = make(map[string]types.KEVEntry)

	var catalog types.KEVCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return goerr.Wrap(err, "unmarshaling KEV catalog")
	}

	for _, vuln := range catalog.Vulnerabilities {
		s.entries[vuln.CVEID] = vuln
	}

	return nil
}
