// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package epss

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/cache"
	"github.com/bonial-oss/sentinel-risk/internal/datasource"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

const (
	cacheFilename       = "epss_scores.csv"
	defaultBaseURL      = "https://epss.empiricalsecurity.com"
	maxDecompressedSize = 100 * 1024 * 1024 // 100 MB
)

// Source provides access to EPSS data with caching support.
type Source struct {
	feed         datasource.Feed
	client       *http.Client
	baseURL      string
	now          func() time.Time
	entries      map[string]types.EPSSEntry
	modelVersion string
	scoreDate    string
}

// Option configures a Source.
type Option func(*Source)

// WithBaseURL replaces the feed host.
func WithBaseURL(u string) Option {
	return func(s *Source) { s.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.client = c }
}

// WithClock overrides time.Now when choosing the feed date.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// NewSource creates a new EPSS data source with cache stored under cacheDir/epss/.
func NewSource(cacheDir string, opts ...Option) *Source {
	s := &Source{
		baseURL: defaultBaseURL,
		now:     time.Now,
		entries: make(map[string]types.EPSSEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.feed = datasource.Feed{
		Name:     "epss",
		Filename: cacheFilename,
		Cache:    cache.New(filepath.Join(cacheDir, "epss")),
		Fetch:    s.download,
	}
	return s
}

// Load fetches the scores through the cache and indexes them by CVE id.
func (s *Source) Load(ctx context.Context, skipUpdate bool) error {
	data, err := s.feed.Load(ctx, skipUpdate)
	if err != nil {
		return goerr.Wrap(err, "loading EPSS data")
	}
	return s.parseCSV(data)
}

// Lookup returns the EPSS entry for the given CVE ID, or nil if not found.
func (s *Source) Lookup(cveID string) *types.EPSSEntry {
	entry, ok := s.entries[cveID]
	if !ok {
		return nil
	}
	return &entry
}

// ModelVersion returns the model version string from the EPSS CSV header.
func (s *Source) ModelVersion() string {
	return s.modelVersion
}

// ScoreDate returns the score date string from the EPSS CSV header.
func (s *Source) ScoreDate() string {
	return s.scoreDate
}

// download fetches the gzip-compressed EPSS CSV for today's date.
// If today's file is not available, it falls back to yesterday's date.
func (s *Source) download(ctx context.Context) ([]byte, error) {
	now := s.now().UTC()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	data, err := s.downloadForDate(ctx, today)
	if err == nil {
		return data, nil
	}

	data, err2 := s.downloadForDate(ctx, yesterday)
	if err2 == nil {
		return data, nil
	}

	return nil, goerr.Wrap(errors.Join(err, err2), "no EPSS file for today or yesterday",
		goerr.V("today", today),
		goerr.V("yesterday", yesterday))
}

func (s *Source) downloadForDate(ctx context.Context, date string) ([]byte, error) {
	url := fmt.Sprintf("%s/epss_scores-%s.csv.gz", s.baseURL, date)
	return datasource.Download(ctx, s.client, url, maxDecompressedSize, func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	})
}

// parseCSV parses the EPSS CSV data and populates the entries map.
// It extracts model_version and score_date from the comment header line.
func (s *Source) parseCSV(data []byte) error {
	s.entries = make(map[string]types.EPSSEntry)
	s.modelVersion = ""
	s.scoreDate = ""

	lines := strings.Split(string(data), "\n")

	dataStart := 0
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			dataStart = i
			break
		}
		s.parseCommentLine(line)
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[dataStart:], "\n")))

	// Header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return goerr.Wrap(err, "reading CSV header")
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "reading CSV record")
		}
		if len(record) < 3 {
			continue
		}

		score, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return goerr.Wrap(err, "parsing EPSS score", goerr.V("cve", record[0]))
		}
		percentile, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return goerr.Wrap(err, "parsing EPSS percentile", goerr.V("cve", record[0]))
		}

		s.entries[record[0]] = types.EPSSEntry{
			CVE:        record[0],
			Score:      score,
			Percentile: percentile,
		}
	}

	return nil
}

// parseCommentLine extracts metadata from a comment line like:
// #model_version:v2025.03.14,score_date:2026-02-12T00:00:00+0000
func (s *Source) parseCommentLine(line string) {
	for _, part := range strings.Split(strings.TrimPrefix(line, "#"), ",") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "model_version":
			s.modelVersion = strings.TrimSpace(value)
		case "score_date":
			s.scoreDate = strings.TrimSpace(value)
		}
	}
}
