// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTTL is how long downloaded feed data is considered fresh.
	DefaultTTL = 24 * time.Hour

	metadataFilename = "metadata.json"
)

// Metadata records when the cached data was downloaded.
type Metadata struct {
	DownloadedAt string `json:"downloaded_at"`
}

// Cache stores one feed's data file and its download timestamp in a
// directory.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache rooted at dir. The directory is created on first Store.
func New(dir string, opts ...Option) *Cache {
	c := &Cache{dir: dir, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// IsFresh reports whether data was stored less than the TTL ago.
func (c *Cache) IsFresh() bool {
	age, err := c.Age()
	if err != nil {
		return false
	}
	return age < c.ttl
}

// Age returns the time since the data was stored.
func (c *Cache) Age() (time.Duration, error) {
	meta, err := c.loadMetadata()
	if err != nil {
		return 0, err
	}
	downloadedAt, err := time.Parse(time.RFC3339, meta.DownloadedAt)
	if err != nil {
		return 0, goerr.Wrap(err, "parsing cache timestamp", goerr.V("value", meta.DownloadedAt))
	}
	return c.now().Sub(downloadedAt), nil
}

// Store writes data under filename and stamps the download time.
func (c *Cache) Store(filename string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return goerr.Wrap(err, "creating cache dir", goerr.V("dir", c.dir))
	}
	dataPath := filepath.Join(c.dir, filename)
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return goerr.Wrap(err, "writing cache data", goerr.V("path", dataPath))
	}
	meta := Metadata{DownloadedAt: c.now().UTC().Format(time.RFC3339)}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return goerr.Wrap(err, "marshaling metadata")
	}
	metaPath := filepath.Join(c.dir, metadataFilename)
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return goerr.Wrap(err, "writing metadata", goerr.V("path", metaPath))
	}
	return nil
}

// Load reads the cached file.
func (c *Cache) Load(filename string) ([]byte, error) {
	path := filepath.Join(c.dir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "reading cache data", goerr.V("path", path))
	}
	return data, nil
}

// Exists reports whether the cached file is present.
func (c *Cache) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(c.dir, filename))
	return err == nil
}

func (c *Cache) loadMetadata() (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, metadataFilename))
	if err != nil {
		return nil, goerr.Wrap(err, "reading cache metadata")
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, goerr.Wrap(err, "unmarshaling cache metadata")
	}
	return &meta, nil
}
