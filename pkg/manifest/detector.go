package manifest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/buger/jsonparser"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of manifests remembered by a Detector.
const DefaultCacheSize = 256

// ErrMalformed is returned when a package.json cannot be read as a JSON object.
var ErrMalformed = errors.New("malformed package manifest")

// Detector finds the styling library declared by the nearest package.json.
//
// Results are cached per manifest path and modification time, so repeated
// calls in a long-running session only re-read a manifest after it changes.
// A Detector is safe for concurrent use.
type Detector struct {
	cache     *lru.Cache[cacheKey, cacheEntry]
	libraries []Library
	boundary  string
	logger    *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheKey struct {
	path    string
	modTime int64
	size    int64
}

// cacheEntry allows caching "no library" results.
type cacheEntry struct {
	library *Library
}

// Option configures a Detector.
type Option func(*Detector)

// WithLibraries replaces the supported library table.
func WithLibraries(libs []Library) Option {
	return func(d *Detector) {
		d.libraries = libs
	}
}

// WithBoundary stops the upward manifest search at dir (inclusive).
func WithBoundary(dir string) Option {
	return func(d *Detector) {
		if abs, err := filepath.Abs(dir); err == nil {
			d.boundary = abs
		}
	}
}

// NewDetector creates a detector with an LRU of cacheSize entries
// (DefaultCacheSize when cacheSize <= 0).
func NewDetector(cacheSize int, logger *slog.Logger, opts ...Option) (*Detector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[cacheKey, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest cache: %w", err)
	}

	d := &Detector{
		cache:     cache,
		libraries: SupportedLibraries,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DetectForFile runs Detect on the directory containing path.
func (d *Detector) DetectForFile(ctx context.Context, path string) (*Library, error) {
	return d.Detect(ctx, filepath.Dir(path))
}

// Detect walks from dir towards the filesystem root and returns the first
// supported library declared by the nearest package.json. It returns
// nil, nil when there is no manifest or no supported library in it.
func (d *Detector) Detect(ctx context.Context, dir string) (*Library, error) {
	manifestPath, info, err := d.FindManifest(ctx, dir)
	if err != nil {
		return nil, err
	}
	if manifestPath == "" {
		d.logger.Debug("no package manifest found", "dir", dir)
		return nil, nil
	}

	key := cacheKey{path: manifestPath, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if entry, ok := d.cache.Get(key); ok {
		d.hits.Add(1)
		return entry.library, nil
	}
	d.misses.Add(1)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	lib, err := d.match(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	d.cache.Add(key, cacheEntry{library: lib})
	if lib != nil {
		d.logger.Debug("styling library detected", "manifest", manifestPath, "package", lib.PackageName)
	}
	return lib, nil
}

// FindManifest returns the path and file info of the nearest package.json
// at or above dir, or an empty path when none exists.
func (d *Detector) FindManifest(ctx context.Context, dir string) (string, os.FileInfo, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		candidate := filepath.Join(current, ManifestName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, info, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", nil, fmt.Errorf("failed to stat %s: %w", candidate, err)
		}

		if current == d.boundary {
			return "", nil, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", nil, nil
		}
		current = parent
	}
}

// match returns the first supported library declared in any dependency
// section of the manifest.
func (d *Detector) match(data []byte) (*Library, error) {
	_, dataType, _, err := jsonparser.Get(data)
	if err != nil || dataType != jsonparser.Object {
		return nil, ErrMalformed
	}

	declared := make(map[string]bool)
	for _, section := range dependencySections {
		err := jsonparser.ObjectEach(data, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
			declared[string(key)] = true
			return nil
		}, section)

		if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, section, err)
		}
	}

	for i := range d.libraries {
		if declared[d.libraries[i].PackageName] {
			lib := d.libraries[i]
			return &lib, nil
		}
	}
	return nil, nil
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// GetStats returns cache statistics.
func (d *Detector) GetStats() Stats {
	return Stats{
		Hits:    d.hits.Load(),
		Misses:  d.misses.Load(),
		Entries: d.cache.Len(),
	}
}

// Purge drops all cached manifest results.
func (d *Detector) Purge() {
	d.cache.Purge()
}
