package codeaction

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/styco/pkg/parser"
)

// ScanConfig selects the files to scan. Patterns are doublestar globs
// relative to the scan root.
type ScanConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
	// Workers is the number of parallel file scans; 0 picks a default.
	Workers int `json:"workers"`
}

// DefaultScanConfig matches markup sources outside dependency and build
// directories.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{"**/*.{jsx,tsx,js}"},
		Exclude: []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/.next/**", "**/coverage/**"},
	}
}

// Validate checks every pattern.
func (c ScanConfig) Validate() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range c.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// Excluded reports whether the slash-separated relative path matches an
// exclude pattern. Directories are also tested with a trailing "/**" so
// that "**/node_modules/**" prunes the directory itself.
func (c ScanConfig) Excluded(relPath string, isDir bool) bool {
	for _, pattern := range c.Exclude {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
		if isDir {
			if m, _ := doublestar.Match(pattern, relPath+"/x"); m {
				return true
			}
		}
	}
	return false
}

// Included reports whether the relative path matches an include pattern
// and names a markup file. An empty include list accepts every markup file.
func (c ScanConfig) Included(relPath string) bool {
	if !parser.IsMarkupFile(relPath) {
		return false
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
	}
	return false
}

// DiscoverFiles walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths for deterministic output.
func DiscoverFiles(rootDir string, cfg ScanConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}
		if path == absRoot {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if cfg.Excluded(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !cfg.Included(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
