package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedFile is a read-only view of a source file.
//
// Data is memory-mapped when possible and falls back to a heap copy when
// mmap is unavailable (e.g. special filesystems). Data must not be used
// after Close.
type MappedFile struct {
	// Path is the file the data was read from.
	Path string

	// Data is the file content. Nil for empty files.
	Data mmap.MMap

	// file is nil for fallback (heap) data.
	file   *os.File
	mapped bool
}

// OpenMapped maps filePath read-only.
//
// Empty files cannot be mapped and yield a MappedFile with nil Data.
func OpenMapped(filePath string, logger *slog.Logger) (*MappedFile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}

	if stat.Size() == 0 {
		file.Close()
		return &MappedFile{Path: filePath}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		logger.Warn("mmap failed, using fallback",
			"file", filePath,
			"size", stat.Size(),
			"error", err)
		file.Close()

		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		return &MappedFile{Path: filePath, Data: mmap.MMap(raw)}, nil
	}

	return &MappedFile{Path: filePath, Data: data, file: file, mapped: true}, nil
}

// Bytes returns the mapped content.
func (mf *MappedFile) Bytes() []byte {
	return mf.Data
}

// Close unmaps the data and closes the file descriptor.
func (mf *MappedFile) Close() error {
	var firstErr error
	if mf.mapped && mf.Data != nil {
		if err := mf.Data.Unmap(); err != nil {
			firstErr = fmt.Errorf("failed to unmap %q: %w", mf.Path, err)
		}
	}
	mf.Data = nil
	if mf.file != nil {
		if err := mf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		mf.file = nil
	}
	return firstErr
}
