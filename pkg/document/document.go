package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnana997/styco/pkg/edit"
	"github.com/gnana997/styco/pkg/util"
)

// ErrModified is returned by Save when the file changed on disk after it
// was loaded.
var ErrModified = errors.New("file was modified externally")

// File is a document backed by a file on disk. Edits are applied in memory
// and written back by Save.
type File struct {
	path   string
	mode   os.FileMode
	logger *slog.Logger

	mu       sync.Mutex
	original []byte
	text     string
	dirty    bool
}

// Open loads the file at path.
func Open(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mapped, err := util.OpenMapped(abs, logger)
	if err != nil {
		return nil, err
	}
	original := bytes.Clone(mapped.Bytes())
	if err := mapped.Close(); err != nil {
		logger.Warn("failed to unmap document", "path", abs, "error", err)
	}

	return &File{
		path:     abs,
		mode:     info.Mode().Perm(),
		logger:   logger,
		original: original,
		text:     string(original),
	}, nil
}

// Path returns the absolute file path.
func (f *File) Path() string { return f.path }

// Text returns the current text, including applied edits.
func (f *File) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// Dirty reports whether edits were applied since the last save.
func (f *File) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// ApplyEdits applies ops to the current text as one batch. On error the
// text is unchanged.
func (f *File) ApplyEdits(ops []edit.Operation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := edit.Apply(f.text, ops)
	if err != nil {
		return err
	}
	f.text = next
	f.dirty = true
	return nil
}

// Save writes the text back when it has unsaved edits. It refuses to
// overwrite a file whose content changed since it was loaded, and replaces
// the file through a temporary file and rename.
func (f *File) Save(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	current, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("failed to re-read %s: %w", f.path, err)
	}
	if !bytes.Equal(current, f.original) {
		return fmt.Errorf("%w: %s", ErrModified, f.path)
	}

	if err := writeAtomic(f.path, []byte(f.text), f.mode); err != nil {
		return err
	}

	f.original = []byte(f.text)
	f.dirty = false
	f.logger.Debug("document saved", "path", f.path, "bytes", len(f.text))
	return nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write %s: %w", tmpPath, err))
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(fmt.Errorf("failed to chmod %s: %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Buffer is an in-memory document, as received from an editor or an MCP
// client. Save is a no-op.
type Buffer struct {
	path string

	mu    sync.Mutex
	text  string
	dirty bool
}

// NewBuffer creates a buffer. path may be empty; it is only used to pick
// the grammar and to locate the package manifest.
func NewBuffer(path, text string) *Buffer {
	return &Buffer{path: path, text: text}
}

func (b *Buffer) Path() string { return b.path }

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

func (b *Buffer) ApplyEdits(ops []edit.Operation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, err := edit.Apply(b.text, ops)
	if err != nil {
		return err
	}
	b.text = next
	b.dirty = true
	return nil
}

func (b *Buffer) Save(context.Context) error { return nil }
