// Package sink provides output destinations for generated declaration units
// and the aggregate client file.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OutputSink receives generated file content addressed by relative path.
type OutputSink interface {
	// WriteFile writes content to path. The path is relative and
	// slash-separated; the sink decides where it lands.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes files below a root directory.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode
}

// NewFilesystemSink creates a FilesystemSink rooted at dir.
func NewFilesystemSink(dir string) *FilesystemSink {
	return &FilesystemSink{Root: dir, Mode: 0o644}
}

// WriteFile writes content to path within the root directory, creating parent
// directories as needed. The write goes through a temp file and a rename so a
// failed run never leaves a truncated declaration behind.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.Root, filepath.FromSlash(path))

	// Check for path traversal after resolution.
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return fmt.Errorf("resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("path escapes root directory: %q", path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}

	// The temp file lives in the target directory so the rename below stays
	// on one filesystem. The random suffix keeps concurrent writers apart.
	tmp, err := os.CreateTemp(dir, ".axiosgen-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// cleanup removes the temp file on a failed write. Its error is dropped:
	// the caller already gets the write error, and leftovers are recognizable
	// by the .axiosgen-*.tmp pattern.
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}

	// CreateTemp always uses 0600.
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("set file mode: %w", err)
	}

	// Last chance to honor cancellation before the file becomes visible.
	if err := ctx.Err(); err != nil {
		cleanup()
		return err
	}

	// os.Rename atomically replaces any existing file, so readers see either
	// the previous declaration or the new one.
	if err := os.Rename(tmpPath, fullPath); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// MemorySink keeps generated files in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Copy so later changes to the caller's slice don't leak in.
	contentCopy := append([]byte(nil), content...)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A rewrite keeps the file's original position in the write order.
	if _, ok := s.files[path]; !ok {
		s.order = append(s.order, path)
	}
	s.files[path] = contentCopy
	return nil
}

// Files returns a copy of all stored files.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.files))
	for p, c := range s.files {
		out[p] = append([]byte(nil), c...)
	}
	return out
}

// Get returns the content stored under path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), c...)
}

// Paths returns the stored paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Writes returns the stored paths in first-write order.
func (s *MemorySink) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// ValidatePath checks that path is relative, clean, slash-separated and does
// not escape the sink root.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}

	// Must be relative (no leading /)
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return errors.New("absolute paths not allowed")
	}

	// Windows drive letters (C:) are rejected on every platform.
	if len(path) >= 2 && path[1] == ':' {
		return errors.New("absolute paths not allowed")
	}

	// No .. components. A name merely containing ".." (a..b.ts) is fine.
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}
