// Package catalog implements the fallback mark store: a flat text file with
// one absolute path per line.
//
// Marks land here when a file's filesystem has no extended attribute
// support. Appends do not deduplicate; duplicates are collapsed the next time
// paths are removed, which rewrites the whole file.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/important/internal/filelock"
)

// DefaultFileName is the catalog file name inside the working directory.
const DefaultFileName = ".important"

const filePerm fs.FileMode = 0644

// Logger is the subset of the console logger used by the store.
type Logger interface {
	LogDebug(message string)
	LogError(message string)
}

// Store is the catalog file.
type Store struct {
	path   string
	lock   *filelock.FileLock
	logger Logger
}

// Option configures a Store.
type Option func(*Store)

// WithoutLock disables the cross-process lock around writes.
func WithoutLock() Option {
	return func(s *Store) {
		s.lock = nil
	}
}

// New returns the store kept at path. The file is not touched until the
// first write.
func New(path string, logger Logger, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path %s: %w", path, err)
	}
	s := &Store{
		path:   abs,
		lock:   filelock.ForFile(abs),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the absolute catalog path.
func (s *Store) Path() string {
	return s.path
}

// Contains reports whether path is listed. A missing or unreadable catalog
// counts as "not listed"; read errors are logged.
func (s *Store) Contains(path string) bool {
	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.LogError(fmt.Sprintf("%s: could not read the catalog: %v", s.path, err))
		}
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == path {
			return true
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.LogError(fmt.Sprintf("%s: could not read the catalog: %v", s.path, err))
	}
	return false
}

// Add appends path, creating the catalog if needed.
func (s *Store) Add(path string) error {
	return s.withLock(func() error {
		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
		if err != nil {
			return fmt.Errorf("failed to open catalog %s: %w", s.path, err)
		}

		if _, err := f.WriteString(path + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("failed to append to catalog %s: %w", s.path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close catalog %s: %w", s.path, err)
		}
		s.logger.LogDebug(fmt.Sprintf("added %s to catalog %s", path, s.path))
		return nil
	})
}

// RemoveAll removes every path in paths with a single rewrite. A missing
// catalog is not an error.
func (s *Store) RemoveAll(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return s.withLock(func() error {
		entries, err := s.readSet()
		if err != nil {
			return err
		}
		if entries == nil {
			return nil
		}

		for _, p := range paths {
			delete(entries, p)
		}

		if err := filelock.AtomicWrite(s.path, encode(entries), filePerm); err != nil {
			return fmt.Errorf("failed to rewrite catalog: %w", err)
		}
		s.logger.LogDebug(fmt.Sprintf("rewrote catalog %s with %d entries", s.path, len(entries)))
		return nil
	})
}

// Paths returns the distinct catalog entries in sorted order.
func (s *Store) Paths() ([]string, error) {
	entries, err := s.readSet()
	if err != nil {
		return nil, err
	}
	return sortedKeys(entries), nil
}

// readSet loads the catalog into a set. A missing file yields a nil map.
func (s *Store) readSet() (map[string]struct{}, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", s.path, err)
	}
	defer f.Close()

	entries := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			entries[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Store) withLock(fn func() error) error {
	if s.lock == nil {
		return fn()
	}
	return s.lock.WithLock(fn)
}

// encode writes one newline-terminated path per line, sorted so rewrites are
// reproducible.
func encode(entries map[string]struct{}) []byte {
	var b strings.Builder
	for _, p := range sortedKeys(entries) {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func sortedKeys(entries map[string]struct{}) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
