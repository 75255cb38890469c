// Package metadata stores the "important" mark in a file's extended
// attributes.
//
// The mark is a single named attribute whose first byte is Sentinel. A
// Backend can report that the file's filesystem has no extended attribute
// support at all; callers then fall back to the catalog file.
package metadata

import "errors"

const (
	// DefaultAttribute is the attribute name used when none is configured.
	DefaultAttribute = "imp"

	// Sentinel is the value meaning "marked".
	Sentinel byte = 'y'

	// MaxValueSize bounds attribute reads. It is the per-attribute ceiling on
	// common filesystems.
	MaxValueSize = 64 * 1024
)

var (
	// ErrUnsupported is returned when the filesystem has no extended
	// attribute support.
	ErrUnsupported = errors.New("extended attributes are not supported")

	// ErrNotPersisted is returned by SetMark when the written value could not
	// be read back. Some network and virtual filesystems accept the write
	// and drop it silently.
	ErrNotPersisted = errors.New("attribute write was not persisted")

	// ErrNotRemoved is returned by ClearMark when the attribute is still
	// listed after deletion.
	ErrNotRemoved = errors.New("attribute is still present after deletion")
)

// Backend reads and writes the mark of a single file.
type Backend interface {
	// Available reports whether the file's filesystem supports extended
	// attributes.
	Available(path string) bool

	// HasMark reports whether the file carries the mark. Failures are
	// logged and reported as unmarked.
	HasMark(path string) bool

	// SetMark writes the mark and verifies it by reading it back.
	SetMark(path string) error

	// ClearMark removes the mark. A file without the mark is not an error.
	ClearMark(path string) error
}

// Logger is the subset of the console logger used by backends.
type Logger interface {
	LogDebug(message string)
	LogError(message string)
}

// Unsupported is a Backend for platforms or configurations without extended
// attributes. Every file is reported as unavailable.
type Unsupported struct{}

// Available always returns false.
func (Unsupported) Available(string) bool { return false }

// HasMark always returns false.
func (Unsupported) HasMark(string) bool { return false }

// SetMark always returns ErrUnsupported.
func (Unsupported) SetMark(string) error { return ErrUnsupported }

// ClearMark always returns ErrUnsupported.
func (Unsupported) ClearMark(string) error { return ErrUnsupported }
