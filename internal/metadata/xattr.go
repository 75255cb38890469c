//go:build linux || darwin

package metadata

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Xattr is the extended attribute Backend.
type Xattr struct {
	name   string
	logger Logger
}

// NewXattr returns a backend storing the mark in attribute. The name is
// placed in the platform's user namespace (e.g. "user.imp" on Linux).
func NewXattr(attribute string, logger Logger) *Xattr {
	if attribute == "" {
		attribute = DefaultAttribute
	}
	return &Xattr{
		name:   systemName(attribute),
		logger: logger,
	}
}

// New returns the best Backend for this platform.
func New(attribute string, logger Logger) Backend {
	return NewXattr(attribute, logger)
}

// Name returns the attribute name as passed to the kernel.
func (x *Xattr) Name() string {
	return x.name
}

// Available probes the file with a listxattr call.
func (x *Xattr) Available(path string) bool {
	_, err := unix.Listxattr(path, nil)
	return !isUnsupported(err)
}

// HasMark reports whether the attribute exists and starts with Sentinel.
func (x *Xattr) HasMark(path string) bool {
	present, err := x.present(path)
	if err == nil && present {
		var value []byte
		value, err = x.read(path)
		if err == nil {
			return len(value) > 0 && value[0] == Sentinel
		}
	}
	if err != nil {
		if isUnsupported(err) {
			x.logger.LogDebug(fmt.Sprintf("%s: extended attributes not supported, checking the catalog only", path))
		} else {
			x.logger.LogError(fmt.Sprintf("%s: could not check if marked: %v", path, err))
		}
	}
	return false
}

// SetMark writes Sentinel and reads it back.
func (x *Xattr) SetMark(path string) error {
	if err := unix.Setxattr(path, x.name, []byte{Sentinel}, 0); err != nil {
		return x.wrap("setxattr", path, err)
	}

	value, err := x.read(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	if len(value) == 0 || value[0] != Sentinel {
		return fmt.Errorf("%s on %s: %w", x.name, path, ErrNotPersisted)
	}
	return nil
}

// ClearMark removes the attribute and verifies it is gone.
func (x *Xattr) ClearMark(path string) error {
	present, err := x.present(path)
	if err != nil {
		return err
	}
	if !present {
		return nil
	}

	if err := unix.Removexattr(path, x.name); err != nil && !errors.Is(err, noAttr) {
		return x.wrap("removexattr", path, err)
	}

	present, err = x.present(path)
	if err != nil {
		return err
	}
	if present {
		return fmt.Errorf("%s on %s: %w", x.name, path, ErrNotRemoved)
	}
	return nil
}

// present lists the file's attributes and looks for ours.
func (x *Xattr) present(path string) (bool, error) {
	names, err := x.list(path)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == x.name {
			return true, nil
		}
	}
	return false, nil
}

func (x *Xattr) list(path string) ([]string, error) {
	for {
		size, err := unix.Listxattr(path, nil)
		if err != nil {
			return nil, x.wrap("listxattr", path, err)
		}
		if size == 0 {
			return nil, nil
		}

		buf := make([]byte, size)
		n, err := unix.Listxattr(path, buf)
		if errors.Is(err, unix.ERANGE) {
			// Grew between the two calls.
			continue
		}
		if err != nil {
			return nil, x.wrap("listxattr", path, err)
		}

		var names []string
		for _, raw := range bytes.Split(buf[:n], []byte{0}) {
			if len(raw) > 0 {
				names = append(names, string(raw))
			}
		}
		return names, nil
	}
}

func (x *Xattr) read(path string) ([]byte, error) {
	buf := make([]byte, MaxValueSize)
	n, err := unix.Getxattr(path, x.name, buf)
	if err != nil {
		return nil, x.wrap("getxattr", path, err)
	}
	return buf[:n], nil
}

func (x *Xattr) wrap(op, path string, err error) error {
	if isUnsupported(err) {
		return fmt.Errorf("%s %s on %s: %w: %w", op, x.name, path, ErrUnsupported, err)
	}
	return fmt.Errorf("%s %s on %s: %w", op, x.name, path, err)
}

func isUnsupported(err error) bool {
	return errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, ErrUnsupported)
}
