// Package status defines the composable outcome of mark, unmark and find
// operations. A Code is a bitmask: every failure class occupies its own bit so
// a batch over many files can OR per-file results together without losing
// which kinds of failure happened.
package status

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp/syntax"
	"strings"
	"syscall"
)

// Code is a set of outcome flags. The zero value is OK.
type Code uint8

const (
	// OK means nothing went wrong. It is the identity element of Combine.
	OK Code = 0

	// InvalidSyntax marks bad command line arguments or a malformed pattern.
	InvalidSyntax Code = 1 << 0

	// PermissionError marks an access denied reported by the OS.
	PermissionError Code = 1 << 1

	// NotFound marks a target file that does not exist.
	NotFound Code = 1 << 2

	// IOError marks any other system I/O failure.
	IOError Code = 1 << 3

	// Uncertain marks an operation whose effect could not be verified.
	// The on-disk mark state should be double checked manually.
	Uncertain Code = 1 << 4
)

// invalidExitCode is reported to the shell whenever InvalidSyntax is set.
const invalidExitCode = -1

var flagNames = []struct {
	flag Code
	name string
}{
	{InvalidSyntax, "invalid"},
	{PermissionError, "permission"},
	{NotFound, "not-found"},
	{IOError, "io"},
	{Uncertain, "uncertain"},
}

// Combine returns the union of all flags in codes.
func Combine(codes ...Code) Code {
	var c Code
	for _, code := range codes {
		c |= code
	}
	return c
}

// Or returns the union of c and o.
func (c Code) Or(o Code) Code {
	return c | o
}

// Has reports whether every flag of f is set in c.
func (c Code) Has(f Code) bool {
	return c&f == f
}

// IsOK reports whether no failure flag is set.
func (c Code) IsOK() bool {
	return c == OK
}

// ExitCode maps c to a process exit code: -1 for invalid syntax, otherwise
// the bitmask itself (10 = permission + I/O).
func (c Code) ExitCode() int {
	if c.Has(InvalidSyntax) {
		return invalidExitCode
	}
	return int(c)
}

func (c Code) String() string {
	if c == OK {
		return "ok"
	}
	var parts []string
	for _, fn := range flagNames {
		if c.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// FromError classifies err into a single flag. nil maps to OK.
func FromError(err error) Code {
	if err == nil {
		return OK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var syntaxErr *syntax.Error
	if errors.As(err, &syntaxErr) {
		return InvalidSyntax
	}

	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return PermissionError
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	default:
		return IOError
	}
}

// ExitError carries an aggregated Code out of a command. The diagnostics that
// explain it have already been printed, so Error is terse.
type ExitError struct {
	Code Code
}

// Exit wraps c in an ExitError, or returns nil when c is OK.
func Exit(c Code) error {
	if c.IsOK() {
		return nil
	}
	return &ExitError{Code: c}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("finished with status %s (exit code %d)", e.Code, e.Code.ExitCode())
}
