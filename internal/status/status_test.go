package status

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodes = []Code{
	OK,
	InvalidSyntax,
	PermissionError,
	NotFound,
	IOError,
	Uncertain,
	PermissionError | IOError,
	NotFound | Uncertain,
}

func TestFlagsAreDistinctPowersOfTwo(t *testing.T) {
	flags := []Code{InvalidSyntax, PermissionError, NotFound, IOError, Uncertain}
	seen := Code(0)
	for _, f := range flags {
		assert.NotZero(t, f)
		assert.Zero(t, f&(f-1), "flag %d is not a power of two", f)
		assert.Zero(t, seen&f, "flag %d overlaps another flag", f)
		seen |= f
	}
}

func TestCombine_Identity(t *testing.T) {
	for _, c := range allCodes {
		assert.Equal(t, c, Combine(OK, c))
		assert.Equal(t, c, c.Or(OK))
	}
	assert.Equal(t, OK, Combine())
}

func TestCombine_AssociativeAndCommutative(t *testing.T) {
	for _, a := range allCodes {
		for _, b := range allCodes {
			assert.Equal(t, a.Or(b), b.Or(a))
			for _, c := range allCodes {
				assert.Equal(t, Combine(Combine(a, b), c), Combine(a, Combine(b, c)))
			}
		}
	}
}

func TestCombine_KeepsEveryFailureClass(t *testing.T) {
	c := OK
	for _, f := range []Code{NotFound, IOError, NotFound, Uncertain} {
		c = c.Or(f)
	}
	assert.True(t, c.Has(NotFound))
	assert.True(t, c.Has(IOError))
	assert.True(t, c.Has(Uncertain))
	assert.False(t, c.Has(PermissionError))
	assert.Equal(t, "not-found|io|uncertain", c.String())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{OK, 0},
		{PermissionError, 2},
		{NotFound, 4},
		{IOError, 8},
		{Uncertain, 16},
		{PermissionError | IOError, 10},
		{InvalidSyntax, -1},
		{InvalidSyntax | IOError, -1},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.ExitCode())
		})
	}
}

func TestFromError(t *testing.T) {
	_, regexErr := regexp.Compile("(")
	require.Error(t, regexErr)

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"permission", fmt.Errorf("open catalog: %w", fs.ErrPermission), PermissionError},
		{"not exist", &fs.PathError{Op: "stat", Path: "x", Err: os.ErrNotExist}, NotFound},
		{"regex", fmt.Errorf("compile: %w", regexErr), InvalidSyntax},
		{"generic", errors.New("disk on fire"), IOError},
		{"exit error", fmt.Errorf("wrapped: %w", &ExitError{Code: Uncertain | NotFound}), Uncertain | NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromError(tt.err))
		})
	}
}

func TestExit(t *testing.T) {
	assert.NoError(t, Exit(OK))

	err := Exit(NotFound)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, NotFound, exitErr.Code)
	assert.Contains(t, err.Error(), "exit code 4")
}
