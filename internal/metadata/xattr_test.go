//go:build linux || darwin

package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type recordingLogger struct {
	debug  []string
	errors []string
}

func (r *recordingLogger) LogDebug(message string) { r.debug = append(r.debug, message) }
func (r *recordingLogger) LogError(message string) { r.errors = append(r.errors, message) }

// newMarkableFile creates a file in a temp dir and skips the test when the
// temp filesystem does not accept user extended attributes.
func newMarkableFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))

	probe := systemName("probe")
	if err := unix.Setxattr(path, probe, []byte("1"), 0); err != nil {
		t.Skipf("user extended attributes unavailable on temp dir: %v", err)
	}
	require.NoError(t, unix.Removexattr(path, probe))
	return path
}

func TestXattr_SetHasClear(t *testing.T) {
	path := newMarkableFile(t)
	log := &recordingLogger{}
	x := NewXattr("", log)

	assert.True(t, x.Available(path))
	assert.False(t, x.HasMark(path))

	require.NoError(t, x.SetMark(path))
	assert.True(t, x.HasMark(path))

	require.NoError(t, x.ClearMark(path))
	assert.False(t, x.HasMark(path))
	assert.Empty(t, log.errors)
}

func TestXattr_ClearIsIdempotent(t *testing.T) {
	path := newMarkableFile(t)
	x := NewXattr(DefaultAttribute, &recordingLogger{})

	assert.NoError(t, x.ClearMark(path))
	assert.NoError(t, x.ClearMark(path))
}

func TestXattr_OtherValueIsNotAMark(t *testing.T) {
	path := newMarkableFile(t)
	x := NewXattr(DefaultAttribute, &recordingLogger{})

	require.NoError(t, unix.Setxattr(path, x.Name(), []byte("n"), 0))
	assert.False(t, x.HasMark(path))
}

func TestXattr_CustomAttributeName(t *testing.T) {
	path := newMarkableFile(t)
	x := NewXattr("starred", &recordingLogger{})
	other := NewXattr(DefaultAttribute, &recordingLogger{})

	require.NoError(t, x.SetMark(path))
	assert.True(t, x.HasMark(path))
	assert.False(t, other.HasMark(path))
}

func TestXattr_MissingFile(t *testing.T) {
	log := &recordingLogger{}
	x := NewXattr(DefaultAttribute, log)
	missing := filepath.Join(t.TempDir(), "nope.txt")

	assert.False(t, x.HasMark(missing))
	assert.Len(t, log.errors, 1)

	err := x.SetMark(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Error(t, x.ClearMark(missing))
}

func TestSystemName(t *testing.T) {
	name := NewXattr("imp", &recordingLogger{}).Name()
	assert.Contains(t, name, "imp")
}

func TestUnsupported(t *testing.T) {
	var b Backend = Unsupported{}

	assert.False(t, b.Available("/any"))
	assert.False(t, b.HasMark("/any"))
	assert.ErrorIs(t, b.SetMark("/any"), ErrUnsupported)
	assert.ErrorIs(t, b.ClearMark("/any"), ErrUnsupported)
}
