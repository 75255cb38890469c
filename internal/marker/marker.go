// Package marker marks and unmarks batches of files.
//
// Each file is marked through the metadata backend when its filesystem
// supports it and through the catalog otherwise. Per-file failures are
// reported immediately and folded into one status.Code; they never stop the
// rest of the batch.
package marker

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrison/important/internal/fileutil"
	"github.com/harrison/important/internal/metadata"
	"github.com/harrison/important/internal/status"
)

// Catalog is the fallback store written by the marker.
type Catalog interface {
	Add(path string) error
	RemoveAll(paths []string) error
}

// Logger receives diagnostics.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Reporter receives one call per file whose new state is confirmed.
type Reporter interface {
	Marked(name string)
	Unmarked(name string)
}

// Marker applies mark and unmark to files.
type Marker struct {
	workDir  string
	meta     metadata.Backend
	catalog  Catalog
	logger   Logger
	progress Reporter
}

// New creates a Marker. Relative arguments are resolved against workDir.
func New(workDir string, meta metadata.Backend, catalog Catalog, logger Logger, progress Reporter) *Marker {
	return &Marker{
		workDir:  workDir,
		meta:     meta,
		catalog:  catalog,
		logger:   logger,
		progress: progress,
	}
}

// target is a resolved argument.
type target struct {
	name string // as given on the command line
	path string // absolute
}

// Mark marks every file in args and returns the combined status.
func (m *Marker) Mark(args []string) status.Code {
	targets, code := m.resolveAll(args)
	for _, t := range targets {
		code = code.Or(m.markOne(t))
	}
	return code
}

// Unmark unmarks every file in args. The metadata mark is cleared per file,
// then the catalog is rewritten once for the whole batch.
func (m *Marker) Unmark(args []string) status.Code {
	targets, code := m.resolveAll(args)

	var cleared []target
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		paths = append(paths, t.path)
		c := m.unmarkOne(t)
		if c.IsOK() {
			cleared = append(cleared, t)
		}
		code = code.Or(c)
	}

	if len(paths) == 0 {
		return code
	}

	if err := m.catalog.RemoveAll(paths); err != nil {
		return code.Or(m.fail("unmark", "rewrite the catalog", err))
	}
	for _, t := range cleared {
		m.progress.Unmarked(t.name)
	}
	return code
}

// resolveAll turns arguments into existing, non-directory targets.
func (m *Marker) resolveAll(args []string) ([]target, status.Code) {
	if len(args) == 0 {
		m.logger.LogInfo("no files given, nothing to do")
		return nil, status.OK
	}

	code := status.OK
	targets := make([]target, 0, len(args))
	for _, arg := range args {
		path := fileutil.Resolve(m.workDir, arg)

		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			m.logger.LogError(fmt.Sprintf("%s: file does not exist", arg))
			code = code.Or(status.NotFound)
			continue
		}
		if err != nil {
			code = code.Or(m.fail(arg, "locate the file", err))
			continue
		}
		if info.IsDir() {
			m.logger.LogWarn(fmt.Sprintf("%s: this is a directory, skipping", arg))
			continue
		}

		targets = append(targets, target{name: arg, path: path})
	}
	return targets, code
}

func (m *Marker) markOne(t target) status.Code {
	if !m.meta.Available(t.path) {
		m.warnFallback(t)
		return m.markInCatalog(t)
	}

	err := m.meta.SetMark(t.path)
	if err == nil {
		m.progress.Marked(t.name)
		return status.OK
	}

	if errors.Is(err, metadata.ErrNotPersisted) || errors.Is(err, metadata.ErrUnsupported) {
		m.logger.LogDebug(fmt.Sprintf("%s: %v", t.name, err))
	} else {
		m.fail(t.name, "write the mark attribute", err)
	}
	m.warnFallback(t)

	// The attribute write may have half-succeeded, so a failing fallback
	// leaves the mark state unknown.
	code := m.markInCatalog(t)
	if !code.IsOK() {
		code = code.Or(status.Uncertain)
	}
	return code
}

func (m *Marker) markInCatalog(t target) status.Code {
	if err := m.catalog.Add(t.path); err != nil {
		return m.fail(t.name, "add the file to the catalog", err)
	}
	m.progress.Marked(t.name)
	return status.OK
}

func (m *Marker) unmarkOne(t target) status.Code {
	if !m.meta.Available(t.path) {
		// Nothing can be stored there; the catalog pass does the work.
		return status.OK
	}

	err := m.meta.ClearMark(t.path)
	switch {
	case err == nil:
		return status.OK
	case errors.Is(err, metadata.ErrNotRemoved):
		m.logger.LogError(fmt.Sprintf("%s: %v", t.name, err))
		return status.IOError
	default:
		m.fail(t.name, "remove the mark attribute", err)
		m.logger.LogWarn(fmt.Sprintf("%s: the mark may still be present, check manually", t.name))
		return status.Uncertain
	}
}

func (m *Marker) warnFallback(t target) {
	m.logger.LogWarn(fmt.Sprintf("%s: extended attributes unavailable, falling back to the catalog file; the mark will not follow the file when it is copied or moved", t.name))
}

// fail logs err against name and returns its status flag.
func (m *Marker) fail(name, action string, err error) status.Code {
	code := status.FromError(err)
	if code == status.PermissionError {
		m.logger.LogError(fmt.Sprintf("%s: permission denied while trying to %s: %v", name, action, err))
	} else {
		code = status.IOError
		m.logger.LogError(fmt.Sprintf("%s: I/O error while trying to %s: %v", name, action, err))
	}
	return code
}
