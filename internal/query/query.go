// Package query finds marked files under a directory tree.
package query

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/harrison/important/internal/fileutil"
	"github.com/harrison/important/internal/metadata"
	"github.com/harrison/important/internal/status"
)

// matchAll is the pattern used when a filter is not given.
const matchAll = ".*"

// FindQuery describes one find invocation.
type FindQuery struct {
	// Dir is the search root; empty means the engine's work dir.
	Dir string

	// NameContains filters on the file name. In literal mode it matches as
	// a substring anywhere in the name; in regex mode it must match at the
	// start of the name.
	NameContains string
	HasName      bool

	// Ext filters on the final extension, without the leading dot.
	Ext    string
	HasExt bool

	Verbose   bool
	UseRegexp bool
}

// Patterns returns the name and extension patterns for q. Both are matched
// against the whole base name of a file.
func (q FindQuery) Patterns() (name string, ext string) {
	name, ext = matchAll, matchAll

	if q.HasName {
		if q.UseRegexp {
			name = q.NameContains + `(\..*)?`
		} else {
			name = matchAll + regexp.QuoteMeta(q.NameContains) + matchAll
		}
	}

	if q.HasExt {
		if q.UseRegexp {
			ext = `.*\.` + q.Ext
		} else {
			ext = `.*\.` + regexp.QuoteMeta(q.Ext)
		}
	}
	return name, ext
}

// Catalog is the read side of the fallback store.
type Catalog interface {
	Contains(path string) bool
}

// Logger receives diagnostics.
type Logger interface {
	LogDebug(message string)
	LogError(message string)
}

// Engine runs find queries.
type Engine struct {
	workDir string
	meta    metadata.Backend
	catalog Catalog
	logger  Logger
}

// NewEngine creates an Engine. workDir is the default search root and the
// base for relative directories.
func NewEngine(workDir string, meta metadata.Backend, catalog Catalog, logger Logger) *Engine {
	return &Engine{
		workDir: workDir,
		meta:    meta,
		catalog: catalog,
		logger:  logger,
	}
}

// EmitFunc receives the absolute path of each match, in walk order.
type EmitFunc func(path string) error

// Find walks the query's directory and emits every marked file that passes
// the name and extension filters. A bad pattern fails before the walk
// starts; any walk error aborts it. Matches emitted before an error stand.
func (e *Engine) Find(ctx context.Context, q FindQuery, emit EmitFunc) (status.Code, error) {
	namePattern, extPattern := q.Patterns()

	dir := fileutil.Resolve(e.workDir, q.Dir)

	if q.Verbose {
		e.logger.LogDebug(fmt.Sprintf("searching in the directory: %s", dir))
		e.logger.LogDebug(fmt.Sprintf("name regexp: %s", namePattern))
		e.logger.LogDebug(fmt.Sprintf("extension regexp: %s", extPattern))
	}

	nameRe, err := compileName(namePattern, q.UseRegexp)
	if err != nil {
		return status.InvalidSyntax, fmt.Errorf("regexp %s is not valid: %w", namePattern, err)
	}
	extRe, err := compileWhole(extPattern)
	if err != nil {
		return status.InvalidSyntax, fmt.Errorf("regexp %s is not valid: %w", extPattern, err)
	}

	err = fileutil.WalkFiles(ctx, dir, func(path string) error {
		base := filepath.Base(path)
		if !nameRe.MatchString(base) || !extRe.MatchString(base) {
			return nil
		}
		if !e.isMarked(path) {
			return nil
		}
		return emit(path)
	})
	if err != nil {
		code := status.FromError(err)
		if code != status.PermissionError {
			code = status.IOError
		}
		return code, fmt.Errorf("failed to search %s: %w", dir, err)
	}
	return status.OK, nil
}

// isMarked checks both backends; a mark in either one counts.
func (e *Engine) isMarked(path string) bool {
	return e.meta.HasMark(path) || e.catalog.Contains(path)
}

// compileWhole compiles pattern anchored at both ends, so it has to match
// the entire name.
func compileWhole(pattern string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

// compileName compiles the name pattern. A user supplied regexp is only
// anchored at the start of the name: "report" finds report1.csv but not
// xreportx.csv. Literal patterns match the whole name.
func compileName(pattern string, userRegexp bool) (*regexp.Regexp, error) {
	if !userRegexp {
		return compileWhole(pattern)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(`^(?:` + pattern + `)`)
}
