// Package fileutil walks directory trees for the find command.
package fileutil

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// VisitFunc is called with the absolute path of every regular file. A
// non-nil error stops the walk and is returned unchanged.
type VisitFunc func(path string) error

// WalkFiles walks the tree rooted at root in lexical order, descending into
// every directory and calling visit for regular files. Symlinks are
// followed for the regular-file check but symlinked directories are not
// descended into. A root that is itself a regular file is visited alone.
// The first error aborts the walk.
func WalkFiles(ctx context.Context, root string, visit VisitFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	}
	if info.Mode().IsRegular() {
		if err := ctx.Err(); err != nil {
			return err
		}
		return visit(absRoot)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is neither a directory nor a regular file: %s", absRoot)
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("failed to walk %s: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		regular, err := isRegular(path, d)
		if err != nil {
			return err
		}
		if !regular {
			return nil
		}
		return visit(path)
	})
}

func isRegular(path string, d fs.DirEntry) (bool, error) {
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		// Dangling links are not files.
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to follow link %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}
