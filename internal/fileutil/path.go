package fileutil

import "path/filepath"

// Resolve returns path as a clean absolute path, joining it onto base when
// it is relative. Marks are stored and looked up under this form, so every
// spelling of a file must go through here.
func Resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
