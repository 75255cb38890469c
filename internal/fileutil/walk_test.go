package fileutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func createTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
	return root
}

func collect(t *testing.T, root string) []string {
	t.Helper()
	var got []string
	err := WalkFiles(context.Background(), root, func(path string) error {
		got = append(got, path)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkFiles failed: %v", err)
	}
	return got
}

func TestWalkFiles_LexicalOrderAbsolutePaths(t *testing.T) {
	root := createTree(t,
		"b.log",
		"a.txt",
		"sub/c.txt",
		".hidden/d.txt",
		"sub/deeper/e.csv",
	)

	got := collect(t, root)

	want := []string{
		filepath.Join(root, ".hidden/d.txt"),
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.log"),
		filepath.Join(root, "sub/c.txt"),
		filepath.Join(root, "sub/deeper/e.csv"),
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d files, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file[%d]: expected %s, got %s", i, want[i], got[i])
		}
		if !filepath.IsAbs(got[i]) {
			t.Errorf("Expected absolute path, got %s", got[i])
		}
	}
}

func TestWalkFiles_RelativeRoot(t *testing.T) {
	root := createTree(t, "a.txt")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(wd, root)
	if err != nil {
		t.Skipf("temp dir not relative to cwd: %v", err)
	}

	got := collect(t, rel)
	if len(got) != 1 || got[0] != filepath.Join(root, "a.txt") {
		t.Errorf("Expected absolute path of a.txt, got %v", got)
	}
}

func TestWalkFiles_Symlinks(t *testing.T) {
	root := createTree(t, "real.txt", "dir/inner.txt")
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling"))
	os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dirlink"))

	got := collect(t, root)

	want := map[string]bool{
		filepath.Join(root, "dir/inner.txt"): true,
		filepath.Join(root, "link.txt"):      true,
		filepath.Join(root, "real.txt"):      true,
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d files, got %v", len(want), got)
	}
	for _, p := range got {
		if !want[p] {
			t.Errorf("Unexpected file %s", p)
		}
	}
}

func TestWalkFiles_VisitErrorStopsWalk(t *testing.T) {
	root := createTree(t, "a.txt", "b.txt", "c.txt")
	stop := errors.New("stop")

	calls := 0
	err := WalkFiles(context.Background(), root, func(path string) error {
		calls++
		return stop
	})

	if !errors.Is(err, stop) {
		t.Errorf("Expected stop error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWalkFiles_CancelledContext(t *testing.T) {
	root := createTree(t, "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WalkFiles(ctx, root, func(string) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestWalkFiles_MissingRoot(t *testing.T) {
	err := WalkFiles(context.Background(), filepath.Join(t.TempDir(), "nope"), func(string) error { return nil })
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestWalkFiles_RootIsFile(t *testing.T) {
	root := createTree(t, "a.txt", "b.txt")

	got := collect(t, filepath.Join(root, "a.txt"))
	if len(got) != 1 || got[0] != filepath.Join(root, "a.txt") {
		t.Errorf("Expected only the root file, got %v", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"/work", "a.txt", "/work/a.txt"},
		{"/work", "sub/../a.txt", "/work/a.txt"},
		{"/work", "/d/sub/../a.txt", "/d/a.txt"},
		{"/work", "/d//a.txt", "/d/a.txt"},
		{"/work", "", "/work"},
	}

	for _, tt := range tests {
		if got := Resolve(tt.base, tt.path); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestWalkFiles_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := createTree(t, "locked/a.txt")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	err := WalkFiles(context.Background(), root, func(string) error { return nil })
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("Expected ErrPermission, got %v", err)
	}
}
