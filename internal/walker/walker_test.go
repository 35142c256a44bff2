package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"disksight/internal/model"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWalkSkipsNodeModulesAndGit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 10)
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), 20)
	writeFile(t, filepath.Join(root, ".git", "HEAD"), 5)
	writeFile(t, filepath.Join(root, "src", "main.go"), 30)

	var seen []string
	err := Walk(root, model.DefaultScanOptions(), func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	for _, bad := range []string{"node_modules", ".git"} {
		for _, p := range seen {
			if filepath.Base(filepath.Dir(p)) == bad || filepath.Base(p) == bad {
				t.Errorf("path %q under skip-listed dir %q was visited", p, bad)
			}
		}
	}

	foundMain := false
	for _, p := range seen {
		if p == filepath.Join(root, "src", "main.go") {
			foundMain = true
		}
	}
	if !foundMain {
		t.Error("expected src/main.go to be visited")
	}
}

func TestWalkIsParentBeforeChild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir", "sub", "file.txt"), 1)

	var order []string
	err := Walk(root, model.DefaultScanOptions(), func(e Entry) error {
		order = append(order, e.Path)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	index := make(map[string]int, len(order))
	for i, p := range order {
		index[p] = i
	}

	dir := filepath.Join(root, "dir")
	sub := filepath.Join(root, "dir", "sub")
	file := filepath.Join(root, "dir", "sub", "file.txt")

	if index[dir] >= index[sub] || index[sub] >= index[file] {
		t.Fatalf("expected %s < %s < %s, got indices %v", dir, sub, file, index)
	}
}

func TestWalkExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), 1)
	writeFile(t, filepath.Join(root, "skip.log"), 1)
	writeFile(t, filepath.Join(root, "logs", "app.log"), 1)

	opts := model.DefaultScanOptions()
	opts.ExcludePatterns = []string{"**/*.log"}

	var seen []string
	err := Walk(root, opts, func(e Entry) error {
		seen = append(seen, filepath.Base(e.Path))
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	sort.Strings(seen)

	for _, s := range seen {
		if s == "skip.log" || s == "app.log" {
			t.Errorf("expected %q to be excluded, got %v", s, seen)
		}
	}
}

func TestWalkMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "c", "deep.txt"), 1)

	depth := uint32(1)
	opts := model.DefaultScanOptions()
	opts.MaxDepth = &depth

	var seen []string
	err := Walk(root, opts, func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	for _, p := range seen {
		if filepath.Base(p) == "deep.txt" {
			t.Errorf("expected deep.txt beyond max depth to be pruned, got %v", seen)
		}
	}
}

func TestWalkErrFuncReceivesPerEntryErrors(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "ghost")

	called := false
	_ = Walk(missing, model.DefaultScanOptions(), func(e Entry) error {
		return nil
	}, func(path string, err error) error {
		called = true
		return nil
	})

	if !called {
		t.Error("expected onErr to be invoked for a missing root")
	}
}
