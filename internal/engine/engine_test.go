package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"disksight/internal/events"
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

func TestRunAggregatesDirectorySizes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 100)
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 200)
	writeFile(t, filepath.Join(root, "sub", "deeper", "c.txt"), 50)

	rec := events.NewRecorder()
	result, err := Run(context.Background(), "scan-1", root, model.DefaultScanOptions(), nil, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Summary.TotalBytes != 350 {
		t.Fatalf("expected root total 350, got %d", result.Summary.TotalBytes)
	}
	if result.Summary.TotalFiles != 3 {
		t.Fatalf("expected 3 files, got %d", result.Summary.TotalFiles)
	}

	if _, ok := result.Tree.Nodes[result.Tree.RootID]; !ok {
		t.Fatal("missing root node")
	}

	var subNode *model.TreeNode
	for _, n := range result.Tree.Nodes {
		if n.Name == "sub" {
			subNode = n
		}
	}
	if subNode == nil {
		t.Fatal("expected to find sub directory node")
	}
	if subNode.SizeBytes != 250 {
		t.Fatalf("expected sub dir total 250, got %d", subNode.SizeBytes)
	}
}

func TestRunExtractsLastExtensionLowercased(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Archive.TAR.GZ"), 10)
	writeFile(t, filepath.Join(root, "noext"), 5)

	result, err := Run(context.Background(), "scan-2", root, model.DefaultScanOptions(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	found := map[string]bool{}
	for _, stat := range result.Summary.ExtensionStats {
		found[stat.Ext] = true
	}
	if !found["gz"] {
		t.Errorf("expected 'gz' extension bucket, got %+v", result.Summary.ExtensionStats)
	}
	if !found[model.NoExtension] {
		t.Errorf("expected no-extension bucket, got %+v", result.Summary.ExtensionStats)
	}
}

func TestRunSkipsZeroByteFilesFromAggregation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.txt"), 0)
	writeFile(t, filepath.Join(root, "full.txt"), 10)

	result, err := Run(context.Background(), "scan-3", root, model.DefaultScanOptions(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Summary.TotalBytes != 10 {
		t.Fatalf("expected total bytes 10 (zero-byte file excluded), got %d", result.Summary.TotalBytes)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for i := 0; i < 20000; i++ {
		writeFile(t, filepath.Join(root, "dir", sprintfN(i)+".txt"), 1)
	}

	cancel := &atomic.Bool{}
	cancel.Store(true)

	rec := events.NewRecorder()
	_, err := Run(context.Background(), "scan-4", root, model.DefaultScanOptions(), cancel, rec)
	if err != ErrCanceled {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if len(rec.CanceledEvents) != 1 {
		t.Fatalf("expected exactly one canceled event, got %d", len(rec.CanceledEvents))
	}
}

func TestRunStopsOnCancellationForSmallTree(t *testing.T) {
	root := t.TempDir()

	cancel := &atomic.Bool{}
	cancel.Store(true)

	rec := events.NewRecorder()
	result, err := Run(context.Background(), "scan-empty", root, model.DefaultScanOptions(), cancel, rec)
	if err != ErrCanceled {
		t.Fatalf("expected ErrCanceled for a pre-canceled scan of an empty tree, got result=%+v err=%v", result, err)
	}
	if len(rec.CanceledEvents) != 1 {
		t.Fatalf("expected exactly one canceled event, got %d", len(rec.CanceledEvents))
	}
	if len(rec.FinishedEvents) != 0 {
		t.Fatalf("expected no finished event for a canceled scan, got %d", len(rec.FinishedEvents))
	}
}

func TestRunFinalDrainReemitsRecomputedSizes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "a.txt"), 100)

	rec := events.NewRecorder()
	result, err := Run(context.Background(), "scan-6", root, model.DefaultScanOptions(), nil, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var lastRootSize uint64
	found := false
	for _, batch := range rec.Partial {
		for _, d := range batch.Nodes {
			if d.ID == result.Tree.RootID {
				lastRootSize = d.SizeBytes
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected at least one partial-tree delta for the root node")
	}
	if lastRootSize != result.Summary.TotalBytes {
		t.Fatalf("expected the last emitted root delta to carry its recomputed size %d, got %d", result.Summary.TotalBytes, lastRootSize)
	}
}

func TestRunEmitsStartedBeforeFinished(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f.txt"), 1)

	rec := events.NewRecorder()
	_, err := Run(context.Background(), "scan-5", root, model.DefaultScanOptions(), nil, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rec.Sequence) == 0 || rec.Sequence[0] != events.ChanScanStarted {
		t.Fatalf("expected scan://started first, got sequence %v", rec.Sequence)
	}
	if rec.Sequence[len(rec.Sequence)-1] != events.ChanScanFinished {
		t.Fatalf("expected scan://finished last, got sequence %v", rec.Sequence)
	}
}

func sprintfN(i int) string {
	digits := []byte("0123456789")
	if i == 0 {
		return "0"
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return string(buf)
}
