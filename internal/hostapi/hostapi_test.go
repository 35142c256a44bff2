package hostapi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"disksight/internal/events"
	"disksight/internal/model"
)

func TestStartScanThenGetScanResult(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	api := New(events.NoopSink{})
	handle := api.StartScan(root, model.DefaultScanOptions())

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := api.GetScanResult(handle.ScanID); ok {
			if res.TotalBytes != 5 {
				t.Fatalf("expected total bytes 5, got %d", res.TotalBytes)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for scan result")
}

func TestGetFileDetailsClassifiesAndSizes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(file, []byte("contents"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	api := New(events.NoopSink{})
	info, err := api.GetFileDetails(file)
	if err != nil {
		t.Fatalf("GetFileDetails: %v", err)
	}
	if info.SafetyLevel != model.ConfirmRequired {
		t.Errorf("expected ConfirmRequired for a pdf, got %v", info.SafetyLevel)
	}
	if info.SizeBytes != 8 {
		t.Errorf("expected size 8, got %d", info.SizeBytes)
	}
}

func TestCancelScanOnUnknownIDIsBenign(t *testing.T) {
	api := New(events.NoopSink{})
	if api.CancelScan("never-started") {
		t.Error("expected CancelScan on an unknown id to report false")
	}
}
