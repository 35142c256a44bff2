package deleter

import (
	"os"
	"path/filepath"
	"testing"

	"disksight/internal/events"
)

// chdirTemp makes t.TempDir() the working directory so a relative
// path like "Windows" has a single path segment, matching the
// classifier's shallow-depth Protected rule the way the spec's own
// worked examples do.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func TestDeleteRefusesProtectedRegardlessOfForce(t *testing.T) {
	chdirTemp(t)
	if err := os.Mkdir("Windows", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rec := events.NewRecorder()
	_, err := Delete("Windows", true, rec)
	if err != ErrProtected {
		t.Fatalf("expected ErrProtected, got %v", err)
	}
	if len(rec.FailedEvents) != 1 {
		t.Fatalf("expected one delete://failed event, got %d", len(rec.FailedEvents))
	}
}

func TestDeleteConfirmRequiredRefusesWithoutForce(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.pdf")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec := events.NewRecorder()
	_, err := Delete(file, false, rec)
	if err != ErrConfirmationRequired {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
}

func TestDeleteNotFoundIsHardError(t *testing.T) {
	rec := events.NewRecorder()
	_, err := Delete(filepath.Join(t.TempDir(), "ghost.tmp"), true, rec)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBulkDeleteScenarioS6(t *testing.T) {
	chdirTemp(t)

	protected := "Windows"
	autofile := "thumbs.db"
	confirmfile := "report.pdf"

	if err := os.Mkdir(protected, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(autofile, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(confirmfile, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec := events.NewRecorder()
	result := BulkDelete([]string{protected, autofile, confirmfile}, false, rec)

	if result.Success {
		t.Error("expected aggregate success=false when any path fails")
	}
	if result.WasAutoDelete {
		t.Error("expected aggregate was_auto_delete=false since not every path was AutoDelete")
	}
	if len(rec.DeletedEvents) != 1 {
		t.Fatalf("expected exactly one delete://deleted event (autofile), got %d", len(rec.DeletedEvents))
	}
	if len(rec.FailedEvents) != 2 {
		t.Fatalf("expected two delete://failed events (protected, confirmfile), got %d", len(rec.FailedEvents))
	}
}
