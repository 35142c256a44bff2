package classifier

import (
	"testing"
	"time"

	"disksight/internal/model"
)

func TestClassifyScenarioS4(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		isDir bool
		meta  Metadata
		want  model.SafetyLevel
	}{
		{
			name: "shallow windows system path is protected",
			path: `C:\Windows\System32\cmd.exe`,
			want: model.Protected,
		},
		{
			name:  "node_modules directory is auto-delete",
			path:  "project/node_modules",
			isDir: true,
			want:  model.AutoDelete,
		},
		{
			name: "pdf is confirm required",
			path: "notes.pdf",
			want: model.ConfirmRequired,
		},
		{
			name: "tmp extension is auto-delete",
			path: "build.tmp",
			want: model.AutoDelete,
		},
		{
			name: "large old unknown-extension file is confirm required",
			path: "mystery",
			meta: Metadata{
				SizeBytes: 200 * 1024 * 1024,
				ModTime:   time.Now().Add(-60 * 24 * time.Hour),
				Known:     true,
			},
			want: model.ConfirmRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.path, tc.isDir, tc.meta)
			if got != tc.want {
				t.Errorf("Classify(%q, dir=%v) = %v, want %v", tc.path, tc.isDir, got, tc.want)
			}
		})
	}
}

func TestClassifyProtectedRequiresShallowDepth(t *testing.T) {
	deep := `C:\Users\alice\Documents\Projects\myapp\Windows\build`
	if got := Classify(deep, true, Metadata{}); got == model.Protected {
		t.Errorf("expected a deep path containing 'windows' to not be protected, got %v", got)
	}
}

func TestClassifyDefaultsToConfirmRequiredOnUnknownMetadata(t *testing.T) {
	got := Classify("some/random/file.xyz", false, Metadata{})
	if got != model.ConfirmRequired {
		t.Errorf("expected default ConfirmRequired, got %v", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	path := "a/b/node_modules"
	first := Classify(path, true, Metadata{})
	second := Classify(path, true, Metadata{})
	if first != second {
		t.Errorf("expected idempotent classification, got %v then %v", first, second)
	}
}
