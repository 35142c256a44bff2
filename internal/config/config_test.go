package config

import "testing"

func TestDefaultHasConservativeDeletePosture(t *testing.T) {
	cfg := Default()
	if cfg.ForceDeleteDefault {
		t.Error("expected ForceDeleteDefault=false so ConfirmRequired paths never delete silently")
	}
}

func TestDefaultScanOptionsAreUnrestricted(t *testing.T) {
	cfg := Default()
	if cfg.DefaultScanOptions.MaxDepth != nil {
		t.Error("expected unbounded default scan depth")
	}
	if cfg.DefaultScanOptions.FollowSymlinks {
		t.Error("expected symlinks not followed by default")
	}
}
