package model

import "testing"

func TestToDelta(t *testing.T) {
	node := &TreeNode{
		ID:        7,
		Parent:    3,
		Name:      "foo.txt",
		Path:      "/root/foo.txt",
		Kind:      KindFile,
		SizeBytes: 42,
		FileExt:   "txt",
		Children:  []NodeID{1, 2},
	}

	delta := ToDelta(node)

	if delta.ID != node.ID || delta.Parent != node.Parent || delta.Name != node.Name {
		t.Fatalf("delta identity fields mismatch: %+v", delta)
	}
	if delta.SizeBytes != node.SizeBytes || delta.FileExt != node.FileExt {
		t.Fatalf("delta size/ext mismatch: %+v", delta)
	}
}

func TestHasParent(t *testing.T) {
	root := &TreeNode{ID: 1, Parent: NoNode}
	child := &TreeNode{ID: 2, Parent: 1}

	if root.HasParent() {
		t.Error("root should report no parent")
	}
	if !child.HasParent() {
		t.Error("child should report a parent")
	}
}

func TestScanResultSummary(t *testing.T) {
	result := ScanResult{
		ScanID:     "scan-1",
		RootID:     1,
		TotalBytes: 100,
		TotalFiles: 2,
		TotalDirs:  1,
		ExtensionStats: []ExtensionStat{
			{Ext: "txt", Bytes: 100, Count: 2},
		},
	}

	summary := result.Summary()
	if summary.TotalBytes != result.TotalBytes || summary.TotalFiles != result.TotalFiles {
		t.Fatalf("summary mismatch: %+v", summary)
	}
	if len(summary.ExtensionStats) != 1 || summary.ExtensionStats[0].Ext != "txt" {
		t.Fatalf("summary extension stats mismatch: %+v", summary.ExtensionStats)
	}
}
