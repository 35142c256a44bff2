// Package model holds the data types shared by the walker, engine,
// classifier, deleter and registry: node identities, the in-memory tree
// records, scan configuration and results.
package model

import "time"

// NodeID is an opaque, per-scan, monotonically increasing identifier.
// Zero is reserved for "no node" / "no parent".
type NodeID uint64

// NoNode is the sentinel NodeID meaning "none".
const NoNode NodeID = 0

// NodeKind tags whether a TreeNode is a file or a directory.
type NodeKind string

const (
	KindFile NodeKind = "file"
	KindDir  NodeKind = "dir"
)

// NoExtension is the sentinel extension bucket for files with no
// dot-suffix.
const NoExtension = "<none>"

// TreeNode is one node of the in-memory scan tree. Nodes are stored in
// a NodeID-keyed map (an arena), not linked by pointer, so the tree can
// be mutated and walked without ownership cycles.
type TreeNode struct {
	ID       NodeID   `json:"id"`
	Parent   NodeID   `json:"parent,omitempty"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Kind     NodeKind `json:"kind"`
	SizeBytes uint64  `json:"size_bytes"`
	FileExt  string   `json:"file_ext,omitempty"`
	Children []NodeID `json:"children,omitempty"`
}

// HasParent reports whether this node is not the scan root.
func (n *TreeNode) HasParent() bool {
	return n.Parent != NoNode
}

// TreeNodeDelta is a TreeNode projection without the child list, used
// for streaming partial-tree updates.
type TreeNodeDelta struct {
	ID        NodeID   `json:"id"`
	Parent    NodeID   `json:"parent,omitempty"`
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Kind      NodeKind `json:"kind"`
	SizeBytes uint64   `json:"size_bytes"`
	FileExt   string   `json:"file_ext,omitempty"`
}

// ToDelta projects a TreeNode into its streaming delta form.
func ToDelta(n *TreeNode) TreeNodeDelta {
	return TreeNodeDelta{
		ID:        n.ID,
		Parent:    n.Parent,
		Name:      n.Name,
		Path:      n.Path,
		Kind:      n.Kind,
		SizeBytes: n.SizeBytes,
		FileExt:   n.FileExt,
	}
}

// ExtensionStat aggregates bytes/count for one lowercased extension
// (or the NoExtension sentinel).
type ExtensionStat struct {
	Ext   string `json:"ext"`
	Bytes uint64 `json:"bytes"`
	Count uint64 `json:"count"`
}

// ScanOptions configures a single scan.
type ScanOptions struct {
	FollowSymlinks  bool     `json:"follow_symlinks"`
	OneFileSystem   bool     `json:"one_file_system"`
	MaxDepth        *uint32  `json:"max_depth,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
}

// DefaultScanOptions returns the zero-value-equivalent default options:
// no symlink following, no filesystem-boundary stop, unbounded depth,
// no extra excludes beyond the built-in skip-list.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{}
}

// ScanSummary is the aggregate portion of a ScanResult, also shipped
// standalone in the scan://finished event payload.
type ScanSummary struct {
	TotalBytes      uint64          `json:"total_bytes"`
	TotalFiles      uint64          `json:"total_files"`
	TotalDirs       uint64          `json:"total_dirs"`
	ExtensionStats  []ExtensionStat `json:"extension_stats"`
}

// ScanResult is the full result of a completed scan, as retained by
// the Scan Registry.
type ScanResult struct {
	ScanID         string          `json:"scan_id"`
	RootID         NodeID          `json:"root_id"`
	TotalBytes     uint64          `json:"total_bytes"`
	TotalFiles     uint64          `json:"total_files"`
	TotalDirs      uint64          `json:"total_dirs"`
	ExtensionStats []ExtensionStat `json:"extension_stats"`
}

// Summary projects a ScanResult down to its ScanSummary.
func (r ScanResult) Summary() ScanSummary {
	return ScanSummary{
		TotalBytes:     r.TotalBytes,
		TotalFiles:     r.TotalFiles,
		TotalDirs:      r.TotalDirs,
		ExtensionStats: r.ExtensionStats,
	}
}

// ScanHandle is returned from start_scan.
type ScanHandle struct {
	ScanID string `json:"scan_id"`
}

// SafetyLevel classifies how safe a path is to delete.
type SafetyLevel string

const (
	AutoDelete      SafetyLevel = "auto_delete"
	ConfirmRequired SafetyLevel = "confirm_required"
	Protected       SafetyLevel = "protected"
)

// DeleteResult is returned by smart_delete and bulk_smart_delete.
type DeleteResult struct {
	Success        bool     `json:"success"`
	BytesFreed     uint64   `json:"bytes_freed"`
	FilesDeleted   int      `json:"files_deleted"`
	FoldersDeleted int      `json:"folders_deleted"`
	Errors         []string `json:"errors,omitempty"`
	WasAutoDelete  bool     `json:"was_auto_delete"`
}

// FileInfo is the result of get_file_details.
type FileInfo struct {
	Path        string      `json:"path"`
	Name        string      `json:"name"`
	SizeBytes   uint64      `json:"size_bytes"`
	SafetyLevel SafetyLevel `json:"safety_level"`
	IsDir       bool        `json:"is_dir"`
}

// RootEntry describes one enumerable scan root (mount point / volume).
type RootEntry struct {
	Name           string `json:"name"`
	Path           string `json:"path"`
	TotalBytes     uint64 `json:"total_bytes"`
	AvailableBytes uint64 `json:"available_bytes"`
}

// ScanState is what the registry retains for an active (not yet
// finished) scan.
type ScanState struct {
	StartedAt time.Time
}

// TrashInfo reports whether the host platform has a usable trash/
// recycle bin and, when known, where it lives on disk.
type TrashInfo struct {
	Supported bool   `json:"supported"`
	Location  string `json:"location,omitempty"`
	Error     string `json:"error,omitempty"`
}
