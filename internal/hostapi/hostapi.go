// Package hostapi is the command-surface facade of spec §3: the
// methods a front-end (CLI, desktop shell, HTTP handler) calls to
// drive a scan, read results, and delete paths. It owns the wiring
// between engine, registry, deleter, classifier, diskinfo, openshell
// and an injected events.Sink, the same role the teacher's App struct
// in app.go plays for Wails bindings — generalized away from Wails so
// any host can embed it.
package hostapi

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"disksight/internal/classifier"
	"disksight/internal/config"
	"disksight/internal/deleter"
	"disksight/internal/diskinfo"
	"disksight/internal/engine"
	"disksight/internal/events"
	"disksight/internal/model"
	"disksight/internal/openshell"
	"disksight/internal/registry"
	"disksight/internal/trash"
)

// API is the host-facing facade. A zero-value API is not ready to
// use; construct one with New.
type API struct {
	registry *registry.Registry
	sink     events.Sink
}

// New builds an API backed by sink, which receives every scan and
// delete event. Pass events.NoopSink{} for a caller that polls
// GetScanResult instead of listening on channels.
func New(sink events.Sink) *API {
	if sink == nil {
		sink = events.NoopSink{}
	}
	return &API{registry: registry.New(), sink: sink}
}

// StartScan begins a scan of root in a background goroutine and
// returns its handle immediately; progress and completion are
// reported through the API's Sink and via GetScanResult.
func (a *API) StartScan(root string, opts model.ScanOptions) model.ScanHandle {
	scanID := uuid.NewString()
	cancel := a.registry.Begin(scanID)

	go func() {
		result, err := engine.Run(context.Background(), scanID, root, opts, cancel, a.sink)
		if err != nil {
			a.registry.Remove(scanID)
			return
		}
		a.registry.Finish(scanID, model.ScanResult{
			ScanID:         scanID,
			RootID:         result.Tree.RootID,
			TotalBytes:     result.Summary.TotalBytes,
			TotalFiles:     result.Summary.TotalFiles,
			TotalDirs:      result.Summary.TotalDirs,
			ExtensionStats: result.Summary.ExtensionStats,
		})
	}()

	return model.ScanHandle{ScanID: scanID}
}

// CancelScan requests cancellation of an in-flight scan. Returns false
// if scanID is not currently active; this is a benign no-op, not an
// error.
func (a *API) CancelScan(scanID string) bool {
	return a.registry.Cancel(scanID)
}

// GetScanResult returns the completed result for scanID, if the scan
// has finished.
func (a *API) GetScanResult(scanID string) (model.ScanResult, bool) {
	return a.registry.Result(scanID)
}

// ListRoots enumerates scannable roots (mount points / volumes).
func (a *API) ListRoots() ([]model.RootEntry, error) {
	return diskinfo.List()
}

// OpenInExplorer reveals path in the host OS's file manager.
func (a *API) OpenInExplorer(path string) error {
	return openshell.Open(path)
}

// GetPathSize returns the total size of path: its own size for a
// file, or the recursive sum of its contents for a directory.
func (a *API) GetPathSize(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "hostapi: stat %q", path)
	}
	if !info.IsDir() {
		return uint64(info.Size()), nil
	}

	var total uint64
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, statErr := d.Info(); statErr == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total, err
}

// GetFileSafetyLevel classifies path without deleting it.
func (a *API) GetFileSafetyLevel(path string) (model.SafetyLevel, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", errors.Wrapf(err, "hostapi: stat %q", path)
	}
	meta := classifier.Metadata{SizeBytes: uint64(info.Size()), ModTime: info.ModTime(), Known: true}
	return classifier.Classify(path, info.IsDir(), meta), nil
}

// GetFileDetails composes stat metadata with the safety classification
// for one path, mirroring commands.rs's get_file_details composition
// of its own get_path_size + classify calls into one response.
func (a *API) GetFileDetails(path string) (model.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return model.FileInfo{}, errors.Wrapf(err, "hostapi: stat %q", path)
	}

	size, err := a.GetPathSize(path)
	if err != nil {
		return model.FileInfo{}, err
	}

	meta := classifier.Metadata{SizeBytes: uint64(info.Size()), ModTime: info.ModTime(), Known: true}
	safety := classifier.Classify(path, info.IsDir(), meta)

	return model.FileInfo{
		Path:        path,
		Name:        filepath.Base(path),
		SizeBytes:   size,
		SafetyLevel: safety,
		IsDir:       info.IsDir(),
	}, nil
}

// DeletePath implements the unconditional delete_path host command
// (spec §6): it bypasses the classifier entirely, unlike SmartDelete.
func (a *API) DeletePath(path string, toTrash bool) error {
	return deleter.DeletePath(path, toTrash)
}

// TrashInfo reports whether this host has a usable trash/recycle bin
// and where it lives, for a front-end that wants to show the user
// where a "move to trash" delete actually sends files.
func (a *API) TrashInfo() model.TrashInfo {
	info := model.TrashInfo{Supported: trash.IsTrashSupported()}
	if !info.Supported {
		return info
	}
	loc, err := trash.GetTrashLocation()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Location = loc
	return info
}

// SmartDelete deletes one path per spec §4.4 with the caller's force
// flag as given; it does not consult the configured default (see
// DefaultForce).
func (a *API) SmartDelete(path string, force bool) (model.DeleteResult, error) {
	return deleter.Delete(path, force, a.sink)
}

// BulkSmartDelete deletes every path in paths per spec §4.4.
func (a *API) BulkSmartDelete(paths []string, force bool) model.DeleteResult {
	return deleter.BulkDelete(paths, force, a.sink)
}

// DefaultForce returns the configured default force posture for
// deletes that don't specify one explicitly.
func DefaultForce() bool {
	return config.Get().ForceDeleteDefault
}
