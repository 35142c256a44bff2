// Package deleter implements spec §4.4: safe single-path and bulk
// deletion, gated by the classifier's SafetyLevel, trash-first with a
// permanent-removal fallback, streaming outcomes through an
// events.Sink.
//
// The per-item error accounting (counting files/folders deleted and
// collecting per-path error strings rather than aborting the whole
// bulk operation) is grounded on the teacher's
// internal/scanner/nodemodules.go DeleteNodeModules, which classifies
// failures into PERMISSION_DENIED/NOT_FOUND/UNKNOWN and keeps going
// across a batch of independent directories.
package deleter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"disksight/internal/classifier"
	"disksight/internal/events"
	"disksight/internal/model"
	"disksight/internal/trash"
)

// ErrNotFound is returned by smart-delete when the target path does
// not exist.
var ErrNotFound = fmt.Errorf("deleter: path does not exist")

// ErrProtected is returned when the classifier refuses a Protected
// path outright, regardless of force.
var ErrProtected = fmt.Errorf("deleter: path is protected and cannot be deleted")

// ErrConfirmationRequired is returned when a ConfirmRequired path is
// submitted without force.
var ErrConfirmationRequired = fmt.Errorf("deleter: requires confirmation")

// Delete removes path according to the spec's single-path algorithm:
// classify, refuse Protected outright and ConfirmRequired without
// force, precompute the byte total, try trash, fall back to permanent
// removal on trash failure, and emit exactly one delete://deleted or
// delete://failed event.
func Delete(path string, force bool, sink events.Sink) (model.DeleteResult, error) {
	if sink == nil {
		sink = events.NoopSink{}
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			sink.Failed(events.FailedPayload{Path: path, Reason: "not found"})
			return model.DeleteResult{}, ErrNotFound
		}
		sink.Failed(events.FailedPayload{Path: path, Reason: err.Error()})
		return model.DeleteResult{}, fmt.Errorf("deleter: stat %q: %w", path, err)
	}

	meta := classifier.Metadata{SizeBytes: uint64(info.Size()), ModTime: info.ModTime(), Known: true}
	safety := classifier.Classify(path, info.IsDir(), meta)

	if safety == model.Protected {
		sink.Failed(events.FailedPayload{Path: path, Reason: "protected path"})
		return model.DeleteResult{}, ErrProtected
	}
	if safety == model.ConfirmRequired && !force {
		sink.Failed(events.FailedPayload{Path: path, Reason: "requires confirmation"})
		return model.DeleteResult{}, ErrConfirmationRequired
	}

	bytesTotal, err := totalSize(path, info)
	if err != nil {
		sink.Failed(events.FailedPayload{Path: path, Reason: err.Error()})
		return model.DeleteResult{}, err
	}

	result := model.DeleteResult{WasAutoDelete: safety == model.AutoDelete}

	// Only attempt the trash on a platform that has one; skipping a
	// doomed-to-fail trash call on an unsupported platform goes
	// straight to the permanent-removal fallback below.
	if trash.IsTrashSupported() {
		if trashErr := trash.MoveToTrash(path); trashErr == nil {
			if info.IsDir() {
				result.FoldersDeleted = 1
			} else {
				result.FilesDeleted = 1
			}
			result.Success = true
			result.BytesFreed = bytesTotal
			sink.Deleted(events.DeletedPayload{Path: path, BytesFreed: bytesTotal, WasAuto: result.WasAutoDelete})
			return result, nil
		}
	}

	files, folders, errs := permanentRemove(path, info.IsDir())
	result.FilesDeleted = files
	result.FoldersDeleted = folders
	result.Errors = errs
	result.Success = len(errs) == 0
	if result.Success {
		result.BytesFreed = bytesTotal
		sink.Deleted(events.DeletedPayload{Path: path, BytesFreed: bytesTotal, WasAuto: result.WasAutoDelete})
		return result, nil
	}

	sink.Failed(events.FailedPayload{Path: path, Reason: errs[0]})
	return result, fmt.Errorf("deleter: permanent removal of %q had %d error(s)", path, len(errs))
}

// DeletePath implements the unconditional delete_path host command
// (spec §6): unlike Delete/BulkDelete it never consults the
// Classifier and never refuses a Protected or ConfirmRequired path —
// the caller (a front-end that already showed its own confirmation
// dialog) has already decided. toTrash selects trash-first semantics
// with a permanent-removal fallback, matching Delete's own fallback
// order; passing toTrash=false removes permanently right away.
func DeletePath(path string, toTrash bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("deleter: stat %q: %w", path, err)
	}

	if toTrash && trash.IsTrashSupported() {
		if err := trash.MoveToTrash(path); err == nil {
			return nil
		}
	}

	_, _, errs := permanentRemove(path, info.IsDir())
	if len(errs) > 0 {
		return fmt.Errorf("deleter: permanent removal of %q had %d error(s): %s", path, len(errs), errs[0])
	}
	return nil
}

// BulkDelete applies Delete to each path, accumulating counters and
// errors. was_auto_delete on the aggregate is true only when every
// successfully processed path was AutoDelete (spec §4.4).
func BulkDelete(paths []string, force bool, sink events.Sink) model.DeleteResult {
	if sink == nil {
		sink = events.NoopSink{}
	}

	agg := model.DeleteResult{WasAutoDelete: true}
	anySucceeded := false

	for _, p := range paths {
		res, err := Delete(p, force, sink)
		agg.BytesFreed += res.BytesFreed
		agg.FilesDeleted += res.FilesDeleted
		agg.FoldersDeleted += res.FoldersDeleted
		agg.Errors = append(agg.Errors, res.Errors...)

		if err != nil {
			agg.Errors = append(agg.Errors, fmt.Sprintf("%s: %v", p, err))
			agg.WasAutoDelete = false
			continue
		}
		anySucceeded = true
		if !res.WasAutoDelete {
			agg.WasAutoDelete = false
		}
	}

	agg.Success = anySucceeded && len(agg.Errors) == 0
	if !anySucceeded {
		agg.WasAutoDelete = false
	}
	return agg
}

func totalSize(path string, info fs.FileInfo) (uint64, error) {
	if !info.IsDir() {
		return uint64(info.Size()), nil
	}
	var total uint64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if fi, statErr := d.Info(); statErr == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total, err
}

// permanentRemove deletes path outright: a single unlink for a file,
// or a leaves-first recursive walk for a directory that keeps going
// past a per-entry failure and reports it rather than aborting.
func permanentRemove(path string, isDir bool) (files, folders int, errs []string) {
	if !isDir {
		if err := os.Remove(path); err != nil {
			return 0, 0, []string{err.Error()}
		}
		return 1, 0, nil
	}

	var dirs []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err.Error())
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		if rmErr := os.Remove(p); rmErr != nil {
			errs = append(errs, rmErr.Error())
			return nil
		}
		files++
		return nil
	})
	if err != nil {
		errs = append(errs, err.Error())
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if rmErr := os.Remove(dirs[i]); rmErr != nil {
			errs = append(errs, rmErr.Error())
			continue
		}
		folders++
	}

	return files, folders, errs
}
