// Package engine implements the scan algorithm of spec §4.2: it drives
// the walker, builds the in-memory node tree, aggregates directory
// sizes up the ancestor chain, and emits throttled progress/partial-
// tree events through an events.Sink while the scan is running.
//
// The control flow (node allocation, saturating ancestor aggregation,
// wall-clock-gated emission, the depth-descending finalize pass) is
// carried over function-for-function from original_source's
// scan/engine.rs run_scan, translated from Rust's Arc<Mutex<...>> plus
// a background thread into a single goroutine owning its state
// directly — the spec is explicit that the Engine, like the Walker, is
// single-threaded.
package engine

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"disksight/internal/events"
	"disksight/internal/model"
	"disksight/internal/walker"
)

const (
	// cancelPollInterval is how many walked items pass between checks
	// of the cancellation flag (engine.rs: same sampling rationale —
	// atomic loads are cheap but not free at this visitation rate).
	cancelPollInterval = 5000

	// emitSampleInterval is how many processed items pass between
	// wall-clock reads for throttled-event gating.
	emitSampleInterval = 2000

	progressInterval = 50 * time.Millisecond
	partialInterval   = 100 * time.Millisecond
	maxPartialBatch   = 10000
)

// ErrCanceled is returned by Run when the scan was canceled via the
// supplied cancel flag rather than failing or completing normally.
var ErrCanceled = errors.New("engine: scan canceled")

// Tree is the in-memory node arena produced by a completed scan; a
// canceled scan returns no Tree.
type Tree struct {
	Nodes  map[model.NodeID]*model.TreeNode
	RootID model.NodeID
}

// Result bundles the final tree with its aggregate summary.
type Result struct {
	Tree    *Tree
	Summary model.ScanSummary
}

type engine struct {
	scanID string
	opts   model.ScanOptions
	sink   events.Sink
	cancel *atomic.Bool

	nodes      map[model.NodeID]*model.TreeNode
	pathToID   map[string]model.NodeID
	nextID     model.NodeID
	extBytes   map[string]uint64
	extCount   map[string]uint64

	visitedEntries uint64
	visitedBytes   uint64

	lastProgress time.Time
	lastPartial  time.Time
	changedSince []model.NodeID
	processed    uint64
}

// Run walks root and builds its scan tree. cancel is polled
// cooperatively; a nil cancel flag behaves as "never canceled". sink
// receives started/progress/partial-tree/finished/error/canceled
// events; a nil sink is treated as events.NoopSink.
func Run(ctx context.Context, scanID, root string, opts model.ScanOptions, cancel *atomic.Bool, sink events.Sink) (*Result, error) {
	if sink == nil {
		sink = events.NoopSink{}
	}
	if cancel == nil {
		cancel = &atomic.Bool{}
	}

	root = normalizeRoot(root)

	e := &engine{
		scanID:   scanID,
		opts:     opts,
		sink:     sink,
		cancel:   cancel,
		nodes:    make(map[model.NodeID]*model.TreeNode),
		pathToID: make(map[string]model.NodeID),
		extBytes: make(map[string]uint64),
		extCount: make(map[string]uint64),
	}

	sink.Started(events.StartedPayload{
		ScanID:    scanID,
		RootPath:  root,
		StartedAt: time.Now().Unix(),
	})

	rootID := e.ensureDirNode(root, model.NoNode)
	e.changedSince = append(e.changedSince, rootID)

	walkErr := walker.Walk(root, opts, func(entry walker.Entry) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		e.processed++
		if e.processed%cancelPollInterval == 0 && e.cancel.Load() {
			return ErrCanceled
		}

		if entry.Path == root {
			return nil
		}

		parentID := e.parentIDFor(entry.Path)

		var nodeID model.NodeID
		if entry.IsDir {
			nodeID = e.ensureDirNode(entry.Path, parentID)
		} else {
			if entry.Size == 0 {
				// Zero-byte files are skipped entirely: no node, no
				// file count, no extension stat (spec §9, preserved
				// verbatim from the distillation).
				return nil
			}
			nodeID = e.ensureFileNode(entry.Path, parentID, entry.Size)
			e.incrementAncestorSizes(nodeID, entry.Size)
			e.recordExtension(entry.Path, entry.Size)
		}

		e.visitedEntries++
		e.visitedBytes += entry.Size
		e.changedSince = append(e.changedSince, nodeID)

		if e.processed%emitSampleInterval == 0 {
			now := time.Now()
			e.maybeEmitProgress(now, entry.Path)
			e.maybeEmitPartial(now)
		}

		return nil
	}, func(path string, walkErr error) error {
		msg := walkErr.Error()
		sink.Error(events.ErrorPayload{ScanID: scanID, Message: msg, Path: &path})
		return nil
	})

	if walkErr == ErrCanceled || errors.Is(walkErr, ErrCanceled) {
		e.emitPartialBatch(true)
		sink.Canceled(events.CanceledPayload{ScanID: scanID})
		return nil, ErrCanceled
	}
	if walkErr != nil {
		sink.Error(events.ErrorPayload{ScanID: scanID, Message: walkErr.Error(), Path: nil})
		return nil, errors.Wrap(walkErr, "engine: walk failed")
	}

	// Post-walk cancellation gate (spec §4.2 step 4, §5): a tree small
	// enough that the 5000-item poll never fired could still have had
	// its cancel flag set before or during the walk.
	if e.cancel.Load() {
		sink.Canceled(events.CanceledPayload{ScanID: scanID})
		return nil, ErrCanceled
	}

	e.sink.Progress(events.ProgressPayload{
		ScanID:             scanID,
		VisitedEntries:     e.visitedEntries,
		VisitedBytesApprox: e.visitedBytes,
		CurrentPath:        root,
		Phase:              events.PhaseFinalizing,
	})

	e.recomputeDirSizes(rootID)

	// Mark every node changed so the final drain re-emits recomputed
	// sizes even for directories already drained mid-walk (spec §4.2
	// step 4: "Mark all nodes changed").
	e.changedSince = e.changedSince[:0]
	for id := range e.nodes {
		e.changedSince = append(e.changedSince, id)
	}
	e.emitPartialBatch(true)

	summary := e.buildSummary(rootID)

	sink.Finished(events.FinishedPayload{
		ScanID:     scanID,
		Summary:    summary,
		RootNodeID: rootID,
		FinishedAt: time.Now().Unix(),
	})

	return &Result{
		Tree:    &Tree{Nodes: e.nodes, RootID: rootID},
		Summary: summary,
	}, nil
}

func normalizeRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return filepath.Clean(abs)
}

func (e *engine) allocID() model.NodeID {
	e.nextID++
	return e.nextID
}

// ensureDirNode returns the NodeID for path, creating it (and linking
// it into parent's Children) if this is the first time path is seen.
// Mirrors engine.rs's path_map-keyed dedup in ensure_dir_node.
func (e *engine) ensureDirNode(path string, parent model.NodeID) model.NodeID {
	if id, ok := e.pathToID[path]; ok {
		return id
	}
	id := e.allocID()
	node := &model.TreeNode{
		ID:     id,
		Parent: parent,
		Name:   filepath.Base(path),
		Path:   path,
		Kind:   model.KindDir,
	}
	e.nodes[id] = node
	e.pathToID[path] = id
	if parent != model.NoNode {
		if pn, ok := e.nodes[parent]; ok {
			pn.Children = append(pn.Children, id)
		}
	}
	return id
}

func (e *engine) ensureFileNode(path string, parent model.NodeID, size uint64) model.NodeID {
	if id, ok := e.pathToID[path]; ok {
		return id
	}
	id := e.allocID()
	node := &model.TreeNode{
		ID:        id,
		Parent:    parent,
		Name:      filepath.Base(path),
		Path:      path,
		Kind:      model.KindFile,
		SizeBytes: size,
		FileExt:   extractExtension(path),
	}
	e.nodes[id] = node
	e.pathToID[path] = id
	if parent != model.NoNode {
		if pn, ok := e.nodes[parent]; ok {
			pn.Children = append(pn.Children, id)
		}
	}
	return id
}

// parentIDFor returns the already-allocated NodeID for path's parent
// directory; the walker guarantees parent-before-child visitation so
// this always hits pathToID.
func (e *engine) parentIDFor(path string) model.NodeID {
	parentPath := filepath.Dir(path)
	if id, ok := e.pathToID[parentPath]; ok {
		return id
	}
	return e.ensureDirNode(parentPath, model.NoNode)
}

// incrementAncestorSizes walks the parent chain from id's parent up to
// the root, saturating-adding delta to each ancestor's SizeBytes.
// Ported from engine.rs increment_ancestor_sizes.
func (e *engine) incrementAncestorSizes(id model.NodeID, delta uint64) {
	node, ok := e.nodes[id]
	if !ok {
		return
	}
	current := node.Parent
	for current != model.NoNode {
		parent, ok := e.nodes[current]
		if !ok {
			return
		}
		parent.SizeBytes = saturatingAdd(parent.SizeBytes, delta)
		current = parent.Parent
	}
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// recomputeDirSizes is the authoritative correctness backstop run at
// finalize: directories are visited deepest-first and their size set
// to the sum of their direct children, which corrects any drift the
// incremental saturating-add pass could have introduced.
func (e *engine) recomputeDirSizes(rootID model.NodeID) {
	type withDepth struct {
		id    model.NodeID
		depth int
	}
	var dirs []withDepth
	var depthOf func(id model.NodeID) int
	depthOf = func(id model.NodeID) int {
		n, ok := e.nodes[id]
		if !ok || n.Parent == model.NoNode {
			return 0
		}
		return 1 + depthOf(n.Parent)
	}
	for id, n := range e.nodes {
		if n.Kind == model.KindDir {
			dirs = append(dirs, withDepth{id: id, depth: depthOf(id)})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].depth > dirs[j].depth })

	for _, d := range dirs {
		node := e.nodes[d.id]
		var total uint64
		for _, childID := range node.Children {
			if child, ok := e.nodes[childID]; ok {
				total = saturatingAdd(total, child.SizeBytes)
			}
		}
		node.SizeBytes = total
	}
}

func (e *engine) recordExtension(path string, size uint64) {
	ext := extractExtension(path)
	e.extBytes[ext] = saturatingAdd(e.extBytes[ext], size)
	e.extCount[ext]++
}

// extractExtension lowercases the last dot-suffix of a filename, or
// returns model.NoExtension when there isn't one. Ported from
// engine.rs extract_extension.
func extractExtension(path string) string {
	name := filepath.Base(path)
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return model.NoExtension
	}
	return strings.ToLower(name[idx+1:])
}

func (e *engine) buildSummary(rootID model.NodeID) model.ScanSummary {
	root := e.nodes[rootID]

	stats := make([]model.ExtensionStat, 0, len(e.extBytes))
	for ext, bytes := range e.extBytes {
		stats = append(stats, model.ExtensionStat{Ext: ext, Bytes: bytes, Count: e.extCount[ext]})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Bytes > stats[j].Bytes })

	var totalFiles, totalDirs uint64
	for _, n := range e.nodes {
		if n.Kind == model.KindFile {
			totalFiles++
		} else {
			totalDirs++
		}
	}

	return model.ScanSummary{
		TotalBytes:     root.SizeBytes,
		TotalFiles:     totalFiles,
		TotalDirs:      totalDirs,
		ExtensionStats: stats,
	}
}

func (e *engine) maybeEmitProgress(now time.Time, currentPath string) {
	if !e.lastProgress.IsZero() && now.Sub(e.lastProgress) < progressInterval {
		return
	}
	e.lastProgress = now
	e.sink.Progress(events.ProgressPayload{
		ScanID:             e.scanID,
		VisitedEntries:     e.visitedEntries,
		VisitedBytesApprox: e.visitedBytes,
		CurrentPath:        currentPath,
		Phase:              events.PhaseWalking,
	})
}

func (e *engine) maybeEmitPartial(now time.Time) {
	if !e.lastPartial.IsZero() && now.Sub(e.lastPartial) < partialInterval {
		return
	}
	e.lastPartial = now
	e.emitPartialBatch(false)
}

// emitPartialBatch drains up to maxPartialBatch changed nodes, sorted
// ascending by NodeID, as one scan://partial-tree event. When force is
// true (finalize / cancel) it drains everything regardless of the cap,
// possibly across several events.
func (e *engine) emitPartialBatch(force bool) {
	if len(e.changedSince) == 0 {
		return
	}
	sort.Slice(e.changedSince, func(i, j int) bool { return e.changedSince[i] < e.changedSince[j] })

	for len(e.changedSince) > 0 {
		batchSize := len(e.changedSince)
		if batchSize > maxPartialBatch {
			batchSize = maxPartialBatch
		}
		batch := e.changedSince[:batchSize]
		e.changedSince = e.changedSince[batchSize:]

		deltas := make([]model.TreeNodeDelta, 0, len(batch))
		for _, id := range batch {
			if n, ok := e.nodes[id]; ok {
				deltas = append(deltas, model.ToDelta(n))
			}
		}
		e.sink.PartialTree(events.PartialTreePayload{
			ScanID:    e.scanID,
			Nodes:     deltas,
			UpdatedAt: time.Now().Unix(),
		})

		if !force {
			break
		}
	}
}
