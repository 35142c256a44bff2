// Package events defines the typed event-sink facade the Engine and
// Deleter emit through. The sink itself — how a payload actually
// reaches a front-end — is injected; this package only fixes the
// payload shapes and channel names from spec §6.
package events

import "disksight/internal/model"

// Channel names, fixed by the spec.
const (
	ChanScanStarted     = "scan://started"
	ChanScanProgress    = "scan://progress"
	ChanScanPartialTree = "scan://partial-tree"
	ChanScanFinished    = "scan://finished"
	ChanScanError       = "scan://error"
	ChanScanCanceled    = "scan://canceled"
	ChanDeleteDeleted   = "delete://deleted"
	ChanDeleteFailed    = "delete://failed"
)

// Phase values for ProgressPayload.
const (
	PhaseWalking    = "walking"
	PhaseFinalizing = "finalizing"
)

type StartedPayload struct {
	ScanID    string `json:"scan_id"`
	RootPath  string `json:"root_path"`
	StartedAt int64  `json:"started_at"`
}

type ProgressPayload struct {
	ScanID             string `json:"scan_id"`
	VisitedEntries     uint64 `json:"visited_entries"`
	VisitedBytesApprox uint64 `json:"visited_bytes_approx"`
	CurrentPath        string `json:"current_path"`
	Phase              string `json:"phase"`
}

type PartialTreePayload struct {
	ScanID    string                `json:"scan_id"`
	Nodes     []model.TreeNodeDelta `json:"nodes"`
	UpdatedAt int64                 `json:"updated_at"`
}

type FinishedPayload struct {
	ScanID     string            `json:"scan_id"`
	Summary    model.ScanSummary `json:"summary"`
	RootNodeID model.NodeID      `json:"root_node_id"`
	FinishedAt int64             `json:"finished_at"`
}

type ErrorPayload struct {
	ScanID  string  `json:"scan_id"`
	Message string  `json:"message"`
	Path    *string `json:"path,omitempty"`
}

type CanceledPayload struct {
	ScanID string `json:"scan_id"`
}

type DeletedPayload struct {
	Path       string `json:"path"`
	BytesFreed uint64 `json:"bytes_freed"`
	WasAuto    bool   `json:"was_auto"`
}

type FailedPayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Sink is the typed emit facade the Engine and Deleter accept. It is
// expected to be non-blocking (or to absorb backpressure itself) —
// the worker goroutine that calls it never waits on a front-end.
type Sink interface {
	Started(StartedPayload)
	Progress(ProgressPayload)
	PartialTree(PartialTreePayload)
	Finished(FinishedPayload)
	Error(ErrorPayload)
	Canceled(CanceledPayload)
	Deleted(DeletedPayload)
	Failed(FailedPayload)
}

// NoopSink discards every event. Passing nil to the Engine/Deleter has
// the same effect; NoopSink exists for callers that want a concrete,
// non-nil Sink value (e.g. to avoid nil-checks at call sites).
type NoopSink struct{}

func (NoopSink) Started(StartedPayload)         {}
func (NoopSink) Progress(ProgressPayload)        {}
func (NoopSink) PartialTree(PartialTreePayload)  {}
func (NoopSink) Finished(FinishedPayload)        {}
func (NoopSink) Error(ErrorPayload)              {}
func (NoopSink) Canceled(CanceledPayload)        {}
func (NoopSink) Deleted(DeletedPayload)          {}
func (NoopSink) Failed(FailedPayload)            {}

var _ Sink = NoopSink{}
