package events

import "sync"

// Recorder is a Sink that appends every emitted payload to an
// in-memory log, in emission order. It exists for tests that need to
// assert on event ordering (spec §5: started precedes progress/
// partial-tree; finished/canceled/error terminates the stream).
type Recorder struct {
	mu             sync.Mutex
	StartedEvents  []StartedPayload
	ProgressEvents []ProgressPayload
	Partial        []PartialTreePayload
	FinishedEvents []FinishedPayload
	Errors         []ErrorPayload
	CanceledEvents []CanceledPayload
	DeletedEvents  []DeletedPayload
	FailedEvents   []FailedPayload

	// Sequence records channel names in emission order, for tests
	// that care about interleaving rather than per-channel order.
	Sequence []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Started(p StartedPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StartedEvents = append(r.StartedEvents, p)
	r.Sequence = append(r.Sequence, ChanScanStarted)
}

func (r *Recorder) Progress(p ProgressPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProgressEvents = append(r.ProgressEvents, p)
	r.Sequence = append(r.Sequence, ChanScanProgress)
}

func (r *Recorder) PartialTree(p PartialTreePayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Partial = append(r.Partial, p)
	r.Sequence = append(r.Sequence, ChanScanPartialTree)
}

func (r *Recorder) Finished(p FinishedPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedEvents = append(r.FinishedEvents, p)
	r.Sequence = append(r.Sequence, ChanScanFinished)
}

func (r *Recorder) Error(p ErrorPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, p)
	r.Sequence = append(r.Sequence, ChanScanError)
}

func (r *Recorder) Canceled(p CanceledPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CanceledEvents = append(r.CanceledEvents, p)
	r.Sequence = append(r.Sequence, ChanScanCanceled)
}

func (r *Recorder) Deleted(p DeletedPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeletedEvents = append(r.DeletedEvents, p)
	r.Sequence = append(r.Sequence, ChanDeleteDeleted)
}

func (r *Recorder) Failed(p FailedPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FailedEvents = append(r.FailedEvents, p)
	r.Sequence = append(r.Sequence, ChanDeleteFailed)
}

var _ Sink = (*Recorder)(nil)
