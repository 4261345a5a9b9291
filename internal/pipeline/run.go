package pipeline

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Status represents the state of a pipeline run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Phase names one step of a run.
type Phase string

const (
	PhaseResolve    Phase = "resolve"
	PhaseLoading    Phase = "loading"
	PhaseValidating Phase = "validating"
	PhaseRendering  Phase = "rendering"
	PhaseWriting    Phase = "writing"
	PhaseDone       Phase = "done"
)

// Run tracks the state of a single invocation.
type Run struct {
	ID     string
	Status Status
	Phase  Phase

	StartedAt time.Time
	UpdatedAt time.Time

	Err error
}

func newRun() *Run {
	now := time.Now()
	return &Run{
		ID:        newRunID(),
		Status:    StatusRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Enter moves the run to the next phase.
func (r *Run) Enter(phase Phase) {
	r.Phase = phase
	r.UpdatedAt = time.Now()
}

// Fail records the error that stopped the run. The phase is kept so
// callers can see where it stopped.
func (r *Run) Fail(err error) {
	r.Status = StatusFailed
	r.Err = err
	r.UpdatedAt = time.Now()
}

// Complete marks the run as finished.
func (r *Run) Complete() {
	r.Status = StatusCompleted
	r.Phase = PhaseDone
	r.UpdatedAt = time.Now()
}

// Elapsed returns the time between start and the last update.
func (r *Run) Elapsed() time.Duration {
	return r.UpdatedAt.Sub(r.StartedAt)
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
