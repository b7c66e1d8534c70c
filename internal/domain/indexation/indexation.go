// Package indexation models a single reindex run of a search collection.
package indexation

import (
	"errors"
	"fmt"
	"time"
)

// State is the position of a run in the reindex pipeline.
type State string

// Run states. Runs move Idle -> Clearing -> Populating -> Done; any active
// step may fail.
const (
	StateIdle       State = "idle"
	StateClearing   State = "clearing"
	StatePopulating State = "populating"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// ErrInvalidTransition is returned when a run is moved out of order.
var ErrInvalidTransition = errors.New("invalid indexation state transition")

var transitions = map[State][]State{
	StateIdle:       {StateClearing, StateFailed},
	StateClearing:   {StatePopulating, StateFailed},
	StatePopulating: {StateDone, StateFailed},
}

// Run tracks one reindex of a collection.
type Run struct {
	id         string
	collection int64
	state      State
	startedAt  time.Time
	finishedAt time.Time
	cleared    int
	populated  int
	err        error
}

// NewRun starts tracking a run in the Idle state.
func NewRun(id string, collection int64, now time.Time) *Run {
	return &Run{id: id, collection: collection, state: StateIdle, startedAt: now}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Collection returns the collection being reindexed.
func (r *Run) Collection() int64 { return r.collection }

// State returns the current state.
func (r *Run) State() State { return r.state }

// Err returns the failure cause once the run has failed.
func (r *Run) Err() error { return r.err }

// Advance moves the run to next.
func (r *Run) Advance(next State) error {
	for _, s := range transitions[r.state] {
		if s == next {
			r.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, next)
}

// Cleared records how many stale entries the clearing step removed.
func (r *Run) Cleared(n int) { r.cleared = n }

// Populated records how many pieces the populating step wrote.
func (r *Run) Populated(n int) { r.populated = n }

// Finish marks the run Done.
func (r *Run) Finish(now time.Time) error {
	if err := r.Advance(StateDone); err != nil {
		return err
	}
	r.finishedAt = now
	return nil
}

// Fail marks the run Failed and returns an *Error describing the failed step.
// Failing a terminal run leaves it unchanged.
func (r *Run) Fail(now time.Time, failed int, cause error) error {
	step := r.state
	if err := r.Advance(StateFailed); err != nil {
		return err
	}
	r.finishedAt = now
	r.err = &Error{Step: step, Collection: r.collection, Failed: failed, Err: cause}
	return r.err
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	Collection int64
	State      State
	Cleared    int
	Populated  int
	Duration   time.Duration
}

// Report returns the run summary.
func (r *Run) Report() Report {
	return Report{
		RunID:      r.id,
		Collection: r.collection,
		State:      r.state,
		Cleared:    r.cleared,
		Populated:  r.populated,
		Duration:   r.finishedAt.Sub(r.startedAt),
	}
}

// Error is a failed reindex step.
type Error struct {
	Step       State
	Collection int64
	Failed     int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("indexation of collection %d failed while %s", e.Collection, e.Step)
	if e.Failed > 0 {
		msg += fmt.Sprintf(" (%d items)", e.Failed)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
