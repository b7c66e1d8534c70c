package batch

import (
	"fmt"
	"strings"
)

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failed returns the failed results in input order.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.status == StatusError {
			out = append(out, r)
		}
	}
	return out
}

// maxListedFailures bounds the ids quoted in FailureError messages.
const maxListedFailures = 5

// FailureError reports a batch in which at least one item failed.
type FailureError struct {
	Op     string
	Total  int
	Failed []Result
}

// NewFailureError returns a *FailureError when any result failed, nil otherwise.
func NewFailureError(op string, results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	return &FailureError{Op: op, Total: len(results), Failed: failed}
}

func (e *FailureError) Error() string {
	ids := make([]string, 0, min(len(e.Failed), maxListedFailures))
	for _, r := range e.Failed[:min(len(e.Failed), maxListedFailures)] {
		ids = append(ids, r.id)
	}
	msg := fmt.Sprintf("%s: %d of %d items failed (%s", e.Op, len(e.Failed), e.Total, strings.Join(ids, ", "))
	if len(e.Failed) > maxListedFailures {
		msg += ", ..."
	}
	msg += ")"
	if first := e.Failed[0].err; first != nil {
		msg += ": first error: " + first.Error()
	}
	return msg
}

// Unwrap exposes the first item error.
func (e *FailureError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}
	return e.Failed[0].err
}
