package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grammarforge/submodsync/pkg/errors"
)

// EntryResult is the outcome of reconciling one sub-project.
type EntryResult struct {
	Path    string      `json:"path" yaml:"path"`
	Applied []Operation `json:"applied,omitempty" yaml:"applied,omitempty"`
	Planned []Operation `json:"planned,omitempty" yaml:"planned,omitempty"` // dry-run only
	InSync  int         `json:"in_sync" yaml:"in_sync"`                     // bindings already correct
	Err     error       `json:"-" yaml:"-"`
}

// Failed reports whether this entry ended in error.
func (e EntryResult) Failed() bool {
	return e.Err != nil
}

// Result aggregates per-sub-project outcomes of one reconciliation run.
type Result struct {
	Entries  []EntryResult `json:"entries" yaml:"entries"`
	DryRun   bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Canceled bool          `json:"canceled,omitempty" yaml:"canceled,omitempty"`
}

func (r *Result) sort() {
	sort.Slice(r.Entries, func(i, j int) bool { return r.Entries[i].Path < r.Entries[j].Path })
}

// Ops returns the total number of applied (or, in dry-run, planned)
// operations.
func (r *Result) Ops() int {
	n := 0
	for _, e := range r.Entries {
		n += len(e.Applied) + len(e.Planned)
	}
	return n
}

// Failed returns the entries that ended in error, in path order.
func (r *Result) Failed() []EntryResult {
	var failed []EntryResult
	for _, e := range r.Entries {
		if e.Failed() {
			failed = append(failed, e)
		}
	}
	return failed
}

// Err returns nil when every entry succeeded, otherwise a single error
// listing all failed sub-projects. The error matches errors.ErrApplyFailed
// and, when the run was interrupted, errors.ErrCanceled.
func (r *Result) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		if r.Canceled {
			return errors.ErrCanceled
		}
		return nil
	}

	paths := make([]string, len(failed))
	for i, e := range failed {
		paths[i] = e.Path
	}
	return &aggregateError{
		canceled: r.Canceled,
		paths:    paths,
		entries:  failed,
	}
}

// aggregateError collects per-sub-project failures into one error.
type aggregateError struct {
	canceled bool
	paths    []string
	entries  []EntryResult
}

// Error implements the error interface
func (e *aggregateError) Error() string {
	msg := fmt.Sprintf("reconciliation failed for %d sub-project(s): %s",
		len(e.paths), strings.Join(e.paths, ", "))
	if e.canceled {
		msg += " (run interrupted)"
	}
	return msg
}

// Is implements errors.Is support
func (e *aggregateError) Is(target error) bool {
	if target == errors.ErrApplyFailed {
		return true
	}
	return e.canceled && target == errors.ErrCanceled
}

// Unwrap exposes the individual entry errors.
func (e *aggregateError) Unwrap() []error {
	errs := make([]error, len(e.entries))
	for i, entry := range e.entries {
		errs[i] = entry.Err
	}
	return errs
}
