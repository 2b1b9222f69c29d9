// Package tasks provides a bounded-concurrency job runner with admission
// control, in-flight deduplication, and lifecycle bookkeeping. It is
// separate from the parse worker pool: a task may itself await a parse
// call dispatched through the pool.
package tasks

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors.
var (
	// ErrQueueOverflow is returned when queued + active tasks already
	// reach the configured maximum.
	ErrQueueOverflow = errors.New("tasks: queue overflow")
	// ErrStalePending fails a queued task that waited longer than the
	// stale-pending threshold without starting.
	ErrStalePending = errors.New("tasks: stale pending task expired")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("tasks: manager closed")
)

// Status is a task's lifecycle state.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// terminal reports whether the status can no longer change.
func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Type names the job family for diagnostics.
type Type string

const (
	TypeHashFile      Type = "hashFile"
	TypeParseTables   Type = "parseTableDefinitions"
	TypeParseWorkbook Type = "parseWorkbookBundle"
)

// Func is the work a task performs. report publishes coarse progress in
// the 0–100 range.
type Func func(ctx context.Context, report func(int)) (any, error)

// Task is one submitted job. Two callers sharing a DedupeKey while the
// first is still pending observe the same Task and the same completion.
type Task struct {
	// ID is the unique task identifier.
	ID string
	// Type is the job family.
	Type Type
	// FilePath is the file the task operates on, if any.
	FilePath string
	// DedupeKey collapses concurrent duplicates; empty disables dedup.
	DedupeKey string

	fn   Func
	done chan struct{}

	// Guarded by the owning manager's mutex.
	status      Status
	progress    int
	result      any
	err         error
	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
}

// View is an immutable snapshot of a task's state.
type View struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	FilePath    string    `json:"file_path,omitempty"`
	DedupeKey   string    `json:"dedupe_key,omitempty"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Done is closed when the task reaches a terminal status.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completes or ctx is cancelled, then returns
// the task's result and error.
func (t *Task) Wait(ctx context.Context) (any, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	// The manager no longer mutates a terminal task, so the fields are
	// stable once done is closed.
	return t.result, t.err
}
