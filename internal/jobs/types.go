package jobs

import (
	"context"
	"sync"
	"time"

	"farc/internal/archive"
)

// Type represents job type.
type Type string

const (
	TypeCopy     Type = "copy"
	TypeMove     Type = "move"
	TypeCompress Type = "compress"
	TypeExtract  Type = "extract"
)

// Status represents job status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Job holds a single queued operation.
type Job struct {
	// immutable fields
	ID      int64
	Type    Type
	Sources []string // absolute/native source paths
	Dest    string   // destination directory, or archive path for compress
	Format  archive.Format

	// state
	mu            sync.RWMutex
	Status        Status
	TotalFiles    int
	DoneFiles     int
	CurrentSource string
	Message       string
	Error         string
	Failures      []JobFailure
	Output        string // final written path for compress jobs
	EnqueuedAt    time.Time
	StartedAt     time.Time
	CompletedAt   time.Time

	// cancellation and completion
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Snapshot returns a copy of important fields for display.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobSnapshot{
		ID:            j.ID,
		Type:          j.Type,
		Status:        j.Status,
		TotalFiles:    j.TotalFiles,
		DoneFiles:     j.DoneFiles,
		CurrentSource: j.CurrentSource,
		Message:       j.Message,
		Error:         j.Error,
		Dest:          j.Dest,
		Output:        j.Output,
		EnqueuedAt:    j.EnqueuedAt,
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
		Sources:       append([]string(nil), j.Sources...),
		Failures:      append([]JobFailure(nil), j.Failures...),
	}
}

// JobSnapshot is a read-only view of a job.
type JobSnapshot struct {
	ID            int64
	Type          Type
	Status        Status
	Sources       []string
	Dest          string
	Output        string
	TotalFiles    int
	DoneFiles     int
	CurrentSource string
	Message       string
	Error         string
	Failures      []JobFailure
	EnqueuedAt    time.Time
	StartedAt     time.Time
	CompletedAt   time.Time
}

// JobFailure records a single failing path and error message.
type JobFailure struct {
	TopSource string // top-level source item being processed when failure occurred
	Path      string // specific path that failed (may be a child inside a directory)
	Error     string
}
