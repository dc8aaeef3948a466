// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Status is the lifecycle state of a background scan.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is a snapshot of a background scan.
type Job struct {
	ID        string    `json:"scan_id" yaml:"scan_id"`
	IP        string    `json:"ip" yaml:"ip"`
	Status    Status    `json:"status" yaml:"status"`
	Progress  int       `json:"progress" yaml:"progress"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Result    *Result   `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Registry runs scans in the background and keeps their jobs in memory.
type Registry struct {
	scanner *Scanner
	newID   func() (string, error)

	mu   sync.RWMutex
	jobs map[string]*Job
	wg   sync.WaitGroup
}

// NewRegistry creates a registry that runs scans with scanner.
func NewRegistry(scanner *Scanner) *Registry {
	return &Registry{
		scanner: scanner,
		newID:   newJobID,
		jobs:    make(map[string]*Job),
	}
}

func newJobID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", goerr.Wrap(err, "generating scan id")
	}
	return id.String(), nil
}

// Start validates ip and starts a background scan. The scan keeps running
// after ctx is cancelled; ctx only provides the logger.
func (r *Registry) Start(ctx context.Context, ip string) (Job, error) {
	ip, err := NormalizeIPv4(ip)
	if err != nil {
		return Job{}, err
	}
	id, err := r.newID()
	if err != nil {
		return Job{}, err
	}

	job := &Job{ID: id, IP: ip, Status: StatusPending, CreatedAt: time.Now()}
	r.mu.Lock()
	r.jobs[id] = job
	snapshot := *job
	r.mu.Unlock()

	runCtx := ctxlog.With(context.WithoutCancel(ctx), ctxlog.From(ctx).With("scan_id", id))
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(runCtx, id, ip)
	}()
	return snapshot, nil
}

func (r *Registry) run(ctx context.Context, id, ip string) {
	r.update(id, func(j *Job) { j.Status = StatusRunning })

	result, err := r.scanner.Run(ctx, ip, func(percent int) {
		r.update(id, func(j *Job) { j.Progress = percent })
	})

	r.update(id, func(j *Job) {
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = StatusCompleted
		j.Result = result
	})
}

func (r *Registry) update(id string, fn func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		fn(j)
	}
}

// Get returns a snapshot of the job with the given id.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Wait blocks until every started scan has finished.
func (r *Registry) Wait() {
	r.wg.Wait()
}
