/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"sync"
	"time"
)

// Status is the lifecycle state of one analysis step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Step is a point-in-time view of one analysis step.
type Step struct {
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// Ledger tracks the status of a fixed set of analysis steps. A step that
// fails records its error without affecting its siblings.
type Ledger struct {
	mu    sync.Mutex
	order []string
	steps map[string]*Step
}

// NewLedger registers the named steps as pending, preserving order for
// snapshots.
func NewLedger(names ...string) *Ledger {
	l := &Ledger{
		order: names,
		steps: make(map[string]*Step, len(names)),
	}
	for _, name := range names {
		l.steps[name] = &Step{Name: name, Status: StatusPending}
	}
	return l
}

// Start marks a step running.
func (l *Ledger) Start(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if step, ok := l.steps[name]; ok {
		now := time.Now()
		step.Status = StatusRunning
		step.StartedAt = &now
	}
}

// Complete marks a step completed.
func (l *Ledger) Complete(name string) {
	l.finish(name, StatusCompleted, "")
}

// Fail marks a step errored with the given cause.
func (l *Ledger) Fail(name string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	l.finish(name, StatusError, msg)
}

func (l *Ledger) finish(name string, status Status, errMsg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if step, ok := l.steps[name]; ok {
		now := time.Now()
		step.Status = status
		step.Error = errMsg
		step.EndedAt = &now
	}
}

// Run executes fn for the named step, recording its start, completion, or
// failure. The error is absorbed into the ledger so sibling steps proceed.
func (l *Ledger) Run(name string, fn func() error) {
	l.Start(name)
	if err := fn(); err != nil {
		l.Fail(name, err)
		return
	}
	l.Complete(name)
}

// Snapshot returns a copy of every step in registration order.
func (l *Ledger) Snapshot() []Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Step, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, *l.steps[name])
	}
	return out
}

// Failed reports whether any step ended in error.
func (l *Ledger) Failed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, step := range l.steps {
		if step.Status == StatusError {
			return true
		}
	}
	return false
}
