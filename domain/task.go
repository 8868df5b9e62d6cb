package domain

import (
	"math"
	"time"
)

// DefaultPriority is the mid-value assigned when neither the caller nor the
// estimator picks a priority. Lower numbers are more urgent.
const DefaultPriority = 5

// noDeadline sorts tasks without a deadline after every deadlined task of
// equal priority.
const noDeadline = int64(math.MaxInt64)

// Task represents one unit of work tracked by the scheduler.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Priority         int        `json:"priority"`
	Deadline         *time.Time `json:"deadline"`
	CreatedAt        time.Time  `json:"created_at"`
	Completed        bool       `json:"completed"`
	Progress         int        `json:"progress"`
	Dependencies     []string   `json:"dependencies"`
	Tags             []string   `json:"tags"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	AutoAssigned     bool       `json:"auto_assigned"`
	Reminded         bool       `json:"reminded"`

	key SortKey
}

// SortKey orders tasks for "what should be worked on next": ascending
// priority, then earliest deadline (absent deadline last), then id so that
// equal keys compare deterministically.
type SortKey struct {
	Priority int
	Due      int64
	ID       string
}

// Less reports whether k orders strictly before other.
func (k SortKey) Less(other SortKey) bool {
	if k.Priority != other.Priority {
		return k.Priority < other.Priority
	}
	if k.Due != other.Due {
		return k.Due < other.Due
	}
	return k.ID < other.ID
}

// RecomputeSortKey refreshes the cached ordering key. Callers must invoke it
// after any change to Priority or Deadline, before the task re-enters the
// priority index.
func (t *Task) RecomputeSortKey() {
	due := noDeadline
	if t.Deadline != nil {
		due = t.Deadline.UnixNano()
	}
	t.key = SortKey{Priority: t.Priority, Due: due, ID: t.ID}
}

// SortKey returns the cached ordering key.
func (t *Task) SortKey() SortKey {
	return t.key
}

// HasDeadline reports whether the task carries a deadline.
func (t *Task) HasDeadline() bool {
	return t != nil && t.Deadline != nil
}

// SetProgress clamps value into [0,100] and applies the completion invariant:
// full progress marks the task completed.
func (t *Task) SetProgress(value int) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	t.Progress = value
	if t.Progress == 100 {
		t.Completed = true
	}
}

// Clone returns a detached copy. Pointer and slice fields are duplicated so
// the caller can never alias live store state.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.EstimatedMinutes != nil {
		m := *t.EstimatedMinutes
		c.EstimatedMinutes = &m
	}
	c.Dependencies = append([]string(nil), t.Dependencies...)
	c.Tags = append([]string(nil), t.Tags...)
	return &c
}

// AddDependency appends id unless it is already listed.
func (t *Task) AddDependency(id string) {
	for _, dep := range t.Dependencies {
		if dep == id {
			return
		}
	}
	t.Dependencies = append(t.Dependencies, id)
}
