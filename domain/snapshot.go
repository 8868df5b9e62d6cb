package domain

import (
	"fmt"
	"time"
)

// Snapshot is the full export/import payload: every task, completed and
// active, in store insertion order. Importing a snapshot replaces the store
// contents wholesale.
type Snapshot struct {
	Tasks []TaskRecord `json:"tasks"`
}

// TaskRecord is the wire form of a task. Timestamps travel as RFC 3339 text;
// an absent deadline is JSON null, never a sentinel string. Optional fields
// are pointers so a missing value can fall back to the fresh-creation default.
type TaskRecord struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         *int     `json:"priority"`
	Deadline         *string  `json:"deadline"`
	CreatedAt        string   `json:"created_at"`
	Completed        bool     `json:"completed"`
	Progress         int      `json:"progress"`
	Dependencies     []string `json:"dependencies"`
	Tags             []string `json:"tags"`
	EstimatedMinutes *int     `json:"estimated_minutes"`
	AutoAssigned     bool     `json:"auto_assigned"`
	Reminded         bool     `json:"reminded"`
}

// NewTaskRecord converts a task into its wire form.
func NewTaskRecord(t *Task) TaskRecord {
	rec := TaskRecord{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Priority:         intPtr(t.Priority),
		CreatedAt:        t.CreatedAt.Format(time.RFC3339Nano),
		Completed:        t.Completed,
		Progress:         t.Progress,
		Dependencies:     t.Dependencies,
		Tags:             t.Tags,
		EstimatedMinutes: t.EstimatedMinutes,
		AutoAssigned:     t.AutoAssigned,
		Reminded:         t.Reminded,
	}
	if t.Deadline != nil {
		s := t.Deadline.Format(time.RFC3339Nano)
		rec.Deadline = &s
	}
	return rec
}

// Task rebuilds the task a record describes. Missing optional fields take the
// same defaults as fresh creation; now supplies the created-at fallback.
func (r TaskRecord) Task(now time.Time) (*Task, error) {
	t := &Task{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Priority:         DefaultPriority,
		CreatedAt:        now,
		Completed:        r.Completed,
		Dependencies:     r.Dependencies,
		Tags:             r.Tags,
		EstimatedMinutes: r.EstimatedMinutes,
		AutoAssigned:     r.AutoAssigned,
		Reminded:         r.Reminded,
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.Deadline != nil {
		parsed, err := time.Parse(time.RFC3339Nano, *r.Deadline)
		if err != nil {
			return nil, fmt.Errorf("task %s: deadline: %w", r.ID, err)
		}
		t.Deadline = &parsed
	}
	if r.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("task %s: created_at: %w", r.ID, err)
		}
		t.CreatedAt = parsed
	}
	t.SetProgress(r.Progress)
	t.RecomputeSortKey()
	return t, nil
}

func intPtr(v int) *int {
	return &v
}
