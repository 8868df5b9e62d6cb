package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKeyLess(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := deadline.Add(2 * time.Hour)

	tests := []struct {
		name string
		a, b SortKey
		want bool
	}{
		{
			name: "lower priority number wins",
			a:    SortKey{Priority: 1, Due: later.UnixNano(), ID: "z"},
			b:    SortKey{Priority: 2, Due: deadline.UnixNano(), ID: "a"},
			want: true,
		},
		{
			name: "earlier deadline breaks priority tie",
			a:    SortKey{Priority: 3, Due: deadline.UnixNano(), ID: "z"},
			b:    SortKey{Priority: 3, Due: later.UnixNano(), ID: "a"},
			want: true,
		},
		{
			name: "id breaks full tie",
			a:    SortKey{Priority: 3, Due: deadline.UnixNano(), ID: "a"},
			b:    SortKey{Priority: 3, Due: deadline.UnixNano(), ID: "b"},
			want: true,
		},
		{
			name: "equal keys are not less",
			a:    SortKey{Priority: 3, Due: deadline.UnixNano(), ID: "a"},
			b:    SortKey{Priority: 3, Due: deadline.UnixNano(), ID: "a"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Less(tt.b))
		})
	}
}

func TestRecomputeSortKeyNoDeadlineSortsLast(t *testing.T) {
	deadline := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	withDeadline := &Task{ID: "a", Priority: 5, Deadline: &deadline}
	withDeadline.RecomputeSortKey()

	without := &Task{ID: "b", Priority: 5}
	without.RecomputeSortKey()

	assert.True(t, withDeadline.SortKey().Less(without.SortKey()),
		"a far-future deadline still orders before no deadline at all")
}

func TestSetProgress(t *testing.T) {
	tests := []struct {
		name          string
		value         int
		wantProgress  int
		wantCompleted bool
	}{
		{name: "negative clamps to zero", value: -5, wantProgress: 0},
		{name: "in range kept", value: 40, wantProgress: 40},
		{name: "over 100 clamps and completes", value: 150, wantProgress: 100, wantCompleted: true},
		{name: "exactly 100 completes", value: 100, wantProgress: 100, wantCompleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{ID: "t1"}
			task.SetProgress(tt.value)
			assert.Equal(t, tt.wantProgress, task.Progress)
			assert.Equal(t, tt.wantCompleted, task.Completed)
		})
	}
}

func TestSetProgressNeverClearsCompleted(t *testing.T) {
	task := &Task{ID: "t1", Completed: true, Progress: 100}
	task.SetProgress(50)
	assert.Equal(t, 50, task.Progress)
	assert.True(t, task.Completed)
}

func TestAddDependencyDeduplicates(t *testing.T) {
	task := &Task{ID: "t1"}
	task.AddDependency("a")
	task.AddDependency("b")
	task.AddDependency("a")
	assert.Equal(t, []string{"a", "b"}, task.Dependencies)
}

func TestTaskRecordRoundTrip(t *testing.T) {
	deadline := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	created := time.Date(2026, 4, 1, 8, 0, 0, 123456789, time.UTC)
	minutes := 45

	original := &Task{
		ID:               "task-1",
		Title:            "Write handover notes",
		Description:      "For the on-call rotation",
		Priority:         2,
		Deadline:         &deadline,
		CreatedAt:        created,
		Progress:         30,
		Dependencies:     []string{"task-0"},
		Tags:             []string{"high"},
		EstimatedMinutes: &minutes,
		AutoAssigned:     true,
		Reminded:         true,
	}

	rec := NewTaskRecord(original)
	restored, err := rec.Task(time.Now())
	require.NoError(t, err)

	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Title, restored.Title)
	assert.Equal(t, original.Description, restored.Description)
	assert.Equal(t, original.Priority, restored.Priority)
	require.NotNil(t, restored.Deadline)
	assert.True(t, restored.Deadline.Equal(deadline))
	assert.True(t, restored.CreatedAt.Equal(created))
	assert.Equal(t, original.Progress, restored.Progress)
	assert.Equal(t, original.Dependencies, restored.Dependencies)
	assert.Equal(t, original.Tags, restored.Tags)
	require.NotNil(t, restored.EstimatedMinutes)
	assert.Equal(t, minutes, *restored.EstimatedMinutes)
	assert.True(t, restored.AutoAssigned)
	assert.True(t, restored.Reminded)
}

func TestTaskRecordDefaults(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	restored, err := TaskRecord{ID: "bare", Title: "Bare record"}.Task(now)
	require.NoError(t, err)

	assert.Equal(t, DefaultPriority, restored.Priority)
	assert.Nil(t, restored.Deadline)
	assert.True(t, restored.CreatedAt.Equal(now), "missing created_at falls back to now")
	assert.False(t, restored.Completed)
}

func TestTaskRecordBadTimestamps(t *testing.T) {
	bad := "not-a-time"

	_, err := TaskRecord{ID: "x", Deadline: &bad}.Task(time.Now())
	assert.Error(t, err)

	_, err = TaskRecord{ID: "x", CreatedAt: "yesterday-ish"}.Task(time.Now())
	assert.Error(t, err)
}
