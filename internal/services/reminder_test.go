package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prioplan/backend/domain"
)

type fakeReminderSource struct {
	tasks  []*domain.Task
	marked []string
}

func (f *fakeReminderSource) ListTasks(ctx context.Context, activeOnly bool) ([]*domain.Task, error) {
	return f.tasks, nil
}

func (f *fakeReminderSource) MarkReminded(ctx context.Context, id string) error {
	f.marked = append(f.marked, id)
	for _, t := range f.tasks {
		if t.ID == id {
			t.Reminded = true
		}
	}
	return nil
}

type fakeNotifier struct {
	notified []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, task *domain.Task) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, task.ID)
	return nil
}

func reminderTask(id string, deadline *time.Time, reminded bool) *domain.Task {
	return &domain.Task{ID: id, Title: "task " + id, Deadline: deadline, Reminded: reminded}
}

func deadlineIn(base time.Time, d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func TestReminderScanWindow(t *testing.T) {
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	cfg := ReminderConfig{Interval: time.Minute, Window: time.Hour, Grace: 15 * time.Minute}

	source := &fakeReminderSource{tasks: []*domain.Task{
		reminderTask("inside", deadlineIn(now, 30*time.Minute), false),
		reminderTask("edge", deadlineIn(now, time.Hour), false),
		reminderTask("too-far", deadlineIn(now, 2*time.Hour), false),
		reminderTask("just-missed", deadlineIn(now, -10*time.Minute), false),
		reminderTask("long-gone", deadlineIn(now, -time.Hour), false),
		reminderTask("no-deadline", nil, false),
		reminderTask("already-done", deadlineIn(now, 30*time.Minute), true),
	}}
	notifier := &fakeNotifier{}

	scanner := NewReminderScanner(source, notifier, nil, cfg)
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.Scan(context.Background()))

	assert.ElementsMatch(t, []string{"inside", "edge", "just-missed"}, notifier.notified)
	assert.ElementsMatch(t, []string{"inside", "edge", "just-missed"}, source.marked)
}

func TestReminderScanDoesNotRepeat(t *testing.T) {
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	source := &fakeReminderSource{tasks: []*domain.Task{
		reminderTask("t1", deadlineIn(now, 30*time.Minute), false),
	}}
	notifier := &fakeNotifier{}

	scanner := NewReminderScanner(source, notifier, nil, ReminderConfig{Window: time.Hour})
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.Scan(context.Background()))
	require.NoError(t, scanner.Scan(context.Background()))

	assert.Equal(t, []string{"t1"}, notifier.notified, "a marked task is never re-notified")
}

func TestReminderScanRetriesFailedDelivery(t *testing.T) {
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	source := &fakeReminderSource{tasks: []*domain.Task{
		reminderTask("t1", deadlineIn(now, 30*time.Minute), false),
	}}
	notifier := &fakeNotifier{err: errors.New("downstream unavailable")}

	scanner := NewReminderScanner(source, notifier, nil, ReminderConfig{Window: time.Hour})
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.Scan(context.Background()))
	assert.Empty(t, source.marked, "delivery failure must not mark the task")

	// Delivery recovers; the next scan picks the task up again.
	notifier.err = nil
	require.NoError(t, scanner.Scan(context.Background()))
	assert.Equal(t, []string{"t1"}, source.marked)
}
