package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prioplan/backend/domain"
)

func newTask(id string, priority int, deadline *time.Time) *domain.Task {
	t := &domain.Task{
		ID:        id,
		Title:     "task " + id,
		Priority:  priority,
		Deadline:  deadline,
		CreatedAt: time.Now(),
	}
	t.RecomputeSortKey()
	return t
}

func timePtr(t time.Time) *time.Time { return &t }

func TestTaskStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	task := newTask("a", 3, nil)
	require.NoError(t, store.Create(ctx, task))

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, task, got)

	_, err = store.GetByID(ctx, "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestTaskStorePeekOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)
	soon := timePtr(time.Now().Add(time.Hour))
	later := timePtr(time.Now().Add(48 * time.Hour))

	require.NoError(t, store.Create(ctx, newTask("low", 7, soon)))
	require.NoError(t, store.Create(ctx, newTask("high-later", 2, later)))
	require.NoError(t, store.Create(ctx, newTask("high-soon", 2, soon)))
	require.NoError(t, store.Create(ctx, newTask("high-nodeadline", 2, nil)))

	next, err := store.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "high-soon", next.ID, "priority first, then earliest deadline")

	// Peek does not consume.
	again, err := store.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "high-soon", again.ID)
}

func TestTaskStoreIDTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)
	due := timePtr(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, store.Create(ctx, newTask("bbb", 4, due)))
	require.NoError(t, store.Create(ctx, newTask("aaa", 4, due)))

	next, err := store.PopNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "aaa", next.ID)
}

func TestTaskStorePopDrainsInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	require.NoError(t, store.Create(ctx, newTask("c", 5, nil)))
	require.NoError(t, store.Create(ctx, newTask("a", 1, nil)))
	require.NoError(t, store.Create(ctx, newTask("b", 3, nil)))

	var got []string
	for {
		next, err := store.PopNext(ctx)
		require.NoError(t, err)
		if next == nil {
			break
		}
		got = append(got, next.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestTaskStoreEmptyPeekAndPop(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	next, err := store.PeekNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)

	next, err = store.PopNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestTaskStoreLazyDeletionSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	require.NoError(t, store.Create(ctx, newTask("top", 1, nil)))
	require.NoError(t, store.Create(ctx, newTask("second", 2, nil)))

	require.NoError(t, store.Delete(ctx, "top"))

	next, err := store.PeekNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "second", next.ID)
}

func TestTaskStoreDeleteUnknownIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)
	assert.NoError(t, store.Delete(ctx, "ghost"))
}

func TestTaskStoreCompletedExcludedFromIndex(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	top := newTask("top", 1, nil)
	require.NoError(t, store.Create(ctx, top))
	require.NoError(t, store.Create(ctx, newTask("second", 2, nil)))

	top.Completed = true
	require.NoError(t, store.Save(ctx, top))

	next, err := store.PeekNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "second", next.ID)
}

func TestTaskStoreSaveReordersIndex(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	a := newTask("a", 5, nil)
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, newTask("b", 3, nil)))

	a.Priority = 1
	require.NoError(t, store.Save(ctx, a))

	next, err := store.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", next.ID, "priority change must resort the index")
}

func TestTaskStoreSaveUnknownFails(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)
	err := store.Save(ctx, newTask("ghost", 1, nil))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestTaskStoreListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	first := newTask("first", 9, nil)
	second := newTask("second", 1, nil)
	done := newTask("done", 1, nil)
	done.Completed = true

	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, done))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].ID, "listing keeps insertion order, not priority order")

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, task := range active {
		assert.False(t, task.Completed)
	}
}

func TestTaskStoreReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(nil)

	require.NoError(t, store.Create(ctx, newTask("old", 1, nil)))

	replacement := []*domain.Task{newTask("new-b", 4, nil), newTask("new-a", 2, nil)}
	require.NoError(t, store.ReplaceAll(ctx, replacement))

	assert.Equal(t, 2, store.Len())

	_, err := store.GetByID(ctx, "old")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	next, err := store.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-a", next.ID, "index rebuilt around the replacement set")
}
