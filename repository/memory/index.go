package memory

import (
	"container/heap"

	"github.com/prioplan/backend/domain"
)

// entry is an immutable (ordering key, task id) pair. Entries are never
// updated in place: when a task mutates, a fresh entry is pushed or the whole
// index is rebuilt, and entries referencing missing or completed tasks are
// discarded lazily at read time.
type entry struct {
	key domain.SortKey
	id  string
}

type entryHeap []entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].key.Less(h[j].key) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// priorityIndex is a lazy-deletion min-heap over non-completed tasks. It is
// not safe for concurrent use; TaskStore serializes access.
type priorityIndex struct {
	entries entryHeap
}

func newPriorityIndex() *priorityIndex {
	return &priorityIndex{}
}

func (idx *priorityIndex) push(t *domain.Task) {
	heap.Push(&idx.entries, entry{key: t.SortKey(), id: t.ID})
}

// peek returns the live task with the smallest key, discarding stale entries
// along the way. The returned entry stays in the heap.
func (idx *priorityIndex) peek(tasks map[string]*domain.Task) *domain.Task {
	for idx.entries.Len() > 0 {
		t, ok := tasks[idx.entries[0].id]
		if !ok || t.Completed {
			heap.Pop(&idx.entries)
			continue
		}
		return t
	}
	return nil
}

// pop behaves like peek but removes the returned entry from the heap.
func (idx *priorityIndex) pop(tasks map[string]*domain.Task) *domain.Task {
	for idx.entries.Len() > 0 {
		e := heap.Pop(&idx.entries).(entry)
		if t, ok := tasks[e.id]; ok && !t.Completed {
			return t
		}
	}
	return nil
}

// rebuild discards the heap and reinserts every non-completed task. Keys are
// assumed freshly recomputed by the caller.
func (idx *priorityIndex) rebuild(tasks []*domain.Task) {
	idx.entries = idx.entries[:0]
	for _, t := range tasks {
		if !t.Completed {
			idx.entries = append(idx.entries, entry{key: t.SortKey(), id: t.ID})
		}
	}
	heap.Init(&idx.entries)
}

func (idx *priorityIndex) len() int {
	return idx.entries.Len()
}
