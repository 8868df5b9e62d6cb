package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/prioplan/backend/domain"
	"github.com/prioplan/backend/repository"
)

// TaskStore is the in-memory task repository. It keeps insertion order for
// deterministic listing and owns a lazy-deletion priority index rebuilt after
// every bulk mutation; the mutex spans "mutate store" plus "rebuild index" as
// one unit so no reader observes a stale index.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[string]*domain.Task
	order  []string
	index  *priorityIndex
	logger *zap.Logger
}

// NewTaskStore builds an empty store.
func NewTaskStore(logger *zap.Logger) *TaskStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskStore{
		tasks:  make(map[string]*domain.Task),
		index:  newPriorityIndex(),
		logger: logger,
	}
}

var _ repository.TaskRepository = (*TaskStore)(nil)

func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.RecomputeSortKey()
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	if !task.Completed {
		s.index.push(task)
	}
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (s *TaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(false), nil
}

func (s *TaskStore) ListActive(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(true), nil
}

// Save recomputes the ordering key of a mutated task and rebuilds the index.
// The full rebuild trades O(n log n) for correctness simplicity at the scale
// this store targets (hundreds of tasks, not millions).
func (s *TaskStore) Save(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	s.tasks[task.ID] = task
	s.rebuildLocked()
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.rebuildLocked()
	return nil
}

func (s *TaskStore) ReplaceAll(ctx context.Context, tasks []*domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*domain.Task, len(tasks))
	s.order = s.order[:0]
	for _, t := range tasks {
		s.tasks[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	s.rebuildLocked()
	s.logger.Info("task store replaced", zap.Int("tasks", len(tasks)))
	return nil
}

// PeekNext takes the write lock: discarding stale heap entries mutates the
// index even though the store itself is untouched.
func (s *TaskStore) PeekNext(ctx context.Context) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.peek(s.tasks), nil
}

func (s *TaskStore) PopNext(ctx context.Context) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.pop(s.tasks), nil
}

// Len reports the number of stored tasks, completed included.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *TaskStore) listLocked(activeOnly bool) []*domain.Task {
	out := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		t, ok := s.tasks[id]
		if !ok {
			continue
		}
		if activeOnly && t.Completed {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *TaskStore) rebuildLocked() {
	all := s.listLocked(false)
	for _, t := range all {
		t.RecomputeSortKey()
	}
	s.index.rebuild(all)
}
