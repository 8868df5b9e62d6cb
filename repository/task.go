package repository

import (
	"context"

	"github.com/prioplan/backend/domain"
)

// TaskRepository is the authoritative id → task mapping. Implementations own
// the priority index as a derived cache: every mutating call leaves the index
// consistent with the store before it returns.
//
// PeekNext and PopNext answer "which non-completed task has the smallest
// ordering key?" and return (nil, nil) when no active task remains.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListAll(ctx context.Context) ([]*domain.Task, error)
	ListActive(ctx context.Context) ([]*domain.Task, error)
	// Save persists a mutated task, recomputes its ordering key and rebuilds
	// the index.
	Save(ctx context.Context, task *domain.Task) error
	// Delete hard-removes a task. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
	// ReplaceAll swaps the entire store contents, used by snapshot import.
	ReplaceAll(ctx context.Context, tasks []*domain.Task) error
	PeekNext(ctx context.Context) (*domain.Task, error)
	PopNext(ctx context.Context) (*domain.Task, error)
}
