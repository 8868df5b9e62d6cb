package scheduler

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prioplan/backend/domain"
	appLogger "github.com/prioplan/backend/pkg/logger"
	"github.com/prioplan/backend/repository"
)

// overdueHours is the urgency stand-in for a deadline already in the past. It
// dwarfs any realistic priority so overdue work surfaces first in the global
// schedule regardless of static priority.
const overdueHours = -1000.0

// DeadlineParser converts deadline text into an absolute timestamp and fails
// on input it cannot understand.
type DeadlineParser interface {
	Parse(text string) (time.Time, error)
}

// Engine orchestrates task creation, mutation, dependency-gated completion
// and the global re-ranking. All mutating operations run under one writer
// lock so no caller observes a store whose index has not been rebuilt yet.
// Tasks leave the Engine only as detached copies: a caller holding a result
// while a later mutation runs reads its own snapshot, never live state.
type Engine struct {
	mu     sync.RWMutex
	repo   repository.TaskRepository
	parser DeadlineParser
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides the task id source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// New builds an Engine around the given store and deadline parser.
func New(repo repository.TaskRepository, parser DeadlineParser, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		repo:   repo,
		parser: parser,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateTaskParams carries the caller-supplied fields for a new task. Nil
// Priority requests heuristic assignment.
type CreateTaskParams struct {
	Title            string
	Description      string
	DeadlineText     string
	Priority         *int
	Dependencies     []string
	Tags             []string
	EstimatedMinutes *int
	UseAssist        bool
}

// CreateTask validates and enriches the request, stores the task and pushes
// it into the priority index.
func (e *Engine) CreateTask(ctx context.Context, p CreateTaskParams) (*domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	title, description := p.Title, p.Description

	var assistDeadline *time.Time
	if p.UseAssist {
		text := title
		if description != "" {
			text = title + " " + description
		}
		parsed := ParseNatural(text, now)
		title = parsed.Title
		description = parsed.Description
		assistDeadline = parsed.Deadline
		if parsed.UrgencyHint && p.Priority == nil {
			urgent := 1
			p.Priority = &urgent
		}
	}

	var deadline *time.Time
	switch {
	case p.DeadlineText != "":
		resolved, err := e.parser.Parse(p.DeadlineText)
		if err != nil {
			return nil, &domain.ParseError{Input: p.DeadlineText, Err: err}
		}
		deadline = &resolved
	case assistDeadline != nil:
		deadline = assistDeadline
	}

	t := &domain.Task{
		ID:          e.newID(),
		Title:       title,
		Description: description,
		Deadline:    deadline,
		CreatedAt:   now,
	}

	if p.Priority == nil {
		est := EstimateTask(title, description, deadline, now)
		t.Priority = est.Priority
		t.Tags = est.Tags
		t.EstimatedMinutes = &est.Minutes
		t.AutoAssigned = true
	} else {
		t.Priority = *p.Priority
		t.Tags = p.Tags
		t.EstimatedMinutes = p.EstimatedMinutes
	}

	for _, dep := range p.Dependencies {
		t.AddDependency(dep)
	}

	if err := e.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	appLogger.WithRequestID(ctx, e.logger).Info("task created",
		zap.String("task_id", t.ID),
		zap.Int("priority", t.Priority),
		zap.Bool("auto_assigned", t.AutoAssigned))
	return t.Clone(), nil
}

// UpdateTaskParams lists the recognized mutable fields. Nil means "leave
// untouched"; unknown request fields are dropped before they reach here, so
// the permissive update contract of the engine holds by construction.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Priority    *int
	// DeadlineText is re-parsed through the deadline parser; an empty string
	// clears the deadline.
	DeadlineText     *string
	Progress         *int
	Tags             *[]string
	Dependencies     *[]string
	EstimatedMinutes *int
}

// UpdateTask applies the provided fields, recomputes the ordering key and
// rebuilds the index. A deadline parse failure aborts before any mutation.
func (e *Engine) UpdateTask(ctx context.Context, id string, p UpdateTaskParams) (*domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var deadline *time.Time
	if p.DeadlineText != nil && *p.DeadlineText != "" {
		resolved, err := e.parser.Parse(*p.DeadlineText)
		if err != nil {
			return nil, &domain.ParseError{Input: *p.DeadlineText, Err: err}
		}
		deadline = &resolved
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DeadlineText != nil {
		t.Deadline = deadline
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.Dependencies != nil {
		t.Dependencies = *p.Dependencies
	}
	if p.EstimatedMinutes != nil {
		t.EstimatedMinutes = p.EstimatedMinutes
	}
	if p.Progress != nil {
		t.SetProgress(*p.Progress)
	}

	if err := e.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	appLogger.WithRequestID(ctx, e.logger).Info("task updated", zap.String("task_id", id))
	return t.Clone(), nil
}

// DeleteTask hard-removes a task. Deleting an unknown id succeeds.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.Delete(ctx, id)
}

// SetProgress clamps value to [0,100]; reaching 100 completes the task.
func (e *Engine) SetProgress(ctx context.Context, id string, value int) (*domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.SetProgress(value)
	if err := e.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// CompleteTask transitions a task to completed, but only once every direct
// dependency resolves to an existing completed task. Transitive dependencies
// are not chased. On failure nothing mutates.
func (e *Engine) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var unmet []string
	for _, depID := range t.Dependencies {
		dep, err := e.repo.GetByID(ctx, depID)
		if err != nil || !dep.Completed {
			unmet = append(unmet, depID)
		}
	}
	if len(unmet) > 0 {
		return nil, &domain.DependencyError{TaskID: id, Unmet: unmet}
	}

	t.Completed = true
	t.Progress = 100
	if err := e.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	appLogger.WithRequestID(ctx, e.logger).Info("task completed", zap.String("task_id", id))
	return t.Clone(), nil
}

// PeekNext returns the most urgent active task without removing its index
// entry, or nil when nothing is pending.
func (e *Engine) PeekNext(ctx context.Context) (*domain.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := e.repo.PeekNext(ctx)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// PopNext behaves like PeekNext but consumes the index entry.
func (e *Engine) PopNext(ctx context.Context) (*domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, err := e.repo.PopNext(ctx)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// GetTask returns one task by id.
func (e *Engine) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// ListTasks returns every task, optionally filtered to non-completed ones,
// in creation order.
func (e *Engine) ListTasks(ctx context.Context, activeOnly bool) ([]*domain.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var tasks []*domain.Task
	var err error
	if activeOnly {
		tasks, err = e.repo.ListActive(ctx)
	} else {
		tasks, err = e.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

// GlobalSchedule ranks every active task by priority blended with deadline
// urgency and returns the suggested working order, best first. Unlike the
// strict index order it lets an overdue low-priority task outrank a far-off
// high-priority one.
func (e *Engine) GlobalSchedule(ctx context.Context) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tasks, err := e.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(tasks))
	for _, t := range tasks {
		urgency := 0.0
		if t.Deadline != nil {
			if t.Deadline.Before(now) {
				urgency = overdueHours
			} else {
				urgency = t.Deadline.Sub(now).Hours()
			}
		}
		ranked = append(ranked, scored{
			id:    t.ID,
			score: float64(t.Priority) + urgency/24.0,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score < ranked[j].score })

	order := make([]string, len(ranked))
	for i, s := range ranked {
		order[i] = s.id
	}
	return order, nil
}

// MarkReminded records that a reminder was delivered for the task's deadline
// so collaborators do not notify twice. There is no way to reset the flag.
func (e *Engine) MarkReminded(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Reminded = true
	return e.repo.Save(ctx, t)
}

// ExportSnapshot serializes every task, completed and active, into a payload
// ImportSnapshot can reconstruct exactly.
func (e *Engine) ExportSnapshot(ctx context.Context) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tasks, err := e.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := domain.Snapshot{Tasks: make([]domain.TaskRecord, 0, len(tasks))}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, domain.NewTaskRecord(t))
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ImportSnapshot replaces the store contents with the decoded payload. The
// import is all-or-nothing: a malformed payload leaves the prior state
// untouched.
func (e *Engine) ImportSnapshot(ctx context.Context, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &domain.FormatError{Reason: "invalid JSON", Err: err}
	}

	now := e.now()
	tasks := make([]*domain.Task, 0, len(snap.Tasks))
	seen := make(map[string]struct{}, len(snap.Tasks))
	for _, rec := range snap.Tasks {
		t, err := rec.Task(now)
		if err != nil {
			return &domain.FormatError{Reason: "invalid task record", Err: err}
		}
		if t.ID == "" {
			t.ID = e.newID()
		}
		if _, dup := seen[t.ID]; dup {
			return &domain.FormatError{Reason: "duplicate task id " + t.ID}
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}

	if err := e.repo.ReplaceAll(ctx, tasks); err != nil {
		return err
	}
	appLogger.WithRequestID(ctx, e.logger).Info("snapshot imported", zap.Int("tasks", len(tasks)))
	return nil
}
