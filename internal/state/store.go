// Package state keeps an in-memory mirror of the durable rows and exposes
// the only sanctioned mutation surface. Every operation checks the acting
// user's permission first, then writes through to the gateway, and patches
// the local mirror only after the write succeeded, so the mirror never
// reflects an un-persisted change.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

var (
	// ErrPermission is returned before any gateway call when the acting
	// user's role does not allow the operation.
	ErrPermission = errors.New("operation not permitted for role")
	// ErrNotFound is returned when the target entity does not exist.
	ErrNotFound = errors.New("not found")
)

// Store mirrors tasks, projects and users in memory. The mutex serializes
// operations so two writes to the same task never interleave partially.
type Store struct {
	mu     sync.Mutex
	gw     *sqlite.Store
	logger *slog.Logger

	tasks    []models.Task
	projects []models.Project
	users    []models.User
}

// New builds a state store over the gateway and performs the initial load.
func New(ctx context.Context, gw *sqlite.Store, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{gw: gw, logger: logger}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the whole mirror with a fresh read of the gateway.
func (s *Store) Reload(ctx context.Context) error {
	projects, err := s.gw.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("reload projects: %w", err)
	}
	tasks, err := s.gw.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("reload tasks: %w", err)
	}
	users, err := s.gw.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("reload users: %w", err)
	}

	// Re-link tasks whose stage id went stale (stage removed and re-added
	// under the same name) using the name as the durable reference.
	stageIDs := make(map[int64]map[string]int64, len(projects))
	for _, p := range projects {
		byName := make(map[string]int64, len(p.Stages))
		for _, st := range p.Stages {
			byName[st.Name] = st.ID
		}
		stageIDs[p.ID] = byName
	}
	for i := range tasks {
		if byName, ok := stageIDs[tasks[i].ProjectID]; ok {
			if id, ok := byName[tasks[i].StageName]; ok {
				tasks[i].StageID = id
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	s.tasks = tasks
	s.users = users
	return nil
}

// Tasks returns a copy of the mirrored task list.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// ProjectTasks returns a copy of the mirrored tasks of one project.
func (s *Store) ProjectTasks(projectID int64) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// Task returns one mirrored task by id.
func (s *Store) Task(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Projects returns a copy of the mirrored project list in board order.
func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Project returns one mirrored project by id.
func (s *Store) Project(id int64) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// StageID resolves a stage display name to its stable id within a project.
func (s *Store) StageID(projectID int64, stageName string) (int64, bool) {
	p, ok := s.Project(projectID)
	if !ok {
		return 0, false
	}
	for _, st := range p.Stages {
		if st.Name == stageName {
			return st.ID, true
		}
	}
	return 0, false
}

// Users returns a copy of the mirrored user list.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// AddTask inserts a task into the given project and stage. Coordinator
// only. Nothing is inserted locally before the gateway confirms.
func (s *Store) AddTask(ctx context.Context, actor models.User, draft models.Task) (models.Task, error) {
	if !models.Allowed(models.OpAddTask, actor.Role) {
		return models.Task{}, ErrPermission
	}

	if id, ok := s.StageID(draft.ProjectID, draft.StageName); ok {
		draft.StageID = id
	}
	if draft.Status == "" {
		draft.Status = models.StatusNotStarted
	}
	draft.Progress = models.TaskProgress(draft.Status, nil)

	created, err := s.gw.CreateTask(ctx, draft)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()
	return created, nil
}

// UpdateTask persists every field of the task in one write and replaces
// the mirrored copy. Progress is always recomputed from the subtasks, and
// the completion timestamp is derived from the status transition.
func (s *Store) UpdateTask(ctx context.Context, actor models.User, t models.Task) (models.Task, error) {
	if !models.Allowed(models.OpUpdateTask, actor.Role) {
		return models.Task{}, ErrPermission
	}

	t = deriveCompletion(t)

	updated, err := s.gw.UpdateTask(ctx, t)
	if err != nil {
		return models.Task{}, err
	}

	s.replaceTask(updated)
	return updated, nil
}

// deriveCompletion recomputes progress and keeps the completion timestamp
// consistent with the status.
func deriveCompletion(t models.Task) models.Task {
	t.Progress = models.TaskProgress(t.Status, t.Subtasks)
	if t.Status == models.StatusCompleted {
		if t.CompletedAt == nil {
			now := time.Now().UTC()
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
	return t
}

// DeleteTask removes a task. Coordinator only.
func (s *Store) DeleteTask(ctx context.Context, actor models.User, id int64) error {
	if !models.Allowed(models.OpDeleteTask, actor.Role) {
		return ErrPermission
	}

	if err := s.gw.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ReassignTask changes a task's assignee without touching status or
// progress. Coordinator only.
func (s *Store) ReassignTask(ctx context.Context, actor models.User, id, assigneeID int64) (models.Task, error) {
	if !models.Allowed(models.OpReassignTask, actor.Role) {
		return models.Task{}, ErrPermission
	}

	updated, err := s.gw.UpdateTaskAssignee(ctx, id, assigneeID)
	if err != nil {
		return models.Task{}, err
	}

	s.replaceTask(updated)
	return updated, nil
}

// replaceTask swaps the mirrored copy of a task. A missing id is a silent
// no-op; the next full reload reconciles.
func (s *Store) replaceTask(t models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return
		}
	}
}

// ApplyStagePositions renumbers the mirrored positions of tasks inside the
// touched stage lanes after a drag. Derived state only: sibling order is
// not persisted per row, it is re-derived from array order on next load.
func (s *Store) ApplyStagePositions(positions map[int64]int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if pos, ok := positions[s.tasks[i].ID]; ok {
			s.tasks[i].Position = pos
		}
	}
}
