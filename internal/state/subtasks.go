package state

import (
	"context"

	"taskboard/internal/models"
)

// AddSubtask appends a subtask to a task, recomputes the parent's progress
// and persists both changes before patching the mirror.
func (s *Store) AddSubtask(ctx context.Context, actor models.User, taskID int64, draft models.SubTask) (models.Task, error) {
	if !models.Allowed(models.OpAddSubtask, actor.Role) {
		return models.Task{}, ErrPermission
	}

	parent, ok := s.Task(taskID)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	draft.TaskID = taskID
	created, err := s.gw.CreateSubtask(ctx, draft)
	if err != nil {
		return models.Task{}, err
	}

	parent.Subtasks = append(append([]models.SubTask(nil), parent.Subtasks...), created)
	return s.persistParent(ctx, parent)
}

// UpdateSubtask rewrites one subtask and recomputes the parent. When the
// change completes the last open subtask, the parent is promoted to
// completed and stamped in the same combined update.
func (s *Store) UpdateSubtask(ctx context.Context, actor models.User, st models.SubTask) (models.Task, error) {
	if !models.Allowed(models.OpUpdateSubtask, actor.Role) {
		return models.Task{}, ErrPermission
	}

	parent, ok := s.Task(st.TaskID)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	updated, err := s.gw.UpdateSubtask(ctx, st)
	if err != nil {
		return models.Task{}, err
	}

	subtasks := make([]models.SubTask, len(parent.Subtasks))
	copy(subtasks, parent.Subtasks)
	for i := range subtasks {
		if subtasks[i].ID == updated.ID {
			subtasks[i] = updated
			break
		}
	}
	parent.Subtasks = subtasks
	return s.persistParent(ctx, parent)
}

// DeleteSubtask removes one subtask and recomputes the parent.
func (s *Store) DeleteSubtask(ctx context.Context, actor models.User, taskID, subtaskID int64) (models.Task, error) {
	if !models.Allowed(models.OpDeleteSubtask, actor.Role) {
		return models.Task{}, ErrPermission
	}

	parent, ok := s.Task(taskID)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	if err := s.gw.DeleteSubtask(ctx, subtaskID); err != nil {
		return models.Task{}, err
	}

	subtasks := make([]models.SubTask, 0, len(parent.Subtasks))
	for _, st := range parent.Subtasks {
		if st.ID != subtaskID {
			subtasks = append(subtasks, st)
		}
	}
	parent.Subtasks = subtasks
	return s.persistParent(ctx, parent)
}

// persistParent applies the derived rules to a task whose subtasks just
// changed, writes the task row, then patches the mirror.
func (s *Store) persistParent(ctx context.Context, parent models.Task) (models.Task, error) {
	if allCompleted(parent.Subtasks) && parent.Status != models.StatusCompleted {
		parent.Status = models.StatusCompleted
	}
	parent = deriveCompletion(parent)

	updated, err := s.gw.UpdateTask(ctx, parent)
	if err != nil {
		return models.Task{}, err
	}
	s.replaceTask(updated)
	return updated, nil
}

func allCompleted(subtasks []models.SubTask) bool {
	if len(subtasks) == 0 {
		return false
	}
	for _, st := range subtasks {
		if st.Status != models.StatusCompleted {
			return false
		}
	}
	return true
}
