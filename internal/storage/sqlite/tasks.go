package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

const taskColumns = `id, project_id, stage_id, stage_name, title, description, status, priority, assignee_id, position, progress, assigned_at, due_at, completed_at, created_at, updated_at`

func scanTask(scan func(dest ...any) error) (models.Task, error) {
	var t models.Task
	var dueAt, completedAt sql.NullTime
	err := scan(&t.ID, &t.ProjectID, &t.StageID, &t.StageName, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssigneeID, &t.Position, &t.Progress, &t.AssignedAt, &dueAt, &completedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return t, nil
}

// ListTasks returns the tasks of one project with subtasks and notes
// attached, ordered by stage and board position.
func (s *Store) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY stage_name, position, id`, projectID)
}

// LoadTasks returns every task across all projects, used for the full
// reload performed by the in-memory mirror.
func (s *Store) LoadTasks(ctx context.Context) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY project_id, stage_name, position, id`)
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		if err := s.attachChildren(ctx, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *Store) attachChildren(ctx context.Context, t *models.Task) error {
	subtasks, err := s.ListSubtasks(ctx, t.ID)
	if err != nil {
		return err
	}
	notes, err := s.ListNotes(ctx, t.ID)
	if err != nil {
		return err
	}
	t.Subtasks = subtasks
	t.Notes = notes
	return nil
}

// CreateTask inserts a new task at the end of its stage lane.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("task title must not be empty")
	}
	if _, ok := models.ValidTaskStatuses[t.Status]; !ok {
		t.Status = models.StatusNotStarted
	}
	if _, ok := models.ValidPriorities[t.Priority]; !ok {
		t.Priority = models.PriorityMedium
	}

	pos, err := s.nextPosition(ctx, t.ProjectID, t.StageName)
	if err != nil {
		return models.Task{}, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(project_id, stage_id, stage_name, title, description, status, priority, assignee_id, position, progress, due_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.StageID, t.StageName, strings.TrimSpace(t.Title), strings.TrimSpace(t.Description),
		t.Status, t.Priority, t.AssigneeID, pos, t.Progress, t.DueAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}

	created, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	s.notifier.publish(TaskChange{TaskID: id})
	return created, nil
}

// GetTask retrieves a task by id with subtasks and notes attached.
func (s *Store) GetTask(ctx context.Context, id int64) (models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task not found")
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	if err := s.attachChildren(ctx, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateTask replaces every mutable field of the task row in one write.
func (s *Store) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("task title must not be empty")
	}
	if _, ok := models.ValidTaskStatuses[t.Status]; !ok {
		return models.Task{}, fmt.Errorf("invalid task status %q", t.Status)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET stage_id = ?, stage_name = ?, title = ?, description = ?, status = ?, priority = ?, assignee_id = ?, position = ?, progress = ?, due_at = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`,
		t.StageID, t.StageName, strings.TrimSpace(t.Title), strings.TrimSpace(t.Description), t.Status, t.Priority,
		t.AssigneeID, t.Position, t.Progress, t.DueAt, t.CompletedAt, t.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, fmt.Errorf("task not found")
	}

	updated, err := s.GetTask(ctx, t.ID)
	if err != nil {
		return models.Task{}, err
	}
	s.notifier.publish(TaskChange{TaskID: t.ID})
	return updated, nil
}

// UpdateTaskAssignee changes only the assignee of a task.
func (s *Store) UpdateTaskAssignee(ctx context.Context, id, assigneeID int64) (models.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET assignee_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, assigneeID, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("reassign task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, fmt.Errorf("task not found")
	}

	updated, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	s.notifier.publish(TaskChange{TaskID: id})
	return updated, nil
}

// DeleteTask removes a task by id; subtasks and notes cascade.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task not found")
	}
	s.notifier.publish(TaskChange{TaskID: id})
	return nil
}

func (s *Store) nextPosition(ctx context.Context, projectID int64, stageName string) (int64, error) {
	var position sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(position) FROM tasks WHERE project_id = ? AND stage_name = ?`, projectID, stageName).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("select position: %w", err)
	}
	if position.Valid {
		return position.Int64 + 1, nil
	}
	return 0, nil
}
