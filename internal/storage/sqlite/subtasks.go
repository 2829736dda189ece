package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

// ListSubtasks returns the subtasks of one task in creation order.
func (s *Store) ListSubtasks(ctx context.Context, taskID int64) ([]models.SubTask, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, title, status, created_at FROM subtasks WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []models.SubTask
	for rows.Next() {
		var st models.SubTask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.Status, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subtask: %w", err)
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

// CreateSubtask inserts a new subtask under a task.
func (s *Store) CreateSubtask(ctx context.Context, st models.SubTask) (models.SubTask, error) {
	if strings.TrimSpace(st.Title) == "" {
		return models.SubTask{}, fmt.Errorf("subtask title must not be empty")
	}
	if _, ok := models.ValidSubtaskStatuses[st.Status]; !ok {
		st.Status = models.StatusNotStarted
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO subtasks(task_id, title, status) VALUES(?, ?, ?)`,
		st.TaskID, strings.TrimSpace(st.Title), st.Status)
	if err != nil {
		return models.SubTask{}, fmt.Errorf("insert subtask: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.SubTask{}, fmt.Errorf("subtask id: %w", err)
	}

	created, err := s.GetSubtask(ctx, id)
	if err != nil {
		return models.SubTask{}, err
	}
	s.notifier.publish(TaskChange{TaskID: st.TaskID})
	return created, nil
}

// GetSubtask retrieves a subtask by id.
func (s *Store) GetSubtask(ctx context.Context, id int64) (models.SubTask, error) {
	var st models.SubTask
	err := s.db.QueryRowContext(ctx, `SELECT id, task_id, title, status, created_at FROM subtasks WHERE id = ?`, id).
		Scan(&st.ID, &st.TaskID, &st.Title, &st.Status, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SubTask{}, fmt.Errorf("subtask not found")
	}
	if err != nil {
		return models.SubTask{}, fmt.Errorf("get subtask: %w", err)
	}
	return st, nil
}

// UpdateSubtask rewrites a subtask's title and status.
func (s *Store) UpdateSubtask(ctx context.Context, st models.SubTask) (models.SubTask, error) {
	if strings.TrimSpace(st.Title) == "" {
		return models.SubTask{}, fmt.Errorf("subtask title must not be empty")
	}
	if _, ok := models.ValidSubtaskStatuses[st.Status]; !ok {
		return models.SubTask{}, fmt.Errorf("invalid subtask status %q", st.Status)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE subtasks SET title = ?, status = ? WHERE id = ?`,
		strings.TrimSpace(st.Title), st.Status, st.ID)
	if err != nil {
		return models.SubTask{}, fmt.Errorf("update subtask: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.SubTask{}, err
	}
	if affected == 0 {
		return models.SubTask{}, fmt.Errorf("subtask not found")
	}

	updated, err := s.GetSubtask(ctx, st.ID)
	if err != nil {
		return models.SubTask{}, err
	}
	s.notifier.publish(TaskChange{TaskID: updated.TaskID})
	return updated, nil
}

// DeleteSubtask removes a subtask by id.
func (s *Store) DeleteSubtask(ctx context.Context, id int64) error {
	st, err := s.GetSubtask(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	s.notifier.publish(TaskChange{TaskID: st.TaskID})
	return nil
}
