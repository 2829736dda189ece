package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

// ListNotes returns the notes of one task, oldest first.
func (s *Store) ListNotes(ctx context.Context, taskID int64) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, author_id, author_name, content, created_at FROM notes WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.TaskID, &n.AuthorID, &n.AuthorName, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// CreateNote appends a note to a task.
func (s *Store) CreateNote(ctx context.Context, n models.Note) (models.Note, error) {
	if strings.TrimSpace(n.Content) == "" {
		return models.Note{}, fmt.Errorf("note content must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO notes(task_id, author_id, author_name, content) VALUES(?, ?, ?, ?)`,
		n.TaskID, n.AuthorID, n.AuthorName, strings.TrimSpace(n.Content))
	if err != nil {
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, fmt.Errorf("note id: %w", err)
	}

	created, err := s.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	s.notifier.publish(TaskChange{TaskID: n.TaskID})
	return created, nil
}

// GetNote retrieves a note by id.
func (s *Store) GetNote(ctx context.Context, id int64) (models.Note, error) {
	var n models.Note
	err := s.db.QueryRowContext(ctx, `SELECT id, task_id, author_id, author_name, content, created_at FROM notes WHERE id = ?`, id).
		Scan(&n.ID, &n.TaskID, &n.AuthorID, &n.AuthorName, &n.Content, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, fmt.Errorf("note not found")
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// UpdateNote rewrites a note's content.
func (s *Store) UpdateNote(ctx context.Context, id int64, content string) (models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return models.Note{}, fmt.Errorf("note content must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `UPDATE notes SET content = ? WHERE id = ?`, strings.TrimSpace(content), id)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Note{}, err
	}
	if affected == 0 {
		return models.Note{}, fmt.Errorf("note not found")
	}

	updated, err := s.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	s.notifier.publish(TaskChange{TaskID: updated.TaskID})
	return updated, nil
}

// DeleteNote removes a note by id.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	n, err := s.GetNote(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.notifier.publish(TaskChange{TaskID: n.TaskID})
	return nil
}
