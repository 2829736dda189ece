package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/models"
)

// CreateReport persists a report together with its snapshot rows in one
// transaction. Reports are write-once: there is no update path.
func (s *Store) CreateReport(ctx context.Context, r models.Report) (models.Report, error) {
	if r.ID == "" {
		return models.Report{}, fmt.Errorf("report id must not be empty")
	}
	if r.Date == "" {
		return models.Report{}, fmt.Errorf("report date must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Report{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO reports(id, user_id, date, message, project_id) VALUES(?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Date, r.Message, r.ProjectID); err != nil {
		return models.Report{}, fmt.Errorf("insert report: %w", err)
	}

	for _, rt := range r.Tasks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO report_tasks(report_id, task_id, title, stage_name, completed_at) VALUES(?, ?, ?, ?, ?)`,
			r.ID, rt.TaskID, rt.Title, rt.StageName, rt.CompletedAt); err != nil {
			return models.Report{}, fmt.Errorf("insert report task: %w", err)
		}
	}
	for _, rs := range r.Subtasks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO report_subtasks(report_id, subtask_id, task_id, title) VALUES(?, ?, ?, ?)`,
			r.ID, rs.SubtaskID, rs.TaskID, rs.Title); err != nil {
			return models.Report{}, fmt.Errorf("insert report subtask: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Report{}, fmt.Errorf("commit report: %w", err)
	}
	return s.GetReport(ctx, r.ID)
}

// GetReport retrieves one report with its snapshot rows.
func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	var r models.Report
	var projectID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT id, user_id, date, message, project_id, created_at FROM reports WHERE id = ?`, id).
		Scan(&r.ID, &r.UserID, &r.Date, &r.Message, &projectID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, fmt.Errorf("report not found")
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("get report: %w", err)
	}
	if projectID.Valid {
		r.ProjectID = &projectID.Int64
	}
	if err := s.attachReportRows(ctx, &r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// ListReports returns reports, newest first. A zero userID means all
// users (supervisor view); a non-empty date filters to that day.
func (s *Store) ListReports(ctx context.Context, userID int64, date string) ([]models.Report, error) {
	query := `SELECT id, user_id, date, message, project_id, created_at FROM reports`
	var (
		clauses []string
		args    []any
	)
	if userID != 0 {
		clauses = append(clauses, `user_id = ?`)
		args = append(args, userID)
	}
	if date != "" {
		clauses = append(clauses, `date = ?`)
		args = append(args, date)
	}
	for i, c := range clauses {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		var projectID sql.NullInt64
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.Message, &projectID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if projectID.Valid {
			r.ProjectID = &projectID.Int64
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reports {
		if err := s.attachReportRows(ctx, &reports[i]); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (s *Store) attachReportRows(ctx context.Context, r *models.Report) error {
	taskRows, err := s.db.QueryContext(ctx, `SELECT report_id, task_id, title, stage_name, completed_at FROM report_tasks WHERE report_id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("list report tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var rt models.ReportTask
		var completedAt sql.NullTime
		if err := taskRows.Scan(&rt.ReportID, &rt.TaskID, &rt.Title, &rt.StageName, &completedAt); err != nil {
			return fmt.Errorf("scan report task: %w", err)
		}
		if completedAt.Valid {
			rt.CompletedAt = &completedAt.Time
		}
		r.Tasks = append(r.Tasks, rt)
	}
	if err := taskRows.Err(); err != nil {
		return err
	}

	subRows, err := s.db.QueryContext(ctx, `SELECT report_id, subtask_id, task_id, title FROM report_subtasks WHERE report_id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("list report subtasks: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var rs models.ReportSubtask
		if err := subRows.Scan(&rs.ReportID, &rs.SubtaskID, &rs.TaskID, &rs.Title); err != nil {
			return fmt.Errorf("scan report subtask: %w", err)
		}
		r.Subtasks = append(r.Subtasks, rs)
	}
	return subRows.Err()
}
