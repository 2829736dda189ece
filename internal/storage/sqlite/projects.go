package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"taskboard/internal/models"
)

// ListProjects retrieves all projects with their stage lanes, ordered by
// board display order.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, client_name, client_address, number, description, display_order, created_at, updated_at
        FROM projects ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.ClientName, &p.ClientAddress, &p.Number, &p.Description, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		stages, err := s.ListStages(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Stages = stages
	}
	return projects, nil
}

// CreateProject persists a new project together with its stage lanes.
func (s *Store) CreateProject(ctx context.Context, p models.Project, stageNames []string) (models.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Project{}, fmt.Errorf("project name must not be empty")
	}
	if p.Color == "" {
		p.Color = randomPaletteColor()
	}

	var order sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(display_order) FROM projects`).Scan(&order); err != nil {
		return models.Project{}, fmt.Errorf("select display order: %w", err)
	}
	next := int64(0)
	if order.Valid {
		next = order.Int64 + 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Project{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO projects(name, color, client_name, client_address, number, description, display_order)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(p.Name), p.Color, p.ClientName, p.ClientAddress, p.Number, p.Description, next)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Project{}, fmt.Errorf("project id: %w", err)
	}

	for i, name := range stageNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO project_stages(project_id, name, position) VALUES(?, ?, ?)`, id, strings.TrimSpace(name), i); err != nil {
			return models.Project{}, fmt.Errorf("insert stage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Project{}, fmt.Errorf("commit project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a single project with its stages.
func (s *Store) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := s.db.QueryRowContext(ctx, `SELECT id, name, color, client_name, client_address, number, description, display_order, created_at, updated_at
        FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Color, &p.ClientName, &p.ClientAddress, &p.Number, &p.Description, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project not found")
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}

	stages, err := s.ListStages(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	p.Stages = stages
	return p, nil
}

// UpdateProject rewrites a project's own fields and replaces its stage
// lanes with the given name list.
func (s *Store) UpdateProject(ctx context.Context, p models.Project, stageNames []string) (models.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Project{}, fmt.Errorf("project name must not be empty")
	}
	if p.Color == "" {
		p.Color = randomPaletteColor()
	}

	res, err := s.db.ExecContext(ctx, `UPDATE projects SET name = ?, color = ?, client_name = ?, client_address = ?, number = ?, description = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`,
		strings.TrimSpace(p.Name), p.Color, p.ClientName, p.ClientAddress, p.Number, p.Description, p.ID)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Project{}, err
	}
	if affected == 0 {
		return models.Project{}, fmt.Errorf("project not found")
	}

	if err := s.ReplaceProjectStages(ctx, p.ID, stageNames); err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, p.ID)
}

// ReplaceProjectStages reconciles the stage set of a project with the
// given ordered name list. Stages whose name survives keep their id so
// task stage references stay valid; removed names are deleted and new
// names inserted.
func (s *Store) ReplaceProjectStages(ctx context.Context, projectID int64, stageNames []string) error {
	existing, err := s.ListStages(ctx, projectID)
	if err != nil {
		return err
	}
	byName := make(map[string]models.Stage, len(existing))
	for _, st := range existing {
		byName[st.Name] = st
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	kept := make(map[string]struct{}, len(stageNames))
	pos := 0
	for _, raw := range stageNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		kept[name] = struct{}{}
		if st, ok := byName[name]; ok {
			if _, err := tx.ExecContext(ctx, `UPDATE project_stages SET position = ? WHERE id = ?`, pos, st.ID); err != nil {
				return fmt.Errorf("reposition stage: %w", err)
			}
		} else {
			if _, err := tx.ExecContext(ctx, `INSERT INTO project_stages(project_id, name, position) VALUES(?, ?, ?)`, projectID, name, pos); err != nil {
				return fmt.Errorf("insert stage: %w", err)
			}
		}
		pos++
	}

	for _, st := range existing {
		if _, ok := kept[st.Name]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_stages WHERE id = ?`, st.ID); err != nil {
			return fmt.Errorf("delete stage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stages: %w", err)
	}
	return nil
}

// ListStages returns the stage lanes of a project in board order.
func (s *Store) ListStages(ctx context.Context, projectID int64) ([]models.Stage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, name, position FROM project_stages WHERE project_id = ? ORDER BY position, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []models.Stage
	for rows.Next() {
		var st models.Stage
		if err := rows.Scan(&st.ID, &st.ProjectID, &st.Name, &st.Position); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

// DeleteProject removes a project along with its stages, tasks, subtasks
// and notes via foreign key cascades.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// SetProjectOrder writes one project's board display order.
func (s *Store) SetProjectOrder(ctx context.Context, id, order int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET display_order = ? WHERE id = ?`, order, id)
	if err != nil {
		return fmt.Errorf("set project order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

func randomPaletteColor() string {
	palette := []string{
		"#2563eb", // blue-600
		"#7c3aed", // violet-600
		"#dc2626", // red-600
		"#059669", // green-600
		"#ea580c", // orange-600
		"#d97706", // amber-600
		"#0ea5e9", // sky-500
	}
	return palette[rand.Intn(len(palette))]
}
