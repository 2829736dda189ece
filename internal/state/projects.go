package state

import (
	"context"

	"taskboard/internal/models"
)

// AddProject creates a project with the given stage lanes. Coordinator
// only.
func (s *Store) AddProject(ctx context.Context, actor models.User, draft models.Project, stageNames []string) (models.Project, error) {
	if !models.Allowed(models.OpAddProject, actor.Role) {
		return models.Project{}, ErrPermission
	}

	created, err := s.gw.CreateProject(ctx, draft, stageNames)
	if err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	s.projects = append(s.projects, created)
	s.mu.Unlock()
	return created, nil
}

// UpdateProject rewrites a project's fields and reconciles its stage
// lanes with the given name list. Coordinator only.
func (s *Store) UpdateProject(ctx context.Context, actor models.User, p models.Project, stageNames []string) (models.Project, error) {
	if !models.Allowed(models.OpUpdateProject, actor.Role) {
		return models.Project{}, ErrPermission
	}

	updated, err := s.gw.UpdateProject(ctx, p, stageNames)
	if err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == updated.ID {
			s.projects[i] = updated
			break
		}
	}
	// Stage lanes may have been renamed; re-link mirrored tasks by name.
	byName := make(map[string]int64, len(updated.Stages))
	for _, st := range updated.Stages {
		byName[st.Name] = st.ID
	}
	for i := range s.tasks {
		if s.tasks[i].ProjectID != updated.ID {
			continue
		}
		if id, ok := byName[s.tasks[i].StageName]; ok {
			s.tasks[i].StageID = id
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteProject removes a project and its tasks. Coordinator only.
func (s *Store) DeleteProject(ctx context.Context, actor models.User, id int64) error {
	if !models.Allowed(models.OpDeleteProject, actor.Role) {
		return ErrPermission
	}

	if err := s.gw.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i, p := range s.projects {
		if p.ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			break
		}
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ProjectID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	return nil
}

// MoveProject moves a project to a new board position and rewrites the
// display order of every project in the resulting sequence, one row write
// per project.
func (s *Store) MoveProject(ctx context.Context, actor models.User, projectID int64, targetIndex int) error {
	if !models.Allowed(models.OpUpdateProject, actor.Role) {
		return ErrPermission
	}

	projects := s.Projects()
	from := -1
	for i, p := range projects {
		if p.ID == projectID {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrNotFound
	}

	moved := projects[from]
	projects = append(projects[:from], projects[from+1:]...)
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(projects) {
		targetIndex = len(projects)
	}
	projects = append(projects[:targetIndex], append([]models.Project{moved}, projects[targetIndex:]...)...)

	for i := range projects {
		if err := s.gw.SetProjectOrder(ctx, projects[i].ID, int64(i)); err != nil {
			return err
		}
		projects[i].DisplayOrder = int64(i)
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}
