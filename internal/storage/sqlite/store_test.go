package sqlite

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProject(t *testing.T, s *Store, stages ...string) models.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), models.Project{Name: "Casa Norte"}, stages)
	require.NoError(t, err)
	return p
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("", slog.Default())
	assert.Error(t, err)
}

func TestProjectRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := seedProject(t, s, "Design", "Development")
	assert.Equal(t, "Casa Norte", p.Name)
	assert.NotEmpty(t, p.Color)
	require.Len(t, p.Stages, 2)
	assert.Equal(t, int64(0), p.Stages[0].Position)
	assert.Equal(t, int64(1), p.Stages[1].Position)

	p.ClientName = "Familia Soto"
	updated, err := s.UpdateProject(ctx, p, []string{"Design", "Development"})
	require.NoError(t, err)
	assert.Equal(t, "Familia Soto", updated.ClientName)

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.GetProject(ctx, p.ID)
	assert.Error(t, err)
}

func TestCreateProjectAssignsNextDisplayOrder(t *testing.T) {
	s := newTestStore(t)

	first := seedProject(t, s, "Design")
	p2, err := s.CreateProject(context.Background(), models.Project{Name: "Casa Sur"}, []string{"Design"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), first.DisplayOrder)
	assert.Equal(t, int64(1), p2.DisplayOrder)
}

func TestReplaceProjectStagesKeepsSurvivingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "Design", "Development", "Completed")

	before := make(map[string]int64)
	for _, st := range p.Stages {
		before[st.Name] = st.ID
	}

	require.NoError(t, s.ReplaceProjectStages(ctx, p.ID, []string{"Development", "Design", "Review"}))

	stages, err := s.ListStages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stages, 3)

	assert.Equal(t, "Development", stages[0].Name)
	assert.Equal(t, before["Development"], stages[0].ID)
	assert.Equal(t, "Design", stages[1].Name)
	assert.Equal(t, before["Design"], stages[1].ID)
	assert.Equal(t, "Review", stages[2].Name)
	assert.NotContains(t, before, "Review")
}

func TestTaskPositionsPerStage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "Design", "Development")

	mk := func(title, stage string) models.Task {
		task, err := s.CreateTask(ctx, models.Task{ProjectID: p.ID, StageName: stage, Title: title})
		require.NoError(t, err)
		return task
	}

	a := mk("a", "Design")
	b := mk("b", "Design")
	c := mk("c", "Development")

	assert.Equal(t, int64(0), a.Position)
	assert.Equal(t, int64(1), b.Position)
	assert.Equal(t, int64(0), c.Position, "positions are tracked per stage")
}

func TestTaskDefaultsAndValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "Design")

	task, err := s.CreateTask(ctx, models.Task{ProjectID: p.ID, StageName: "Design", Title: "t", Status: "bogus", Priority: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	_, err = s.CreateTask(ctx, models.Task{ProjectID: p.ID, StageName: "Design", Title: "  "})
	assert.Error(t, err)

	task.Status = "bogus"
	_, err = s.UpdateTask(ctx, task)
	assert.Error(t, err, "updates reject invalid statuses instead of coercing")
}

func TestSubtasksAndNotesCascadeWithTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "Design")

	task, err := s.CreateTask(ctx, models.Task{ProjectID: p.ID, StageName: "Design", Title: "t"})
	require.NoError(t, err)

	_, err = s.CreateSubtask(ctx, models.SubTask{TaskID: task.ID, Title: "s1"})
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, models.Note{TaskID: task.ID, AuthorID: 1, AuthorName: "Ana", Content: "hola"})
	require.NoError(t, err)

	loaded, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Subtasks, 1)
	assert.Len(t, loaded.Notes, 1)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	subtasks, err := s.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, subtasks)
	notes, err := s.ListNotes(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSubscribePublishesTaskWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProject(t, s, "Design")

	ch, cancel := s.Subscribe()
	defer cancel()

	task, err := s.CreateTask(ctx, models.Task{ProjectID: p.ID, StageName: "Design", Title: "t"})
	require.NoError(t, err)

	select {
	case ev := <-ch:
		assert.Equal(t, task.ID, ev.TaskID)
	case <-time.After(time.Second):
		t.Fatal("expected a change event after task insert")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel closes the subscription channel")
}

func TestReportRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	report := models.Report{
		ID:      "r-1",
		UserID:  7,
		Date:    "2026-08-31",
		Message: "daily",
		Tasks: []models.ReportTask{
			{ReportID: "r-1", TaskID: 1, Title: "Draw plans", StageName: "Design", CompletedAt: &now},
		},
		Subtasks: []models.ReportSubtask{
			{ReportID: "r-1", SubtaskID: 2, TaskID: 1, Title: "site plan"},
		},
	}

	created, err := s.CreateReport(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, "daily", created.Message)
	require.Len(t, created.Tasks, 1)
	require.Len(t, created.Subtasks, 1)

	// Write-once: the same id cannot be inserted again.
	_, err = s.CreateReport(ctx, report)
	assert.Error(t, err)

	byUser, err := s.ListReports(ctx, 7, "")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	byDate, err := s.ListReports(ctx, 0, "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, byDate)
}

func TestUserLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "Ana", "Ana@Example.com", models.RoleCoordinator, "hash")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", created.Email, "emails are stored lowercased")

	u, hash, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, "hash", hash)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
