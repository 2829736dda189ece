package board

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/state"
	"taskboard/internal/storage/sqlite"
)

type boardFixture struct {
	gw          *sqlite.Store
	state       *state.Store
	engine      *Engine
	coordinator models.User
	project     models.Project
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	ctx := context.Background()

	gw, err := sqlite.Open(":memory:", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close() })

	coordinator, err := gw.CreateUser(ctx, "Carla", "carla@example.com", models.RoleCoordinator, "x")
	require.NoError(t, err)

	st, err := state.New(ctx, gw, slog.Default())
	require.NoError(t, err)

	project, err := st.AddProject(ctx, coordinator, models.Project{Name: "Casa Norte"},
		[]string{"Design", "Development"})
	require.NoError(t, err)

	return &boardFixture{
		gw:          gw,
		state:       st,
		engine:      NewEngine(st),
		coordinator: coordinator,
		project:     project,
	}
}

func (f *boardFixture) addTask(t *testing.T, title, stage string) models.Task {
	t.Helper()
	task, err := f.state.AddTask(context.Background(), f.coordinator, models.Task{
		ProjectID: f.project.ID,
		StageName: stage,
		Title:     title,
	})
	require.NoError(t, err)
	return task
}

func TestEngineMoveAcrossStages(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	a := f.addTask(t, "a", "Design")
	b := f.addTask(t, "b", "Design")
	c := f.addTask(t, "c", "Design")
	d := f.addTask(t, "d", "Development")

	require.NoError(t, f.engine.MoveTask(ctx, f.coordinator, f.project.ID, b.ID, "Design", "Development", 0))

	lanes, err := f.engine.Lanes(f.project.ID)
	require.NoError(t, err)
	require.Len(t, lanes, 2)

	assert.Equal(t, []int64{a.ID, c.ID}, ids(lanes[0].Tasks))
	assert.Equal(t, []int64{b.ID, d.ID}, ids(lanes[1].Tasks))

	// Source lane renumbered 0,1 in the mirror.
	assert.Equal(t, int64(0), lanes[0].Tasks[0].Position)
	assert.Equal(t, int64(1), lanes[0].Tasks[1].Position)

	// Only the moved task got a durable write: its row carries the new
	// stage reference and position.
	persisted, err := f.gw.GetTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Development", persisted.StageName)
	assert.Equal(t, int64(0), persisted.Position)
	devID, ok := f.state.StageID(f.project.ID, "Development")
	require.True(t, ok)
	assert.Equal(t, devID, persisted.StageID)
}

func TestEngineSameSlotDropIssuesNoWrite(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	a := f.addTask(t, "a", "Design")
	f.addTask(t, "b", "Design")

	ch, cancel := f.gw.Subscribe()
	defer cancel()

	require.NoError(t, f.engine.MoveTask(ctx, f.coordinator, f.project.ID, a.ID, "Design", "Design", 0))

	select {
	case ev := <-ch:
		t.Fatalf("same-slot drop must not write, got change for task %d", ev.TaskID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEngineCancelledDragIsNoop(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	a := f.addTask(t, "a", "Design")

	require.NoError(t, f.engine.MoveTask(ctx, f.coordinator, f.project.ID, a.ID, "", "Development", 0))

	got, ok := f.state.Task(a.ID)
	require.True(t, ok)
	assert.Equal(t, "Design", got.StageName)
}

func TestEngineMoveIntoEmptyStage(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()
	a := f.addTask(t, "a", "Design")

	require.NoError(t, f.engine.MoveTask(ctx, f.coordinator, f.project.ID, a.ID, "Design", "Development", 5))

	lanes, err := f.engine.Lanes(f.project.ID)
	require.NoError(t, err)
	require.Len(t, lanes[1].Tasks, 1)
	assert.Equal(t, int64(0), lanes[1].Tasks[0].Position)
}

func TestEngineUnknownProject(t *testing.T) {
	f := newBoardFixture(t)
	err := f.engine.MoveTask(context.Background(), f.coordinator, 999, 1, "Design", "Development", 0)
	assert.ErrorIs(t, err, state.ErrNotFound)
}
