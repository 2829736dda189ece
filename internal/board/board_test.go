package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
)

func task(id int64, stage string, pos int64) models.Task {
	return models.Task{ID: id, StageName: stage, Position: pos, Title: "t"}
}

func TestBuildGroupsAndOrders(t *testing.T) {
	tasks := []models.Task{
		task(3, "Design", 1),
		task(1, "Design", 0),
		task(2, "Development", 0),
	}

	lanes := Build(tasks, []string{"Design", "Development", "Completed"})
	require.Len(t, lanes, 3)

	assert.Equal(t, "Design", lanes[0].Name)
	require.Len(t, lanes[0].Tasks, 2)
	assert.Equal(t, int64(1), lanes[0].Tasks[0].ID)
	assert.Equal(t, int64(3), lanes[0].Tasks[1].ID)

	assert.Equal(t, "Development", lanes[1].Name)
	require.Len(t, lanes[1].Tasks, 1)

	assert.Equal(t, "Completed", lanes[2].Name)
	assert.Empty(t, lanes[2].Tasks)
}

func TestBuildKeepsUnknownStageVisible(t *testing.T) {
	tasks := []models.Task{task(1, "Archived", 0)}
	lanes := Build(tasks, []string{"Design"})
	require.Len(t, lanes, 2)
	assert.Equal(t, "Archived", lanes[1].Name)
	require.Len(t, lanes[1].Tasks, 1)
}

func TestApplyMoveAcrossStages(t *testing.T) {
	lanes := Build([]models.Task{
		task(1, "Design", 0),
		task(2, "Design", 1),
		task(3, "Design", 2),
		task(4, "Development", 0),
	}, []string{"Design", "Development"})

	res, changed := applyMove(lanes, 2, "Design", "Development", 0)
	require.True(t, changed)

	assert.Equal(t, "Development", res.moved.StageName)
	assert.Equal(t, int64(0), res.moved.Position)

	// Destination has the moved task first and length 2.
	require.Len(t, lanes[1].Tasks, 2)
	assert.Equal(t, int64(2), lanes[1].Tasks[0].ID)
	assert.Equal(t, int64(4), lanes[1].Tasks[1].ID)

	// Source shrank to 2 and was renumbered 0,1.
	require.Len(t, lanes[0].Tasks, 2)
	assert.Equal(t, int64(0), res.positions[1])
	assert.Equal(t, int64(1), res.positions[3])
	assert.Equal(t, int64(1), res.positions[4])
}

func TestApplyMoveSameSlotIsNoop(t *testing.T) {
	lanes := Build([]models.Task{
		task(1, "Design", 0),
		task(2, "Design", 1),
	}, []string{"Design"})

	_, changed := applyMove(lanes, 2, "Design", "Design", 1)
	assert.False(t, changed)
	require.Len(t, lanes[0].Tasks, 2)
	assert.Equal(t, int64(1), lanes[0].Tasks[0].ID)
}

func TestApplyMoveSameStageReorder(t *testing.T) {
	lanes := Build([]models.Task{
		task(1, "Design", 0),
		task(2, "Design", 1),
		task(3, "Design", 2),
	}, []string{"Design"})

	res, changed := applyMove(lanes, 3, "Design", "Design", 0)
	require.True(t, changed)
	assert.Equal(t, int64(0), res.moved.Position)
	assert.Equal(t, []int64{3, 1, 2}, ids(lanes[0].Tasks))
}

func TestApplyMoveIntoEmptyStage(t *testing.T) {
	lanes := Build([]models.Task{
		task(1, "Design", 0),
	}, []string{"Design", "Development"})

	res, changed := applyMove(lanes, 1, "Design", "Development", 0)
	require.True(t, changed)
	assert.Equal(t, int64(0), res.moved.Position)
	require.Len(t, lanes[1].Tasks, 1)
	assert.Empty(t, lanes[0].Tasks)
}

func TestApplyMoveClampsTargetIndex(t *testing.T) {
	lanes := Build([]models.Task{
		task(1, "Design", 0),
		task(2, "Development", 0),
	}, []string{"Design", "Development"})

	res, changed := applyMove(lanes, 1, "Design", "Development", 99)
	require.True(t, changed)
	assert.Equal(t, int64(1), res.moved.Position)
	assert.Equal(t, []int64{2, 1}, ids(lanes[1].Tasks))
}

func TestApplyMoveCancelledDrag(t *testing.T) {
	lanes := Build([]models.Task{task(1, "Design", 0)}, []string{"Design"})

	_, changed := applyMove(lanes, 1, "", "Design", 0)
	assert.False(t, changed)
	_, changed = applyMove(lanes, 1, "Design", "", 0)
	assert.False(t, changed)
}

func TestApplyMoveUnknownTask(t *testing.T) {
	lanes := Build([]models.Task{task(1, "Design", 0)}, []string{"Design"})
	_, changed := applyMove(lanes, 42, "Design", "Design", 0)
	assert.False(t, changed)
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
