package board

import (
	"context"

	"taskboard/internal/models"
	"taskboard/internal/state"
)

// Engine executes drag moves against the state store. Exactly one row
// write is issued per move, for the moved task; sibling renumbering stays
// in derived state and is re-derived on the next full load.
type Engine struct {
	state *state.Store
}

// NewEngine builds a reordering engine over the state store.
func NewEngine(st *state.Store) *Engine {
	return &Engine{state: st}
}

// Lanes returns the current stage lanes for one project.
func (e *Engine) Lanes(projectID int64) ([]StageList, error) {
	p, ok := e.state.Project(projectID)
	if !ok {
		return nil, state.ErrNotFound
	}
	return Build(e.state.ProjectTasks(projectID), p.StageNames()), nil
}

// MoveTask processes a single drag gesture: a same-stage reorder or a
// cross-stage transfer. Cancelled drags and drops onto the current slot
// are no-ops and issue zero writes.
func (e *Engine) MoveTask(ctx context.Context, actor models.User, projectID, taskID int64, fromStage, toStage string, targetIndex int) error {
	p, ok := e.state.Project(projectID)
	if !ok {
		return state.ErrNotFound
	}

	lanes := Build(e.state.ProjectTasks(projectID), p.StageNames())
	res, changed := applyMove(lanes, taskID, fromStage, toStage, targetIndex)
	if !changed {
		return nil
	}

	moved := res.moved
	if id, ok := e.state.StageID(projectID, toStage); ok {
		moved.StageID = id
	}

	if _, err := e.state.UpdateTask(ctx, actor, moved); err != nil {
		return err
	}
	e.state.ApplyStagePositions(res.positions)
	return nil
}
