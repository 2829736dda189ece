// Package board derives per-stage ordered task lists for a project and
// processes single-card drag moves. The lists are derived state: they are
// rebuilt from the mirrored task list whenever it changes and own nothing
// durable themselves.
package board

import (
	"sort"

	"taskboard/internal/models"
)

// StageList is one board lane: a stage name with its tasks in display
// order.
type StageList struct {
	Name  string        `json:"name"`
	Tasks []models.Task `json:"tasks"`
}

// Build groups a project's tasks into its stage lanes, ordered by
// position then id. Every configured stage gets a lane even when empty;
// tasks referencing an unknown stage get an extra lane at the end so
// they stay visible.
func Build(tasks []models.Task, stageNames []string) []StageList {
	lanes := make([]StageList, 0, len(stageNames))
	index := make(map[string]int, len(stageNames))
	for _, name := range stageNames {
		index[name] = len(lanes)
		lanes = append(lanes, StageList{Name: name})
	}

	for _, t := range tasks {
		i, ok := index[t.StageName]
		if !ok {
			i = len(lanes)
			index[t.StageName] = i
			lanes = append(lanes, StageList{Name: t.StageName})
		}
		lanes[i].Tasks = append(lanes[i].Tasks, t)
	}

	for i := range lanes {
		ts := lanes[i].Tasks
		sort.SliceStable(ts, func(a, b int) bool {
			if ts[a].Position != ts[b].Position {
				return ts[a].Position < ts[b].Position
			}
			return ts[a].ID < ts[b].ID
		})
	}
	return lanes
}

// moveResult describes the outcome of a drag applied to the lanes.
type moveResult struct {
	moved     models.Task
	positions map[int64]int64
}

// applyMove performs the splice for one drag gesture and renumbers the
// two touched lanes 0-based. Returns changed=false for a cancelled drag
// (empty stage name) or a drop onto the task's current slot; callers must
// then issue no writes.
func applyMove(lanes []StageList, taskID int64, fromStage, toStage string, targetIndex int) (moveResult, bool) {
	if fromStage == "" || toStage == "" {
		return moveResult{}, false
	}

	var from, to *StageList
	for i := range lanes {
		if lanes[i].Name == fromStage {
			from = &lanes[i]
		}
		if lanes[i].Name == toStage {
			to = &lanes[i]
		}
	}
	if from == nil || to == nil {
		return moveResult{}, false
	}

	current := -1
	for i, t := range from.Tasks {
		if t.ID == taskID {
			current = i
			break
		}
	}
	if current == -1 {
		return moveResult{}, false
	}

	if fromStage == toStage && targetIndex == current {
		return moveResult{}, false
	}

	moved := from.Tasks[current]
	from.Tasks = append(append([]models.Task(nil), from.Tasks[:current]...), from.Tasks[current+1:]...)

	if targetIndex < 0 || targetIndex > len(to.Tasks) {
		targetIndex = len(to.Tasks)
	}
	to.Tasks = append(to.Tasks[:targetIndex:targetIndex], append([]models.Task{moved}, to.Tasks[targetIndex:]...)...)

	moved.StageName = toStage
	moved.Position = int64(targetIndex)

	positions := make(map[int64]int64)
	for i := range from.Tasks {
		positions[from.Tasks[i].ID] = int64(i)
	}
	for i := range to.Tasks {
		positions[to.Tasks[i].ID] = int64(i)
	}
	return moveResult{moved: moved, positions: positions}, true
}
