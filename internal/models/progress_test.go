package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskProgress(t *testing.T) {
	sub := func(statuses ...string) []SubTask {
		out := make([]SubTask, len(statuses))
		for i, st := range statuses {
			out[i] = SubTask{ID: int64(i + 1), Title: "s", Status: st}
		}
		return out
	}

	tests := []struct {
		name     string
		status   string
		subtasks []SubTask
		want     int
	}{
		{
			name:   "no_subtasks_completed_task",
			status: StatusCompleted,
			want:   100,
		},
		{
			name:   "no_subtasks_open_task",
			status: StatusInProgress,
			want:   0,
		},
		{
			name:     "two_of_three_completed_rounds_to_67",
			status:   StatusInProgress,
			subtasks: sub(StatusCompleted, StatusCompleted, StatusNotStarted),
			want:     67,
		},
		{
			name:     "one_of_three_completed_rounds_to_33",
			status:   StatusInProgress,
			subtasks: sub(StatusCompleted, StatusNotStarted, StatusNotStarted),
			want:     33,
		},
		{
			name:     "half_completed",
			status:   StatusInProgress,
			subtasks: sub(StatusCompleted, StatusNotStarted),
			want:     50,
		},
		{
			name:     "all_completed",
			status:   StatusInProgress,
			subtasks: sub(StatusCompleted, StatusCompleted),
			want:     100,
		},
		{
			name:     "none_completed",
			status:   StatusPaused,
			subtasks: sub(StatusNotStarted, StatusInProgress),
			want:     0,
		},
		{
			name:     "in_progress_subtasks_do_not_count",
			status:   StatusInProgress,
			subtasks: sub(StatusInProgress, StatusInProgress, StatusCompleted),
			want:     33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskProgress(tt.status, tt.subtasks))
		})
	}
}

func TestTaskProgressDeterministic(t *testing.T) {
	subtasks := []SubTask{
		{Status: StatusCompleted},
		{Status: StatusNotStarted},
		{Status: StatusCompleted},
	}
	first := TaskProgress(StatusInProgress, subtasks)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, TaskProgress(StatusInProgress, subtasks))
	}
}
