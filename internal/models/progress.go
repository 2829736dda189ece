package models

import "math"

// TaskProgress derives the completion percentage for a task from its
// subtasks. A task without subtasks is either fully done or not started:
// 100 when its own status is completed, 0 otherwise. With subtasks the
// result is the rounded ratio of completed subtasks.
func TaskProgress(status string, subtasks []SubTask) int {
	if len(subtasks) == 0 {
		if status == StatusCompleted {
			return 100
		}
		return 0
	}

	completed := 0
	for _, st := range subtasks {
		if st.Status == StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(subtasks))))
}
