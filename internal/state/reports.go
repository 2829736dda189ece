package state

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

// CreateReport snapshots the acting user's completed tasks and subtasks
// for one day into a write-once report. An optional project id narrows
// the snapshot to that project.
func (s *Store) CreateReport(ctx context.Context, actor models.User, date, message string, projectID *int64) (models.Report, error) {
	if !models.Allowed(models.OpCreateReport, actor.Role) {
		return models.Report{}, ErrPermission
	}

	report := models.Report{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		Date:      date,
		Message:   message,
		ProjectID: projectID,
	}

	for _, t := range s.Tasks() {
		if t.AssigneeID != actor.ID {
			continue
		}
		if projectID != nil && t.ProjectID != *projectID {
			continue
		}
		if t.Status == models.StatusCompleted && completedOn(t, date) {
			report.Tasks = append(report.Tasks, models.ReportTask{
				ReportID:    report.ID,
				TaskID:      t.ID,
				Title:       t.Title,
				StageName:   t.StageName,
				CompletedAt: t.CompletedAt,
			})
		}
		for _, st := range t.Subtasks {
			if st.Status == models.StatusCompleted {
				report.Subtasks = append(report.Subtasks, models.ReportSubtask{
					ReportID:  report.ID,
					SubtaskID: st.ID,
					TaskID:    t.ID,
					Title:     st.Title,
				})
			}
		}
	}

	return s.gw.CreateReport(ctx, report)
}

// completedOn reports whether the task's completion timestamp falls on
// the given YYYY-MM-DD day. A completed task without a timestamp is
// included rather than dropped.
func completedOn(t models.Task, date string) bool {
	if t.CompletedAt == nil {
		return true
	}
	return t.CompletedAt.UTC().Format("2006-01-02") == date
}

// ListReports returns reports visible to the acting user: supervisors see
// everyone's reports, other roles only their own.
func (s *Store) ListReports(ctx context.Context, actor models.User, date string) ([]models.Report, error) {
	if models.Allowed(models.OpViewAllReports, actor.Role) {
		return s.gw.ListReports(ctx, 0, date)
	}
	return s.gw.ListReports(ctx, actor.ID, date)
}
