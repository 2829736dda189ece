package models

import "time"

// Role determines which operations a user may invoke.
type Role string

const (
	RoleWorker      Role = "worker"
	RoleCoordinator Role = "coordinator"
	RoleSupervisor  Role = "supervisor"
	RoleAdmin       Role = "admin"
)

// ValidRoles enumerates the roles accepted on user records.
var ValidRoles = map[Role]struct{}{
	RoleWorker:      {},
	RoleCoordinator: {},
	RoleSupervisor:  {},
	RoleAdmin:       {},
}

// Task statuses shown as board columns plus the paused side state.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusPaused     = "paused"
	StatusCompleted  = "completed"
)

// ValidTaskStatuses enumerates the statuses a task may hold.
var ValidTaskStatuses = map[string]struct{}{
	StatusNotStarted: {},
	StatusInProgress: {},
	StatusPaused:     {},
	StatusCompleted:  {},
}

// ValidSubtaskStatuses enumerates the statuses a subtask may hold.
// Subtasks cannot be paused.
var ValidSubtaskStatuses = map[string]struct{}{
	StatusNotStarted: {},
	StatusInProgress: {},
	StatusCompleted:  {},
}

// Task priorities. The values are kept exactly as the client stores them.
const (
	PriorityHigh   = "Alta"
	PriorityMedium = "Media"
	PriorityLow    = "Baja"
)

// ValidPriorities enumerates the priorities a task may hold.
var ValidPriorities = map[string]struct{}{
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

// User is an authenticated member of the workspace.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Project groups tasks into a board with named stage lanes.
type Project struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color"`
	ClientName    string    `json:"client_name,omitempty"`
	ClientAddress string    `json:"client_address,omitempty"`
	Number        string    `json:"number,omitempty"`
	Description   string    `json:"description,omitempty"`
	DisplayOrder  int64     `json:"display_order"`
	Stages        []Stage   `json:"stages"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StageNames returns the project's lane names in board order.
func (p Project) StageNames() []string {
	names := make([]string, 0, len(p.Stages))
	for _, st := range p.Stages {
		names = append(names, st.Name)
	}
	return names
}

// Stage is a named lane within one project. Tasks reference it both by
// name and by id.
type Stage struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Position  int64  `json:"position"`
}

// Task is a single card on the board.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	StageID     int64      `json:"stage_id"`
	StageName   string     `json:"stage_name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  int64      `json:"assignee_id"`
	Position    int64      `json:"position"`
	Progress    int        `json:"progress"`
	Subtasks    []SubTask  `json:"subtasks"`
	Notes       []Note     `json:"notes"`
	AssignedAt  time.Time  `json:"assigned_at"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SubTask is a checklist item belonging to one task. Its status drives
// the parent task's progress.
type SubTask struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-text comment on a task. The author name is denormalized
// so notes stay readable after the author is removed.
type Note struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"task_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Report is a write-once snapshot of a user's completed work for a day.
type Report struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Date      string          `json:"date"`
	Message   string          `json:"message,omitempty"`
	ProjectID *int64          `json:"project_id,omitempty"`
	Tasks     []ReportTask    `json:"tasks"`
	Subtasks  []ReportSubtask `json:"subtasks"`
	CreatedAt time.Time       `json:"created_at"`
}

// ReportTask is a snapshot row of a completed task at report time.
type ReportTask struct {
	ReportID    string     `json:"report_id"`
	TaskID      int64      `json:"task_id"`
	Title       string     `json:"title"`
	StageName   string     `json:"stage_name"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ReportSubtask is a snapshot row of a completed subtask at report time.
type ReportSubtask struct {
	ReportID  string `json:"report_id"`
	SubtaskID int64  `json:"subtask_id"`
	TaskID    int64  `json:"task_id"`
	Title     string `json:"title"`
}
