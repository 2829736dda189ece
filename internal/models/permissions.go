package models

// Op names a mutating operation gated by role.
type Op string

const (
	OpAddTask        Op = "add_task"
	OpUpdateTask     Op = "update_task"
	OpDeleteTask     Op = "delete_task"
	OpReassignTask   Op = "reassign_task"
	OpAddSubtask     Op = "add_subtask"
	OpUpdateSubtask  Op = "update_subtask"
	OpDeleteSubtask  Op = "delete_subtask"
	OpAddNote        Op = "add_note"
	OpEditNote       Op = "edit_note"
	OpDeleteNote     Op = "delete_note"
	OpAddProject     Op = "add_project"
	OpUpdateProject  Op = "update_project"
	OpDeleteProject  Op = "delete_project"
	OpCreateReport   Op = "create_report"
	OpViewAllReports Op = "view_all_reports"
	OpManageUsers    Op = "manage_users"
)

// permissions is the single source of truth for role checks. Note edit
// and delete additionally allow the note's author, enforced by the state
// layer on top of this table.
var permissions = map[Op][]Role{
	OpAddTask:        {RoleCoordinator, RoleAdmin},
	OpUpdateTask:     {RoleWorker, RoleCoordinator, RoleAdmin},
	OpDeleteTask:     {RoleCoordinator, RoleAdmin},
	OpReassignTask:   {RoleCoordinator, RoleAdmin},
	OpAddSubtask:     {RoleWorker, RoleCoordinator, RoleAdmin},
	OpUpdateSubtask:  {RoleWorker, RoleCoordinator, RoleAdmin},
	OpDeleteSubtask:  {RoleWorker, RoleCoordinator, RoleAdmin},
	OpAddNote:        {RoleWorker, RoleCoordinator, RoleSupervisor, RoleAdmin},
	OpEditNote:       {RoleCoordinator, RoleAdmin},
	OpDeleteNote:     {RoleCoordinator, RoleAdmin},
	OpAddProject:     {RoleCoordinator, RoleAdmin},
	OpUpdateProject:  {RoleCoordinator, RoleAdmin},
	OpDeleteProject:  {RoleCoordinator, RoleAdmin},
	OpCreateReport:   {RoleWorker, RoleCoordinator, RoleAdmin},
	OpViewAllReports: {RoleSupervisor, RoleAdmin},
	OpManageUsers:    {RoleAdmin},
}

// Allowed reports whether the role may invoke the operation.
func Allowed(op Op, role Role) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}
