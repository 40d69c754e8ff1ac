package policy

import "github.com/taskforge-dev/taskforge/internal/models"

// Task rules expect task.Project to be preloaded.

func CanViewTask(actor *models.User, task *models.Task) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.IsManager() && task.Project.ManagerID == actor.ID {
		return true
	}
	return task.AssignedTo == actor.ID
}

func CanCreateTask(actor *models.User) bool {
	return actor.IsManager() || actor.IsDeveloper()
}

func CanUpdateTask(actor *models.User, task *models.Task) bool {
	if managesTaskProject(actor, task) {
		return true
	}
	return task.AssignedTo == actor.ID
}

// CanReassignTask restricts changing assigned_to to admins and the managing
// manager; an assignee may update their own task but not hand it to someone
// else.
func CanReassignTask(actor *models.User, task *models.Task) bool {
	return managesTaskProject(actor, task)
}

func CanDeleteTask(actor *models.User, task *models.Task) bool {
	return managesTaskProject(actor, task)
}

func CanChangeTaskStatus(actor *models.User, task *models.Task) bool {
	if managesTaskProject(actor, task) {
		return true
	}
	return task.AssignedTo == actor.ID
}

func managesTaskProject(actor *models.User, task *models.Task) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsManager() && task.Project.ManagerID == actor.ID
}
