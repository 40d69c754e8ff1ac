// Package policy holds the authorization rules as pure functions over an
// actor and a resource. Callers must pass projects with their developer set
// preloaded and tasks with their project preloaded; nothing here touches the
// database.
package policy

import "github.com/taskforge-dev/taskforge/internal/models"

// CanViewProject allows admins and managers to view any project and
// developers only the projects they are assigned to.
func CanViewProject(actor *models.User, project *models.Project) bool {
	if actor.IsManager() {
		return true
	}
	return project.HasDeveloper(actor.ID)
}

func CanCreateProject(actor *models.User) bool {
	return actor.IsManager()
}

func CanUpdateProject(actor *models.User, project *models.Project) bool {
	return managesProject(actor, project)
}

func CanDeleteProject(actor *models.User, project *models.Project) bool {
	return managesProject(actor, project)
}

func CanAssignDevelopers(actor *models.User, project *models.Project) bool {
	return managesProject(actor, project)
}

func CanRemoveDeveloper(actor *models.User, project *models.Project) bool {
	return managesProject(actor, project)
}

// managesProject is true for admins and for the manager who owns the project.
func managesProject(actor *models.User, project *models.Project) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsManager() && project.ManagerID == actor.ID
}
