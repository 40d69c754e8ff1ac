package policy

import (
	"testing"

	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func user(id uint, role string) *models.User {
	return &models.User{Model: gorm.Model{ID: id}, Role: role}
}

func project(id, managerID uint, developerIDs ...uint) *models.Project {
	p := &models.Project{Model: gorm.Model{ID: id}, ManagerID: managerID}
	for _, devID := range developerIDs {
		p.Developers = append(p.Developers, models.User{Model: gorm.Model{ID: devID}, Role: types.RoleDeveloper})
	}
	return p
}

func task(id uint, p *models.Project, assignedTo uint) *models.Task {
	return &models.Task{
		Model:      gorm.Model{ID: id},
		ProjectID:  p.ID,
		Project:    *p,
		AssignedTo: assignedTo,
	}
}

func TestCanViewProject(t *testing.T) {
	p := project(1, 10, 20)

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"admin", user(1, types.RoleAdmin), true},
		{"any manager", user(11, types.RoleManager), true},
		{"member developer", user(20, types.RoleDeveloper), true},
		{"non-member developer", user(21, types.RoleDeveloper), false},
		{"plain user", user(30, types.RoleUser), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewProject(tt.actor, p); got != tt.want {
				t.Errorf("CanViewProject(%s) = %v, want %v", tt.actor.Role, got, tt.want)
			}
		})
	}
}

func TestCanCreateProject(t *testing.T) {
	if !CanCreateProject(user(1, types.RoleAdmin)) {
		t.Error("admin should be able to create projects")
	}
	if !CanCreateProject(user(2, types.RoleManager)) {
		t.Error("manager should be able to create projects")
	}
	if CanCreateProject(user(3, types.RoleDeveloper)) {
		t.Error("developer should not be able to create projects")
	}
	if CanCreateProject(user(4, types.RoleUser)) {
		t.Error("plain user should not be able to create projects")
	}
}

func TestProjectManagementRequiresOwnership(t *testing.T) {
	p := project(1, 10)

	owner := user(10, types.RoleManager)
	otherManager := user(11, types.RoleManager)
	admin := user(12, types.RoleAdmin)
	developer := user(20, types.RoleDeveloper)

	checks := map[string]func(*models.User, *models.Project) bool{
		"update":            CanUpdateProject,
		"delete":            CanDeleteProject,
		"assign developers": CanAssignDevelopers,
		"remove developer":  CanRemoveDeveloper,
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			if !check(owner, p) {
				t.Errorf("owning manager denied %s", name)
			}
			if check(otherManager, p) {
				t.Errorf("non-owning manager allowed %s", name)
			}
			if !check(admin, p) {
				t.Errorf("admin denied %s", name)
			}
			if check(developer, p) {
				t.Errorf("developer allowed %s", name)
			}
		})
	}
}

func TestCanViewTask(t *testing.T) {
	p := project(1, 10)
	tk := task(1, p, 20)

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"admin", user(1, types.RoleAdmin), true},
		{"managing manager", user(10, types.RoleManager), true},
		{"other manager", user(11, types.RoleManager), false},
		{"assignee", user(20, types.RoleDeveloper), true},
		{"other developer", user(21, types.RoleDeveloper), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewTask(tt.actor, tk); got != tt.want {
				t.Errorf("CanViewTask = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreateTask(t *testing.T) {
	if !CanCreateTask(user(1, types.RoleManager)) {
		t.Error("manager should be able to create tasks")
	}
	if !CanCreateTask(user(2, types.RoleDeveloper)) {
		t.Error("developer should be able to create tasks")
	}
	if CanCreateTask(user(3, types.RoleUser)) {
		t.Error("plain user should not be able to create tasks")
	}
}

func TestCanUpdateTask(t *testing.T) {
	p := project(1, 10)
	tk := task(1, p, 20)

	if !CanUpdateTask(user(10, types.RoleManager), tk) {
		t.Error("managing manager should be able to update the task")
	}
	if !CanUpdateTask(user(20, types.RoleDeveloper), tk) {
		t.Error("assignee should be able to update their task")
	}
	if CanUpdateTask(user(11, types.RoleManager), tk) {
		t.Error("non-owning manager should not be able to update the task")
	}
	if CanUpdateTask(user(21, types.RoleDeveloper), tk) {
		t.Error("unrelated developer should not be able to update the task")
	}
}

func TestCanReassignTaskExcludesAssignee(t *testing.T) {
	p := project(1, 10)
	tk := task(1, p, 20)

	if CanReassignTask(user(20, types.RoleDeveloper), tk) {
		t.Error("assignee should not be able to reassign their task")
	}
	if !CanReassignTask(user(10, types.RoleManager), tk) {
		t.Error("managing manager should be able to reassign the task")
	}
	if !CanReassignTask(user(1, types.RoleAdmin), tk) {
		t.Error("admin should be able to reassign the task")
	}
}

func TestCanDeleteTask(t *testing.T) {
	p := project(1, 10)
	tk := task(1, p, 20)

	if !CanDeleteTask(user(1, types.RoleAdmin), tk) {
		t.Error("admin should be able to delete the task")
	}
	if !CanDeleteTask(user(10, types.RoleManager), tk) {
		t.Error("managing manager should be able to delete the task")
	}
	if CanDeleteTask(user(20, types.RoleDeveloper), tk) {
		t.Error("assignee should not be able to delete the task")
	}
}

func TestCanChangeTaskStatus(t *testing.T) {
	p := project(1, 10)
	tk := task(1, p, 20)

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"admin", user(1, types.RoleAdmin), true},
		{"assignee", user(20, types.RoleDeveloper), true},
		{"managing manager", user(10, types.RoleManager), true},
		{"unassigned developer", user(21, types.RoleDeveloper), false},
		{"other manager", user(11, types.RoleManager), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanChangeTaskStatus(tt.actor, tk); got != tt.want {
				t.Errorf("CanChangeTaskStatus = %v, want %v", got, tt.want)
			}
		})
	}
}
