package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	for _, model := range []interface{}{
		&models.User{}, &models.AccessToken{}, &models.Project{}, &models.Task{}, &models.Notification{},
	} {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	for _, table := range []string{"notifications", "tasks", "project_developers", "projects", "access_tokens", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &user
}

type recordedAssignment struct {
	taskID     uint
	assigneeID uint
}

type recordingNotifier struct {
	calls []recordedAssignment
}

func (n *recordingNotifier) TaskAssigned(task *models.Task, assignee *models.User) {
	n.calls = append(n.calls, recordedAssignment{taskID: task.ID, assigneeID: assignee.ID})
}

func TestProjectMembershipReplacement(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)
	d1 := createUser(t, db, "dev1", types.RoleDeveloper)
	d2 := createUser(t, db, "dev2", types.RoleDeveloper)
	d3 := createUser(t, db, "dev3", types.RoleDeveloper)

	project, err := svc.Create(CreateProjectInput{
		Name:         "replacement",
		DeveloperIDs: []uint{d1.ID, d2.ID},
	}, manager)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if len(project.Developers) != 2 {
		t.Fatalf("expected 2 developers after create, got %d", len(project.Developers))
	}

	// Assigning a new set replaces membership entirely, it does not union.
	if err := svc.AssignDevelopers(project, []uint{d2.ID, d3.ID}); err != nil {
		t.Fatalf("assign developers: %v", err)
	}

	reloaded, err := svc.Get(project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}

	got := make(map[uint]bool)
	for _, dev := range reloaded.Developers {
		got[dev.ID] = true
	}
	if len(got) != 2 || !got[d2.ID] || !got[d3.ID] {
		t.Fatalf("expected membership {%d, %d}, got %v", d2.ID, d3.ID, got)
	}

	removed, err := svc.RemoveDeveloper(reloaded, d3.ID)
	if err != nil {
		t.Fatalf("remove developer: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 row removed, got %d", removed)
	}

	// Removing an absent developer reports zero rows, not an error.
	removed, err = svc.RemoveDeveloper(reloaded, d3.ID)
	if err != nil {
		t.Fatalf("remove absent developer: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 rows removed on repeat, got %d", removed)
	}
}

func TestProjectCreateRollsBackOnBadDevelopers(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)

	_, err := svc.Create(CreateProjectInput{
		Name:         "doomed",
		DeveloperIDs: []uint{99999},
	}, manager)
	if err == nil {
		t.Fatal("expected creation with unknown developer ids to fail")
	}

	var count int64
	if err := db.Model(&models.Project{}).Where("name = ?", "doomed").Count(&count).Error; err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no project row after failed create, found %d", count)
	}
}

func TestProjectDoubleDeleteReportsGone(t *testing.T) {
	db := setupDB(t)
	svc := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)

	project, err := svc.Create(CreateProjectInput{Name: "ephemeral"}, manager)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	fetched, err := svc.GetWithTrashed(project.ID)
	if err != nil {
		t.Fatalf("fetch project: %v", err)
	}
	if err := svc.Delete(fetched); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	fetched, err = svc.GetWithTrashed(project.ID)
	if err != nil {
		t.Fatalf("fetch trashed project: %v", err)
	}
	if err := svc.Delete(fetched); err != ErrGone {
		t.Fatalf("second delete = %v, want ErrGone", err)
	}

	// The default scope must hide the soft-deleted row.
	if _, err := svc.Get(project.ID); err != ErrNotFound {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestTaskAssignmentNotifications(t *testing.T) {
	db := setupDB(t)

	notifier := &recordingNotifier{}
	tasks := NewTaskService(db, notifier)
	projects := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)
	u := createUser(t, db, "u", types.RoleDeveloper)
	v := createUser(t, db, "v", types.RoleDeveloper)

	project, err := projects.Create(CreateProjectInput{Name: "notify"}, manager)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	task, err := tasks.Create(CreateTaskInput{
		Title:      "wire the notifier",
		Priority:   types.PriorityHigh,
		Deadline:   time.Now().Add(48 * time.Hour),
		ProjectID:  project.ID,
		AssignedTo: u.ID,
	}, manager)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if len(notifier.calls) != 1 || notifier.calls[0].assigneeID != u.ID {
		t.Fatalf("expected exactly one notification to %d, got %v", u.ID, notifier.calls)
	}

	// Re-stating the same assignee is not a reassignment.
	if _, err := tasks.Update(task, UpdateTaskInput{AssignedTo: &u.ID}); err != nil {
		t.Fatalf("no-op reassign: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected no notification for unchanged assignee, got %d calls", len(notifier.calls))
	}

	if _, err := tasks.Update(task, UpdateTaskInput{AssignedTo: &v.ID}); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if len(notifier.calls) != 2 || notifier.calls[1].assigneeID != v.ID {
		t.Fatalf("expected one notification to %d, got %v", v.ID, notifier.calls)
	}
}

func TestTaskStatusFlatSet(t *testing.T) {
	db := setupDB(t)

	tasks := NewTaskService(db, nil)
	projects := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)
	dev := createUser(t, db, "dev", types.RoleDeveloper)

	project, err := projects.Create(CreateProjectInput{Name: "statuses"}, manager)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	task, err := tasks.Create(CreateTaskInput{
		Title:      "flat state set",
		Priority:   types.PriorityLow,
		Deadline:   time.Now().Add(24 * time.Hour),
		ProjectID:  project.ID,
		AssignedTo: dev.ID,
	}, manager)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if task.Status != types.StatusPending {
		t.Fatalf("status defaults to %q, got %q", types.StatusPending, task.Status)
	}

	// No forward-only constraint: completed then back to pending.
	updated, err := tasks.UpdateStatus(task, types.StatusCompleted)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if updated.Status != types.StatusCompleted {
		t.Fatalf("status = %q, want completed", updated.Status)
	}

	updated, err = tasks.UpdateStatus(updated, types.StatusPending)
	if err != nil {
		t.Fatalf("set pending: %v", err)
	}
	if updated.Status != types.StatusPending {
		t.Fatalf("status = %q, want pending", updated.Status)
	}

	if _, err := tasks.UpdateStatus(updated, types.StatusBlocked); err == nil {
		t.Fatal("expected blocked to be rejected by the status-update whitelist")
	}
}

func TestTaskVisibilityScoping(t *testing.T) {
	db := setupDB(t)

	tasks := NewTaskService(db, nil)
	projects := NewProjectService(db)

	admin := createUser(t, db, "admin", types.RoleAdmin)
	m1 := createUser(t, db, "m1", types.RoleManager)
	m2 := createUser(t, db, "m2", types.RoleManager)
	x := createUser(t, db, "x", types.RoleDeveloper)
	y := createUser(t, db, "y", types.RoleDeveloper)

	p1, err := projects.Create(CreateProjectInput{Name: "p1", DeveloperIDs: []uint{x.ID}}, m1)
	if err != nil {
		t.Fatalf("create p1: %v", err)
	}
	p2, err := projects.Create(CreateProjectInput{Name: "p2", DeveloperIDs: []uint{y.ID}}, m2)
	if err != nil {
		t.Fatalf("create p2: %v", err)
	}

	deadline := time.Now().Add(72 * time.Hour)

	for _, tc := range []struct {
		title     string
		projectID uint
		assignee  uint
	}{
		{"fix login page", p1.ID, x.ID},
		{"review api docs", p1.ID, x.ID},
		{"migrate database", p2.ID, y.ID},
	} {
		if _, err := tasks.Create(CreateTaskInput{
			Title:      tc.title,
			Priority:   types.PriorityMedium,
			Deadline:   deadline,
			ProjectID:  tc.projectID,
			AssignedTo: tc.assignee,
		}, m1); err != nil {
			t.Fatalf("create task %q: %v", tc.title, err)
		}
	}

	adminTasks, err := tasks.ListForUser(admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminTasks) != 3 {
		t.Errorf("admin sees %d tasks, want 3", len(adminTasks))
	}

	m1Tasks, err := tasks.ListForUser(m1)
	if err != nil {
		t.Fatalf("manager list: %v", err)
	}
	if len(m1Tasks) != 2 {
		t.Errorf("m1 sees %d tasks, want 2", len(m1Tasks))
	}

	xTasks, err := tasks.ListForUser(x)
	if err != nil {
		t.Fatalf("developer list: %v", err)
	}
	if len(xTasks) != 2 {
		t.Errorf("x sees %d tasks, want 2", len(xTasks))
	}

	yTasks, err := tasks.ListForProject(p2.ID, y)
	if err != nil {
		t.Fatalf("project list: %v", err)
	}
	if len(yTasks) != 1 {
		t.Errorf("y sees %d tasks in p2, want 1", len(yTasks))
	}

	// Search is scoped the same way and matches substrings case-insensitively.
	found, err := tasks.Search(m1, TaskFilters{Search: "LOGIN"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Title != "fix login page" {
		t.Errorf("search for LOGIN returned %d results", len(found))
	}

	empty, err := tasks.Search(m1, TaskFilters{Status: types.StatusCompleted})
	if err != nil {
		t.Fatalf("search completed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result for completed filter, got %d", len(empty))
	}

	if _, err := tasks.Search(m1, TaskFilters{Status: "bogus"}); err == nil {
		t.Fatal("expected a validation error for a bogus status filter")
	}
}

func TestTaskCreateRejectsPastDeadline(t *testing.T) {
	db := setupDB(t)

	tasks := NewTaskService(db, nil)
	projects := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)
	dev := createUser(t, db, "dev", types.RoleDeveloper)

	project, err := projects.Create(CreateProjectInput{Name: "deadlines"}, manager)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	_, err = tasks.Create(CreateTaskInput{
		Title:      "too late",
		Priority:   types.PriorityLow,
		Deadline:   time.Now().Add(-48 * time.Hour),
		ProjectID:  project.ID,
		AssignedTo: dev.ID,
	}, manager)

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, present := verr.Fields["deadline"]; !present {
		t.Errorf("expected a deadline field error, got %v", verr.Fields)
	}
}

func TestTaskDoubleDeleteReportsGone(t *testing.T) {
	db := setupDB(t)

	tasks := NewTaskService(db, nil)
	projects := NewProjectService(db)

	manager := createUser(t, db, "manager", types.RoleManager)
	dev := createUser(t, db, "dev", types.RoleDeveloper)

	project, err := projects.Create(CreateProjectInput{Name: "cleanup"}, manager)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	task, err := tasks.Create(CreateTaskInput{
		Title:      "short lived",
		Priority:   types.PriorityLow,
		Deadline:   time.Now().Add(24 * time.Hour),
		ProjectID:  project.ID,
		AssignedTo: dev.ID,
	}, manager)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	fetched, err := tasks.GetWithTrashed(task.ID)
	if err != nil {
		t.Fatalf("fetch task: %v", err)
	}
	if err := tasks.Delete(fetched); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	fetched, err = tasks.GetWithTrashed(task.ID)
	if err != nil {
		t.Fatalf("fetch trashed task: %v", err)
	}
	if err := tasks.Delete(fetched); err != ErrGone {
		t.Fatalf("second delete = %v, want ErrGone", err)
	}
}
