package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

type TaskService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewTaskService(db *gorm.DB, notifier Notifier) *TaskService {
	return &TaskService{DB: db, Notifier: notifier}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	Deadline    time.Time
	ProjectID   uint
	AssignedTo  uint
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	Deadline    *time.Time
	AssignedTo  *uint
}

// TaskFilters are the supported search criteria. Zero values mean "no filter".
type TaskFilters struct {
	Search       string
	Status       string
	Priority     string
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
}

// Validate rejects enum filter values outside the accepted sets.
func (f *TaskFilters) Validate() *ValidationError {
	fields := make(map[string]string)

	if f.Status != "" && !types.ValidStatus(f.Status) {
		fields["status"] = fmt.Sprintf("status must be one of: %v", types.Statuses)
	}
	if f.Priority != "" && !types.ValidPriority(f.Priority) {
		fields["priority"] = fmt.Sprintf("priority must be one of: %v", types.Priorities)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ListForUser scopes tasks by role: admins see everything, managers the
// tasks of projects they manage, everyone else their own assignments.
func (s *TaskService) ListForUser(user *models.User) ([]models.Task, error) {
	var tasks []models.Task

	if err := s.scopeForUser(s.taskQuery(), user).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListForProject applies the same scoping within a single project;
// non-managers only see their own assigned tasks.
func (s *TaskService) ListForProject(projectID uint, user *models.User) ([]models.Task, error) {
	query := s.taskQuery().Where("project_id = ?", projectID)

	if !user.IsManager() {
		query = query.Where("assigned_to = ?", user.ID)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Search filters tasks and then applies the role-based visibility scope.
// An empty result is a success, not an error.
func (s *TaskService) Search(user *models.User, filters TaskFilters) ([]models.Task, error) {
	if verr := filters.Validate(); verr != nil {
		return nil, verr
	}

	query := s.taskQuery()

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.DeadlineFrom != nil {
		query = query.Where("deadline >= ?", *filters.DeadlineFrom)
	}
	if filters.DeadlineTo != nil {
		query = query.Where("deadline <= ?", *filters.DeadlineTo)
	}

	var tasks []models.Task
	if err := s.scopeForUser(query, user).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Get fetches a task with its relations. Authorization is the caller's job.
func (s *TaskService) Get(id uint) (*models.Task, error) {
	var task models.Task

	err := s.taskQuery().First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &task, nil
}

// Create persists a new task and notifies the assignee once the write has
// committed. Status defaults to pending; created_by is the actor.
func (s *TaskService) Create(input CreateTaskInput, actor *models.User) (*models.Task, error) {
	if err := s.validateCreate(&input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = types.StatusPending
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      status,
		Deadline:    input.Deadline,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   actor.ID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(task.ID)
	if err != nil {
		return nil, err
	}

	s.notifyAssignment(created)

	return created, nil
}

// Update applies a partial update. A change of assignee triggers one
// notification to the new assignee; an unchanged value triggers none.
func (s *TaskService) Update(task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	if err := s.validateUpdate(&input); err != nil {
		return nil, err
	}

	previousAssignee := task.AssignedTo

	updates := make(map[string]interface{})
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.Deadline != nil {
		updates["deadline"] = *input.Deadline
	}
	if input.AssignedTo != nil {
		updates["assigned_to"] = *input.AssignedTo
	}

	if len(updates) > 0 {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Model(task).Updates(updates).Error
		})
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.Get(task.ID)
	if err != nil {
		return nil, err
	}

	if ShouldNotifyAssignment(previousAssignee, updated.AssignedTo) {
		s.notifyAssignment(updated)
	}

	return updated, nil
}

// UpdateStatus sets the task status, restricted to the update whitelist.
func (s *TaskService) UpdateStatus(task *models.Task, status string) (*models.Task, error) {
	if !types.ValidStatusUpdate(status) {
		return nil, newValidationError("status",
			fmt.Sprintf("status must be one of: %v", types.UpdatableStatuses))
	}

	if err := s.DB.Model(task).Update("status", status).Error; err != nil {
		return nil, err
	}

	return s.Get(task.ID)
}

// GetWithTrashed fetches a task even when it has been soft-deleted.
func (s *TaskService) GetWithTrashed(id uint) (*models.Task, error) {
	var task models.Task

	err := s.DB.Unscoped().Preload("Project").Preload("Assignee").Preload("Creator").First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &task, nil
}

// Delete soft-deletes the task; a second delete reports ErrGone.
func (s *TaskService) Delete(task *models.Task) error {
	if task.DeletedAt.Valid {
		return ErrGone
	}

	return s.DB.Delete(task).Error
}

// ShouldNotifyAssignment decides whether an assignee change warrants a
// notification: only a transition to a different, non-empty assignee does.
func ShouldNotifyAssignment(previous, current uint) bool {
	return current != 0 && current != previous
}

func (s *TaskService) taskQuery() *gorm.DB {
	return s.DB.Preload("Project").Preload("Assignee").Preload("Creator").Order("tasks.created_at DESC")
}

func (s *TaskService) scopeForUser(query *gorm.DB, user *models.User) *gorm.DB {
	if user.IsAdmin() {
		return query
	}

	if user.IsManager() {
		return query.
			Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.manager_id = ? AND projects.deleted_at IS NULL", user.ID)
	}

	return query.Where("assigned_to = ?", user.ID)
}

func (s *TaskService) notifyAssignment(task *models.Task) {
	if s.Notifier == nil || task.AssignedTo == 0 {
		return
	}

	assignee := task.Assignee
	if assignee.ID == 0 {
		assignee = models.User{Model: gorm.Model{ID: task.AssignedTo}}
	}

	s.Notifier.TaskAssigned(task, &assignee)
}

func (s *TaskService) validateCreate(input *CreateTaskInput) error {
	fields := make(map[string]string)

	if input.Title == "" {
		fields["title"] = "the task title is required"
	} else if len(input.Title) > 255 {
		fields["title"] = "the task title may not be greater than 255 characters"
	}
	if !types.ValidPriority(input.Priority) {
		fields["priority"] = fmt.Sprintf("priority must be one of: %v", types.Priorities)
	}
	if input.Status != "" && !types.ValidStatus(input.Status) {
		fields["status"] = fmt.Sprintf("status must be one of: %v", types.Statuses)
	}
	if !DeadlineTodayOrLater(input.Deadline, time.Now()) {
		fields["deadline"] = "the deadline must be today or in the future"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	var count int64
	if err := s.DB.Model(&models.Project{}).Where("id = ?", input.ProjectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newValidationError("project_id", "the selected project is invalid")
	}

	if err := s.DB.Model(&models.User{}).Where("id = ?", input.AssignedTo).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newValidationError("assigned_to", "the assigned user is invalid")
	}

	return nil
}

func (s *TaskService) validateUpdate(input *UpdateTaskInput) error {
	fields := make(map[string]string)

	if input.Title != nil {
		if *input.Title == "" {
			fields["title"] = "the task title may not be empty"
		} else if len(*input.Title) > 255 {
			fields["title"] = "the task title may not be greater than 255 characters"
		}
	}
	if input.Priority != nil && !types.ValidPriority(*input.Priority) {
		fields["priority"] = fmt.Sprintf("priority must be one of: %v", types.Priorities)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if input.AssignedTo != nil {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("id = ?", *input.AssignedTo).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return newValidationError("assigned_to", "the assigned user is invalid")
		}
	}

	return nil
}

// DeadlineTodayOrLater compares only the date parts, in the server's zone.
func DeadlineTodayOrLater(deadline, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !deadline.Before(today)
}
