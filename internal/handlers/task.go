package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/policy"
	"github.com/taskforge-dev/taskforge/internal/services"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

const dateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high urgent"`
	Status      string `json:"status" binding:"omitempty,oneof=pending in_progress completed blocked"`
	Deadline    string `json:"deadline" binding:"required"`
	ProjectID   uint   `json:"project_id" binding:"required"`
	AssignedTo  uint   `json:"assigned_to" binding:"required"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Deadline    *string `json:"deadline"`
	AssignedTo  *uint   `json:"assigned_to"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed"`
}

type TaskResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    string              `json:"priority"`
	Status      string              `json:"status"`
	Deadline    string              `json:"deadline"`
	ProjectID   uint                `json:"project_id"`
	AssignedTo  uint                `json:"assigned_to"`
	CreatedBy   uint                `json:"created_by"`
	Assignee    *types.UserResponse `json:"assignee,omitempty"`
	Creator     *types.UserResponse `json:"creator,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func taskService() *services.TaskService {
	return services.NewTaskService(db.DB, services.NewTaskNotifier(db.DB))
}

func ListTasks(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	tasks, err := taskService().ListForUser(actor)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Success", taskResponses(tasks))
}

func ListProjectTasks(ctx *gin.Context) {
	actor, project, ok := fetchProjectForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanViewProject(actor, project) {
		respondForbidden(ctx)
		return
	}

	tasks, err := taskService().ListForProject(project.ID, actor)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Success", taskResponses(tasks))
}

func SearchTasks(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	filters := services.TaskFilters{
		Search:   ctx.Query("search"),
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
	}

	if from := ctx.Query("deadline_from"); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			respondError(ctx, http.StatusUnprocessableEntity, "Validation Error",
				map[string]string{"deadline_from": "must be a valid date (YYYY-MM-DD)"})
			return
		}
		filters.DeadlineFrom = &parsed
	}

	if to := ctx.Query("deadline_to"); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			respondError(ctx, http.StatusUnprocessableEntity, "Validation Error",
				map[string]string{"deadline_to": "must be a valid date (YYYY-MM-DD)"})
			return
		}
		// Inclusive upper bound: cover the whole day.
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		filters.DeadlineTo = &endOfDay
	}

	tasks, err := taskService().Search(actor, filters)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Success", taskResponses(tasks))
}

func GetTask(ctx *gin.Context) {
	actor, task, ok := fetchTaskForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanViewTask(actor, task) {
		respondForbidden(ctx)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Success", taskResponse(task))
}

func CreateTask(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if !policy.CanCreateTask(actor) {
		respondForbidden(ctx)
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	deadline, err := time.Parse(dateLayout, req.Deadline)

	if err != nil {
		respondError(ctx, http.StatusUnprocessableEntity, "Validation Error",
			map[string]string{"deadline": "must be a valid date (YYYY-MM-DD)"})
		return
	}

	task, err := taskService().Create(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Deadline:    deadline,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
	}, actor)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusCreated, "Task created successfully.", taskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	actor, task, ok := fetchTaskForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanUpdateTask(actor, task) {
		respondForbidden(ctx)
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	// Assignees may edit their own task but not hand it to someone else.
	if req.AssignedTo != nil && *req.AssignedTo != task.AssignedTo && !policy.CanReassignTask(actor, task) {
		respondForbidden(ctx)
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	}

	if req.Deadline != nil {
		deadline, err := time.Parse(dateLayout, *req.Deadline)
		if err != nil {
			respondError(ctx, http.StatusUnprocessableEntity, "Validation Error",
				map[string]string{"deadline": "must be a valid date (YYYY-MM-DD)"})
			return
		}
		input.Deadline = &deadline
	}

	updated, err := taskService().Update(task, input)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Task updated successfully.", taskResponse(updated))
}

func UpdateTaskStatus(ctx *gin.Context) {
	var req UpdateTaskStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	actor, task, ok := fetchTaskForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanChangeTaskStatus(actor, task) {
		respondForbidden(ctx)
		return
	}

	updated, err := taskService().UpdateStatus(task, req.Status)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Task status updated successfully.", taskResponse(updated))
}

func DeleteTask(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	id, err := parseIDParam(ctx, "id")

	if err != nil {
		respondError(ctx, http.StatusNotFound, "Not Found", nil)
		return
	}

	// Fetch including trashed so a repeat delete answers 410, not 404.
	task, err := taskService().GetWithTrashed(id)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if !policy.CanDeleteTask(actor, task) {
		respondForbidden(ctx)
		return
	}

	if err := taskService().Delete(task); err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Task deleted successfully.", nil)
}

func fetchTaskForActor(ctx *gin.Context) (*models.User, *models.Task, bool) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return nil, nil, false
	}

	id, err := parseIDParam(ctx, "id")

	if err != nil {
		respondError(ctx, http.StatusNotFound, "Not Found", nil)
		return nil, nil, false
	}

	task, err := taskService().Get(id)

	if err != nil {
		respondServiceError(ctx, err)
		return nil, nil, false
	}

	return actor, task, true
}

func taskResponses(tasks []models.Task) []TaskResponse {
	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, taskResponse(&tasks[i]))
	}
	return response
}

func taskResponse(task *models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		Deadline:    task.Deadline.Format(dateLayout),
		ProjectID:   task.ProjectID,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Assignee.ID != 0 {
		assignee := userResponse(&task.Assignee)
		response.Assignee = &assignee
	}

	if task.Creator.ID != 0 {
		creator := userResponse(&task.Creator)
		response.Creator = &creator
	}

	return response
}
