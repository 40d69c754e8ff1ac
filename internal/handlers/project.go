package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/policy"
	"github.com/taskforge-dev/taskforge/internal/services"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

type CreateProjectRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description"`
	ManagerID    *uint  `json:"manager_id"`
	DeveloperIDs []uint `json:"developer_ids"`
}

type UpdateProjectRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Description  *string `json:"description"`
	ManagerID    *uint   `json:"manager_id"`
	DeveloperIDs *[]uint `json:"developer_ids"`
}

type AssignDevelopersRequest struct {
	DeveloperIDs []uint `json:"developer_ids" binding:"required"`
}

type ProjectResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	ManagerID   uint                 `json:"manager_id"`
	Manager     *types.UserResponse  `json:"manager,omitempty"`
	Developers  []types.UserResponse `json:"developers"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func projectService() *services.ProjectService {
	return services.NewProjectService(db.DB)
}

func ListProjects(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	projects, err := projectService().ListForUser(actor)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	respondSuccess(ctx, http.StatusOK, "Success", response)
}

func GetProject(ctx *gin.Context) {
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

	project, err := projectService().Get(id)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if !policy.CanViewProject(actor, project) {
		respondForbidden(ctx)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Success", projectResponse(project))
}

func CreateProject(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if !policy.CanCreateProject(actor) {
		respondForbidden(ctx)
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	project, err := projectService().Create(services.CreateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		ManagerID:    req.ManagerID,
		DeveloperIDs: req.DeveloperIDs,
	}, actor)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusCreated, "Project created successfully.", projectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	actor, project, ok := fetchProjectForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanUpdateProject(actor, project) {
		respondForbidden(ctx)
		return
	}

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	updated, err := projectService().Update(project, services.UpdateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		ManagerID:    req.ManagerID,
		DeveloperIDs: req.DeveloperIDs,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Project updated successfully.", projectResponse(updated))
}

func DeleteProject(ctx *gin.Context) {
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
	project, err := projectService().GetWithTrashed(id)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if !policy.CanDeleteProject(actor, project) {
		respondForbidden(ctx)
		return
	}

	if err := projectService().Delete(project); err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Project deleted successfully.", nil)
}

func AssignDevelopers(ctx *gin.Context) {
	actor, project, ok := fetchProjectForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanAssignDevelopers(actor, project) {
		respondForbidden(ctx)
		return
	}

	var req AssignDevelopersRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	if err := projectService().AssignDevelopers(project, req.DeveloperIDs); err != nil {
		respondServiceError(ctx, err)
		return
	}

	updated, err := projectService().Get(project.ID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Developers assigned successfully.", projectResponse(updated))
}

func RemoveDeveloper(ctx *gin.Context) {
	actor, project, ok := fetchProjectForActor(ctx)

	if !ok {
		return
	}

	if !policy.CanRemoveDeveloper(actor, project) {
		respondForbidden(ctx)
		return
	}

	developerID, err := parseIDParam(ctx, "developer_id")

	if err != nil {
		respondError(ctx, http.StatusNotFound, "Not Found", nil)
		return
	}

	removed, err := projectService().RemoveDeveloper(project, developerID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondSuccess(ctx, http.StatusOK, "Developer removed successfully.", gin.H{"removed": removed})
}

// fetchProjectForActor resolves the authenticated actor and the :id project,
// writing the error response itself when either is missing.
func fetchProjectForActor(ctx *gin.Context) (*models.User, *models.Project, bool) {
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

	project, err := projectService().Get(id)

	if err != nil {
		respondServiceError(ctx, err)
		return nil, nil, false
	}

	return actor, project, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func projectResponse(project *models.Project) ProjectResponse {
	developers := make([]types.UserResponse, 0, len(project.Developers))
	for i := range project.Developers {
		developers = append(developers, userResponse(&project.Developers[i]))
	}

	response := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		ManagerID:   project.ManagerID,
		Developers:  developers,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Manager.ID != 0 {
		manager := userResponse(&project.Manager)
		response.Manager = &manager
	}

	return response
}
