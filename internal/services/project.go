package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/models"
)

type ProjectService struct {
	DB *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{DB: db}
}

type CreateProjectInput struct {
	Name         string
	Description  string
	ManagerID    *uint
	DeveloperIDs []uint
}

type UpdateProjectInput struct {
	Name         *string
	Description  *string
	ManagerID    *uint
	DeveloperIDs *[]uint
}

// ListForUser returns every project for managers and admins, and only the
// projects a developer belongs to otherwise. Manager and developer set are
// preloaded.
func (s *ProjectService) ListForUser(user *models.User) ([]models.Project, error) {
	query := s.DB.Preload("Manager").Preload("Developers").Order("created_at DESC")

	if !user.IsManager() {
		query = query.
			Joins("JOIN project_developers ON project_developers.project_id = projects.id").
			Where("project_developers.user_id = ?", user.ID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// Get fetches a project with its relations. Authorization is the caller's job.
func (s *ProjectService) Get(id uint) (*models.Project, error) {
	var project models.Project

	err := s.DB.Preload("Manager").Preload("Developers").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// Create persists the project and sets its developer membership in one
// transaction. ManagerID defaults to the actor.
func (s *ProjectService) Create(input CreateProjectInput, actor *models.User) (*models.Project, error) {
	managerID := actor.ID
	if input.ManagerID != nil {
		managerID = *input.ManagerID
	}

	if err := s.ensureUserExists(managerID, "manager_id"); err != nil {
		return nil, err
	}

	developers, err := s.fetchDevelopers(input.DeveloperIDs)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		ManagerID:   managerID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		if len(developers) > 0 {
			if err := tx.Model(&project).Association("Developers").Replace(developers); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(project.ID)
}

// Update applies a partial update; a present DeveloperIDs slice replaces the
// full membership set atomically with the field changes.
func (s *ProjectService) Update(project *models.Project, input UpdateProjectInput) (*models.Project, error) {
	if input.ManagerID != nil {
		if err := s.ensureUserExists(*input.ManagerID, "manager_id"); err != nil {
			return nil, err
		}
	}

	var developers []models.User
	if input.DeveloperIDs != nil {
		var err error
		developers, err = s.fetchDevelopers(*input.DeveloperIDs)
		if err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ManagerID != nil {
		updates["manager_id"] = *input.ManagerID
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(project).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.DeveloperIDs != nil {
			if err := tx.Model(project).Association("Developers").Replace(developers); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(project.ID)
}

// GetWithTrashed fetches a project even when it has been soft-deleted, so
// callers can distinguish "gone" from "never existed".
func (s *ProjectService) GetWithTrashed(id uint) (*models.Project, error) {
	var project models.Project

	err := s.DB.Unscoped().Preload("Manager").Preload("Developers").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// Delete soft-deletes the project. A second delete reports ErrGone rather
// than silently succeeding.
func (s *ProjectService) Delete(project *models.Project) error {
	if project.DeletedAt.Valid {
		return ErrGone
	}

	return s.DB.Delete(project).Error
}

// AssignDevelopers replaces the full membership set with developerIDs.
func (s *ProjectService) AssignDevelopers(project *models.Project, developerIDs []uint) error {
	developers, err := s.fetchDevelopers(developerIDs)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(project).Association("Developers").Replace(developers)
	})
}

// RemoveDeveloper drops one membership row and returns how many rows were
// removed. Removing an absent developer is not an error.
func (s *ProjectService) RemoveDeveloper(project *models.Project, developerID uint) (int64, error) {
	result := s.DB.Exec(
		"DELETE FROM project_developers WHERE project_id = ? AND user_id = ?",
		project.ID, developerID,
	)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (s *ProjectService) ensureUserExists(id uint, field string) error {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newValidationError(field, fmt.Sprintf("user %d does not exist", id))
	}
	return nil
}

// fetchDevelopers resolves developer ids to users, rejecting unknown ids.
func (s *ProjectService) fetchDevelopers(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	if len(users) != len(uniqueIDs(ids)) {
		return nil, newValidationError("developer_ids", "one or more developer ids do not exist")
	}

	return users, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
