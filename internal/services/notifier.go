package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/logger"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// Notifier delivers out-of-band notifications after a mutation has committed.
// Implementations must never fail the calling mutation: delivery errors are
// logged and swallowed.
type Notifier interface {
	TaskAssigned(task *models.Task, assignee *models.User)
}

// TaskNotifier records notifications and pushes them to connected assignees.
type TaskNotifier struct {
	DB *gorm.DB
}

func NewTaskNotifier(db *gorm.DB) *TaskNotifier {
	return &TaskNotifier{DB: db}
}

func (n *TaskNotifier) TaskAssigned(task *models.Task, assignee *models.User) {
	message := fmt.Sprintf("You have been assigned to task %q", task.Title)

	payload, err := json.Marshal(map[string]interface{}{
		"task_id":    task.ID,
		"title":      task.Title,
		"priority":   task.Priority,
		"deadline":   task.Deadline.Format("2006-01-02"),
		"project_id": task.ProjectID,
	})
	if err != nil {
		logger.Error("failed to encode notification payload", "task_id", task.ID, "error", err)
		return
	}

	notification := models.Notification{
		UserID:  assignee.ID,
		TaskID:  task.ID,
		Type:    types.NotificationTaskAssigned,
		Message: message,
		Data:    payload,
	}

	if err := n.DB.Create(&notification).Error; err != nil {
		logger.Error("failed to record notification", "task_id", task.ID, "user_id", assignee.ID, "error", err)
		return
	}

	PushToUser(assignee.ID, map[string]interface{}{
		"type":    types.NotificationTaskAssigned,
		"message": message,
		"task_id": task.ID,
	})
}
