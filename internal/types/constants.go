package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// User roles
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleDeveloper = "developer"
	RoleUser      = "user"
)

// Task statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const NotificationTaskAssigned = "task_assigned"

var Roles = []string{RoleAdmin, RoleManager, RoleDeveloper, RoleUser}

var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusBlocked}

// UpdatableStatuses are the values accepted by the status-update endpoint.
// "blocked" is storable and filterable but not settable through it.
var UpdatableStatuses = []string{StatusPending, StatusInProgress, StatusCompleted}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func ValidRole(role string) bool {
	return contains(Roles, role)
}

func ValidStatus(status string) bool {
	return contains(Statuses, status)
}

func ValidStatusUpdate(status string) bool {
	return contains(UpdatableStatuses, status)
}

func ValidPriority(priority string) bool {
	return contains(Priorities, priority)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
