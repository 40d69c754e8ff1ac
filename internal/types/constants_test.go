package types

import "testing"

func TestValidStatus(t *testing.T) {
	for _, status := range Statuses {
		if !ValidStatus(status) {
			t.Errorf("expected %q to be a valid status", status)
		}
	}

	for _, status := range []string{"bogus", "done", "Pending", ""} {
		if ValidStatus(status) {
			t.Errorf("expected %q to be rejected", status)
		}
	}
}

func TestValidStatusUpdateExcludesBlocked(t *testing.T) {
	if ValidStatusUpdate(StatusBlocked) {
		t.Error("blocked must not be settable through the status-update whitelist")
	}

	for _, status := range []string{StatusPending, StatusInProgress, StatusCompleted} {
		if !ValidStatusUpdate(status) {
			t.Errorf("expected %q to be an allowed status update", status)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, priority := range Priorities {
		if !ValidPriority(priority) {
			t.Errorf("expected %q to be a valid priority", priority)
		}
	}

	if ValidPriority("critical") {
		t.Error("expected unknown priority to be rejected")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range Roles {
		if !ValidRole(role) {
			t.Errorf("expected %q to be a valid role", role)
		}
	}

	if ValidRole("superuser") {
		t.Error("expected unknown role to be rejected")
	}
}
