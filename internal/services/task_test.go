package services

import (
	"testing"
	"time"
)

func TestTaskFiltersValidate(t *testing.T) {
	tests := []struct {
		name      string
		filters   TaskFilters
		wantField string
	}{
		{"empty filters", TaskFilters{}, ""},
		{"valid status", TaskFilters{Status: "in_progress"}, ""},
		{"valid priority", TaskFilters{Priority: "urgent"}, ""},
		{"bogus status", TaskFilters{Status: "bogus"}, "status"},
		{"bogus priority", TaskFilters{Priority: "critical"}, "priority"},
		{"blocked is filterable", TaskFilters{Status: "blocked"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := tt.filters.Validate()

			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("expected filters to be valid, got %v", verr.Fields)
				}
				return
			}

			if verr == nil {
				t.Fatalf("expected a validation error on %q", tt.wantField)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("expected error on field %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestShouldNotifyAssignment(t *testing.T) {
	tests := []struct {
		name     string
		previous uint
		current  uint
		want     bool
	}{
		{"new assignee", 0, 5, true},
		{"reassigned", 5, 6, true},
		{"unchanged", 5, 5, false},
		{"cleared", 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldNotifyAssignment(tt.previous, tt.current); got != tt.want {
				t.Errorf("ShouldNotifyAssignment(%d, %d) = %v, want %v", tt.previous, tt.current, got, tt.want)
			}
		})
	}
}

func TestDeadlineTodayOrLater(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     bool
	}{
		{"today at midnight", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), true},
		{"tomorrow", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), false},
		{"far future", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeadlineTodayOrLater(tt.deadline, now); got != tt.want {
				t.Errorf("DeadlineTodayOrLater(%v) = %v, want %v", tt.deadline, got, tt.want)
			}
		})
	}
}
