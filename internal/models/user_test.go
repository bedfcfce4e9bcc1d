package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"mechanic role", RoleMechanic, true},
		{"parts role", RoleParts, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	mechanic := &User{Role: RoleMechanic}
	parts := &User{Role: RoleParts}
	viewer := &User{Role: RoleViewer}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete jobcard", admin, "delete_jobcard", true},
		{"admin can manage users", admin, "manage_users", true},
		{"admin can view jobcards", admin, "view_jobcards", true},

		// Mechanic permissions - operate on assigned jobs
		{"mechanic can view jobcards", mechanic, "view_jobcards", true},
		{"mechanic can update jobcard", mechanic, "update_jobcard", true},
		{"mechanic can submit checklist", mechanic, "submit_checklist", true},
		{"mechanic can complete assignment", mechanic, "complete_assignment", true},
		{"mechanic cannot delete jobcard", mechanic, "delete_jobcard", false},
		{"mechanic cannot manage users", mechanic, "manage_users", false},

		// Parts permissions - no checklist submission
		{"parts can view jobcards", parts, "view_jobcards", true},
		{"parts can update jobcard", parts, "update_jobcard", true},
		{"parts can complete assignment", parts, "complete_assignment", true},
		{"parts cannot submit checklist", parts, "submit_checklist", false},

		// Viewer permissions - read-only access
		{"viewer can view jobcards", viewer, "view_jobcards", true},
		{"viewer cannot update jobcard", viewer, "update_jobcard", false},
		{"viewer cannot delete jobcard", viewer, "delete_jobcard", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}
