package dto

import "github.com/mertkaya/courselog/internal/app/models"

// CreateUserRequest creates a managed account. Admins may create any role;
// teachers and TAs may only create students. StudentID is required when the
// role is student and must be an 8-digit identifier.
type CreateUserRequest struct {
	Username  string      `json:"username" binding:"required,min=3,max=64"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      models.Role `json:"role" binding:"required"`
	StudentID string      `json:"studentId" binding:"omitempty,studentid"`
}

// UpdateProfileRequest changes the caller's own username or password. A
// password change must prove knowledge of the current one. Role and tenant
// are fixed at creation and cannot be changed here.
type UpdateProfileRequest struct {
	Username        string `json:"username" binding:"omitempty,min=3,max=64"`
	Password        string `json:"password" binding:"omitempty,min=8"`
	CurrentPassword string `json:"currentPassword" binding:"required_with=Password"`
}

// UpdateUserRequest is the admin-side account update: rename a user or reset
// their password. Role and tenant reassignment is not supported; accounts
// needing a different role are recreated.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=64"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

// DashboardResponse carries role-specific summary counts
type DashboardResponse struct {
	Role   models.Role    `json:"role"`
	Tenant string         `json:"tenant"`
	Counts map[string]int `json:"counts"`
}
