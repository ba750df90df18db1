package dto

import "github.com/mertkaya/courselog/internal/app/models"

// LoginRequest represents a login request within the resolved tenant
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents student self-registration. The role is always
// student; staff accounts are created through the managed user endpoint.
type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=64"`
	Password  string `json:"password" binding:"required,min=8"`
	StudentID string `json:"studentId" binding:"required,studentid"`
}

// UserInfo is the public projection of a user returned by auth endpoints
type UserInfo struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	Tenant    string      `json:"tenant"`
	StudentID *string     `json:"studentId,omitempty"`
}

// TokenResponse is returned on successful login/signup
type TokenResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int      `json:"expiresIn"`
	User      UserInfo `json:"user"`
}

// StatusResponse reports authentication state without ever failing
type StatusResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

// NewUserInfo builds a UserInfo projection from a user model
func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Tenant:    u.Tenant,
		StudentID: u.StudentID,
	}
}
