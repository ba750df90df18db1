package models

import (
	"time"
)

// User defines the user model based on the 'users' table. Usernames are unique
// per tenant, not globally; the same goes for the student identifier.
type User struct {
	ID          int64      `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	Password    string     `json:"-" db:"password"` // Hashed, excluded from JSON
	Role        Role       `json:"role" db:"role"`
	Tenant      string     `json:"tenant" db:"tenant"`
	StudentID   *string    `json:"studentId,omitempty" db:"student_id"` // 8-digit identifier, students only
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
