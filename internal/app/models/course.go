package models

import (
	"time"
)

// Course represents a course within a tenant. The course owns its membership
// sets: the teacher reference plus the TA and student id lists. User rows keep
// no back-reference, so "my courses" queries go through these sets.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	CourseCode  string    `json:"courseCode" db:"course_code"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Description string    `json:"description" db:"description"`
	Tenant      string    `json:"tenant" db:"tenant"`
	TeacherID   *int64    `json:"teacherId,omitempty" db:"teacher_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Membership sets (populated on detail reads)
	TAIDs      []int64 `json:"taIds,omitempty"`
	StudentIDs []int64 `json:"studentIds,omitempty"`

	// Relations (populated when needed)
	Teacher *User `json:"teacher,omitempty"`
}
