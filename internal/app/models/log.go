package models

import (
	"time"
)

// Log is a free-text activity entry for a student within a course. Course,
// student and author always share the log's tenant.
type Log struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	Tenant    string    `json:"tenant" db:"tenant"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated on list reads)
	StudentUsername string `json:"studentUsername,omitempty"`
	CreatorUsername string `json:"creatorUsername,omitempty"`
}
