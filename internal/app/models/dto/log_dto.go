package dto

// CreateLogRequest creates a log about a student in a course (staff path)
type CreateLogRequest struct {
	StudentID int64  `json:"studentId" binding:"required,gt=0"`
	CourseID  int64  `json:"courseId" binding:"required,gt=0"`
	Content   string `json:"content" binding:"required,max=4096"`
}

// CreateOwnLogRequest creates a log about the calling student (course-nested path)
type CreateOwnLogRequest struct {
	Content string `json:"content" binding:"required,max=4096"`
}

// UpdateLogRequest replaces a log's content
type UpdateLogRequest struct {
	Content string `json:"content" binding:"required,max=4096"`
}
