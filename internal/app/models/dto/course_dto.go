package dto

// CreateCourseRequest represents a course creation request. TeacherID is only
// honored for admin callers; teachers are assigned to their own courses.
type CreateCourseRequest struct {
	CourseCode  string `json:"courseCode" binding:"required,min=2,max=32"`
	DisplayName string `json:"displayName" binding:"required,min=2,max=128"`
	Description string `json:"description" binding:"max=2048"`
	TeacherID   *int64 `json:"teacherId,omitempty"`
}

// AssignTeacherRequest assigns a teacher to a course
type AssignTeacherRequest struct {
	TeacherID int64 `json:"teacherId" binding:"required,gt=0"`
}

// MembershipRequest adds or removes a TA/student from a course's membership set
type MembershipRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
}
