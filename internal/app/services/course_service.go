package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mertkaya/courselog/internal/app/auth"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/app/repositories"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// CourseService handles course lifecycle and membership operations
type CourseService struct {
	courseRepo CourseStore
	userRepo   UserStore
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo CourseStore, userRepo UserStore, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// validateCourse validates course data before database operations
func (s *CourseService) validateCourse(req *dto.CreateCourseRequest) error {
	if strings.TrimSpace(req.CourseCode) == "" {
		return fmt.Errorf("%w: course code cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return fmt.Errorf("%w: display name cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// validateMembershipTarget checks that a user may become a member of a
// course. Under normal request flow both records were already resolved
// through the same tenant, so a mismatch means a caller bypassed the scoped
// lookups; it is rejected outright rather than masked as not found.
func validateMembershipTarget(course *models.Course, user *models.User) error {
	if course.Tenant != user.Tenant {
		return apperrors.ErrCrossTenant
	}
	return nil
}

// canManage reports whether the principal may mutate the course's roster.
// Admins manage every course in their tenant; teachers only their own.
func canManage(p *auth.Principal, course *models.Course) bool {
	if p.Role == models.RoleAdmin {
		return true
	}
	return p.Role == models.RoleTeacher && course.TeacherID != nil && *course.TeacherID == p.UserID
}

// Create creates a course. A teacher caller becomes the course's teacher;
// an admin may name one explicitly or leave the course unassigned.
func (s *CourseService) Create(ctx context.Context, p *auth.Principal, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validateCourse(req); err != nil {
		return nil, err
	}

	var teacherID *int64
	switch p.Role {
	case models.RoleTeacher:
		id := p.UserID
		teacherID = &id
	case models.RoleAdmin:
		if req.TeacherID != nil {
			teacher, err := s.resolveTeacher(ctx, p.Tenant, *req.TeacherID)
			if err != nil {
				return nil, err
			}
			teacherID = &teacher.ID
		}
	}

	course := &models.Course{
		CourseCode:  strings.TrimSpace(req.CourseCode),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Description: req.Description,
		Tenant:      p.Tenant,
		TeacherID:   teacherID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("tenant", p.Tenant).
		Str("courseCode", course.CourseCode).
		Str("createdBy", p.Username).
		Msg("Course created")

	return course, nil
}

// resolveTeacher loads a tenant user and checks it actually holds the
// teacher role. Anything else reports not found, matching the scoped-lookup
// policy.
func (s *CourseService) resolveTeacher(ctx context.Context, tenant string, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleTeacher {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// Get retrieves a course visible to the principal, with its roster and
// teacher resolved
func (s *CourseService) Get(ctx context.Context, p *auth.Principal, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, repositories.ScopeFor(p), id)
	if err != nil {
		return nil, err
	}

	if course.TeacherID != nil {
		teacher, err := s.userRepo.GetByID(ctx, p.Tenant, *course.TeacherID)
		if err == nil {
			course.Teacher = teacher
		} else if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("error resolving course teacher: %w", err)
		}
	}

	return course, nil
}

// ListMine retrieves the courses visible to the principal
func (s *CourseService) ListMine(ctx context.Context, p *auth.Principal) ([]*models.Course, error) {
	courses, err := s.courseRepo.ListForScope(ctx, repositories.ScopeFor(p))
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// ListAvailable retrieves tenant courses the student has not joined yet
func (s *CourseService) ListAvailable(ctx context.Context, p *auth.Principal) ([]*models.Course, error) {
	courses, err := s.courseRepo.ListAvailable(ctx, p.Tenant, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving available courses: %w", err)
	}
	return courses, nil
}

// Update applies mutable course fields. Teachers may only update their own
// courses.
func (s *CourseService) Update(ctx context.Context, p *auth.Principal, id int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validateCourse(req); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, id)
	if err != nil {
		return nil, err
	}
	if !canManage(p, course) {
		return nil, apperrors.ErrCourseNotFound
	}

	course.CourseCode = strings.TrimSpace(req.CourseCode)
	course.DisplayName = strings.TrimSpace(req.DisplayName)
	course.Description = req.Description

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Delete removes a course and its memberships
func (s *CourseService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	if err := s.courseRepo.Delete(ctx, p.Tenant, id); err != nil {
		return err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("courseID", id).Str("deletedBy", p.Username).Msg("Course deleted")
	return nil
}

// AssignTeacher sets the course teacher. A course that already has one is
// left alone unless the caller is an admin, who overwrites.
func (s *CourseService) AssignTeacher(ctx context.Context, p *auth.Principal, courseID, teacherID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, courseID)
	if err != nil {
		return nil, err
	}

	if course.TeacherID != nil && p.Role != models.RoleAdmin {
		return nil, apperrors.ErrTeacherAlreadyAssigned
	}

	teacher, err := s.resolveTeacher(ctx, p.Tenant, teacherID)
	if err != nil {
		return nil, err
	}
	if err := validateMembershipTarget(course, teacher); err != nil {
		return nil, err
	}

	if err := s.courseRepo.SetTeacher(ctx, p.Tenant, courseID, &teacher.ID); err != nil {
		return nil, err
	}

	course.TeacherID = &teacher.ID
	course.Teacher = teacher

	s.logger.Info().
		Str("tenant", p.Tenant).
		Int64("courseID", courseID).
		Int64("teacherID", teacher.ID).
		Str("assignedBy", p.Username).
		Msg("Course teacher assigned")

	return course, nil
}

// RemoveTeacher clears the course teacher
func (s *CourseService) RemoveTeacher(ctx context.Context, p *auth.Principal, courseID int64) error {
	course, err := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, courseID)
	if err != nil {
		return err
	}
	if course.TeacherID == nil {
		return apperrors.ErrNotAssigned
	}

	return s.courseRepo.SetTeacher(ctx, p.Tenant, courseID, nil)
}

// AddTA assigns a TA to a course the principal manages
func (s *CourseService) AddTA(ctx context.Context, p *auth.Principal, courseID, userID int64) error {
	course, user, err := s.resolveRosterChange(ctx, p, courseID, userID, models.RoleTA)
	if err != nil {
		return err
	}

	if err := s.courseRepo.AddTA(ctx, course.ID, user.ID); err != nil {
		return err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("courseID", courseID).Int64("userID", userID).Msg("TA assigned")
	return nil
}

// RemoveTA removes a TA from a course the principal manages
func (s *CourseService) RemoveTA(ctx context.Context, p *auth.Principal, courseID, userID int64) error {
	course, user, err := s.resolveRosterChange(ctx, p, courseID, userID, models.RoleTA)
	if err != nil {
		return err
	}

	return s.courseRepo.RemoveTA(ctx, course.ID, user.ID)
}

// AddStudent enrolls a student on behalf of staff
func (s *CourseService) AddStudent(ctx context.Context, p *auth.Principal, courseID, userID int64) error {
	course, user, err := s.resolveStudentRosterChange(ctx, p, courseID, userID)
	if err != nil {
		return err
	}

	if err := s.courseRepo.AddStudent(ctx, course.ID, user.ID); err != nil {
		return err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("courseID", courseID).Int64("userID", userID).Msg("Student added to course")
	return nil
}

// RemoveStudent unenrolls a student on behalf of staff
func (s *CourseService) RemoveStudent(ctx context.Context, p *auth.Principal, courseID, userID int64) error {
	course, user, err := s.resolveStudentRosterChange(ctx, p, courseID, userID)
	if err != nil {
		return err
	}

	return s.courseRepo.RemoveStudent(ctx, course.ID, user.ID)
}

// resolveStudentRosterChange loads and checks a student membership mutation.
// Unlike TA roster changes, TAs may manage the student set of courses they
// assist, so admission rides on the scoped course lookup: admins reach every
// tenant course, teachers their own, TAs the ones they assist.
func (s *CourseService) resolveStudentRosterChange(ctx context.Context, p *auth.Principal, courseID, userID int64) (*models.Course, *models.User, error) {
	if p.Role == models.RoleStudent {
		return nil, nil, apperrors.ErrPermissionDenied
	}

	course, err := s.courseRepo.GetByID(ctx, repositories.ScopeFor(p), courseID)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, p.Tenant, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, nil, apperrors.ErrUserNotFound
	}
	if err := validateMembershipTarget(course, user); err != nil {
		return nil, nil, err
	}

	return course, user, nil
}

// resolveRosterChange loads and checks everything a roster mutation needs:
// the course must be manageable by the caller, the target user must exist in
// the tenant with the expected role, and the tenants must agree.
func (s *CourseService) resolveRosterChange(ctx context.Context, p *auth.Principal, courseID, userID int64, role models.Role) (*models.Course, *models.User, error) {
	course, err := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, courseID)
	if err != nil {
		return nil, nil, err
	}
	if !canManage(p, course) {
		return nil, nil, apperrors.ErrCourseNotFound
	}

	user, err := s.userRepo.GetByID(ctx, p.Tenant, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.Role != role {
		return nil, nil, apperrors.ErrUserNotFound
	}
	if err := validateMembershipTarget(course, user); err != nil {
		return nil, nil, err
	}

	return course, user, nil
}

// Enroll self-enrolls the student principal
func (s *CourseService) Enroll(ctx context.Context, p *auth.Principal, courseID int64) error {
	course, err := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, courseID)
	if err != nil {
		return err
	}

	if err := s.courseRepo.AddStudent(ctx, course.ID, p.UserID); err != nil {
		return err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("courseID", courseID).Str("username", p.Username).Msg("Student enrolled")
	return nil
}

// Unenroll self-unenrolls the student principal
func (s *CourseService) Unenroll(ctx context.Context, p *auth.Principal, courseID int64) error {
	course, err := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, courseID)
	if err != nil {
		return err
	}

	return s.courseRepo.RemoveStudent(ctx, course.ID, p.UserID)
}

// Members lists the roster of one kind for a course the principal can see
func (s *CourseService) Members(ctx context.Context, p *auth.Principal, courseID int64, kind string) ([]*models.User, error) {
	course, err := s.courseRepo.GetByID(ctx, repositories.ScopeFor(p), courseID)
	if err != nil {
		return nil, err
	}

	members, err := s.courseRepo.ListMembers(ctx, course.ID, kind)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course members: %w", err)
	}
	return members, nil
}
