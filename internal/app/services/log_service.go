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

// LogService handles activity log entries
type LogService struct {
	logRepo    LogStore
	courseRepo CourseStore
	userRepo   UserStore
	logger     zerolog.Logger
}

// NewLogService creates a new LogService
func NewLogService(logRepo LogStore, courseRepo CourseStore, userRepo UserStore, logger zerolog.Logger) *LogService {
	return &LogService{
		logRepo:    logRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func validateLogContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// requireCourseAccess resolves a course the principal may work with. A course
// that exists in the tenant but falls outside the principal's scope is a
// permission failure, not a missing resource, because the caller named it
// explicitly.
func (s *LogService) requireCourseAccess(ctx context.Context, p *auth.Principal, courseID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, repositories.ScopeFor(p), courseID)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		return nil, err
	}

	if _, inTenantErr := s.courseRepo.GetByIDInTenant(ctx, p.Tenant, courseID); inTenantErr == nil {
		return nil, apperrors.ErrPermissionDenied
	}

	return nil, apperrors.ErrCourseNotFound
}

// Create records a log entry about a student, written by staff. The student
// must actually be enrolled in the course.
func (s *LogService) Create(ctx context.Context, p *auth.Principal, req *dto.CreateLogRequest) (*models.Log, error) {
	if err := validateLogContent(req.Content); err != nil {
		return nil, err
	}

	course, err := s.requireCourseAccess(ctx, p, req.CourseID)
	if err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByID(ctx, p.Tenant, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.ErrUserNotFound
	}

	enrolled, err := s.courseRepo.IsStudentEnrolled(ctx, course.ID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperrors.ErrStudentNotInCourse
	}

	log := &models.Log{
		Content:   req.Content,
		CourseID:  course.ID,
		StudentID: student.ID,
		CreatedBy: p.UserID,
		Tenant:    p.Tenant,
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	log.StudentUsername = student.Username
	log.CreatorUsername = p.Username

	s.logger.Info().
		Str("tenant", p.Tenant).
		Int64("courseID", course.ID).
		Int64("studentID", student.ID).
		Str("createdBy", p.Username).
		Msg("Log entry created")

	return log, nil
}

// CreateOwn records a log entry a student writes about themselves. The
// student's scoped course lookup only resolves courses they are enrolled in,
// so an unenrolled course reports not found.
func (s *LogService) CreateOwn(ctx context.Context, p *auth.Principal, courseID int64, req *dto.CreateOwnLogRequest) (*models.Log, error) {
	if err := validateLogContent(req.Content); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, repositories.ScopeFor(p), courseID)
	if err != nil {
		return nil, err
	}

	log := &models.Log{
		Content:   req.Content,
		CourseID:  course.ID,
		StudentID: p.UserID,
		CreatedBy: p.UserID,
		Tenant:    p.Tenant,
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	log.StudentUsername = p.Username
	log.CreatorUsername = p.Username

	return log, nil
}

// List retrieves log entries visible to the principal, optionally filtered
// by course. Naming a course outside the principal's scope is rejected
// rather than silently emptied.
func (s *LogService) List(ctx context.Context, p *auth.Principal, courseID *int64) ([]*models.Log, error) {
	filter := repositories.LogFilter{}
	if courseID != nil {
		if _, err := s.requireCourseAccess(ctx, p, *courseID); err != nil {
			return nil, err
		}
		filter.CourseID = courseID
	}

	logs, err := s.logRepo.List(ctx, repositories.ScopeFor(p), filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving logs: %w", err)
	}
	return logs, nil
}

// ListForStudent retrieves log entries about one student. Students may only
// ask about themselves; staff visibility is narrowed by the scope to courses
// they run or assist.
func (s *LogService) ListForStudent(ctx context.Context, p *auth.Principal, studentID int64) ([]*models.Log, error) {
	if p.Role == models.RoleStudent && studentID != p.UserID {
		return nil, apperrors.NewForbiddenError("students may only view their own logs")
	}

	student, err := s.userRepo.GetByID(ctx, p.Tenant, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.ErrUserNotFound
	}

	logs, err := s.logRepo.List(ctx, repositories.ScopeFor(p), repositories.LogFilter{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("error retrieving student logs: %w", err)
	}
	return logs, nil
}

// ListForCourse retrieves log entries of one course the principal can see
func (s *LogService) ListForCourse(ctx context.Context, p *auth.Principal, courseID int64) ([]*models.Log, error) {
	course, err := s.courseRepo.GetByID(ctx, repositories.ScopeFor(p), courseID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.List(ctx, repositories.ScopeFor(p), repositories.LogFilter{CourseID: &course.ID})
	if err != nil {
		return nil, fmt.Errorf("error retrieving course logs: %w", err)
	}
	return logs, nil
}

// Update rewrites a log entry's content. The scoped lookup already limits
// staff to logs of courses they run or assist.
func (s *LogService) Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateLogRequest) (*models.Log, error) {
	if err := validateLogContent(req.Content); err != nil {
		return nil, err
	}

	log, err := s.logRepo.GetByID(ctx, repositories.ScopeFor(p), id)
	if err != nil {
		return nil, err
	}

	if err := s.logRepo.Update(ctx, p.Tenant, log.ID, req.Content); err != nil {
		return nil, err
	}

	log.Content = req.Content
	return log, nil
}

// Delete removes a log entry visible to the principal
func (s *LogService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	log, err := s.logRepo.GetByID(ctx, repositories.ScopeFor(p), id)
	if err != nil {
		return err
	}

	if err := s.logRepo.Delete(ctx, p.Tenant, log.ID); err != nil {
		return err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("logID", id).Str("deletedBy", p.Username).Msg("Log entry deleted")
	return nil
}
