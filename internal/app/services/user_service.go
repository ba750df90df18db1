package services

import (
	"context"
	"fmt"

	"github.com/mertkaya/courselog/internal/app/auth"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/app/repositories"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	pkgauth "github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/mertkaya/courselog/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// UserService handles managed account creation and user administration
type UserService struct {
	userRepo   UserStore
	courseRepo CourseStore
	logRepo    LogStore
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, courseRepo CourseStore, logRepo LogStore, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		logRepo:    logRepo,
		logger:     logger,
	}
}

// CreateManaged creates an account on behalf of a staff member. Admins may
// create any role, teachers create TAs and students, TAs create students
// only. The created account always lands in the caller's tenant, whatever
// the request says.
func (s *UserService) CreateManaged(ctx context.Context, p *auth.Principal, req *dto.CreateUserRequest) (*models.User, error) {
	role := req.Role
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	switch p.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		if role != models.RoleTA && role != models.RoleStudent {
			return nil, apperrors.ErrPermissionDenied
		}
	default:
		if role != models.RoleStudent {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	var studentID *string
	if role == models.RoleStudent {
		if req.StudentID == "" || !validation.ValidStudentID(req.StudentID) {
			return nil, apperrors.ErrInvalidStudentID
		}
		sid := req.StudentID
		studentID = &sid

		taken, err := s.userRepo.StudentIDExists(ctx, p.Tenant, req.StudentID)
		if err != nil {
			return nil, fmt.Errorf("error checking student ID: %w", err)
		}
		if taken {
			return nil, apperrors.ErrStudentIDTaken
		}
	}

	taken, err := s.userRepo.UsernameExists(ctx, p.Tenant, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Password:  hashed,
		Role:      role,
		Tenant:    p.Tenant,
		StudentID: studentID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("tenant", p.Tenant).
		Str("username", user.Username).
		Str("role", string(role)).
		Str("createdBy", p.Username).
		Msg("Managed account created")

	return user, nil
}

// List retrieves all users in the caller's tenant
func (s *UserService) List(ctx context.Context, p *auth.Principal) ([]*models.User, error) {
	users, err := s.userRepo.ListAll(ctx, p.Tenant)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	return users, nil
}

// ListByRole retrieves tenant users with a given role
func (s *UserService) ListByRole(ctx context.Context, p *auth.Principal, role models.Role) ([]*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	users, err := s.userRepo.ListByRole(ctx, p.Tenant, role)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users by role: %w", err)
	}
	return users, nil
}

// applyAccountUpdate folds a rename and an optional new password hash into a
// loaded user row. A rename is checked against the tenant's taken usernames
// first so the common conflict reports cleanly before touching the row.
func (s *UserService) applyAccountUpdate(ctx context.Context, user *models.User, username, password string) error {
	if username != "" && username != user.Username {
		taken, err := s.userRepo.UsernameExists(ctx, user.Tenant, username)
		if err != nil {
			return fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return apperrors.ErrUsernameTaken
		}
		user.Username = username
	}

	if password != "" {
		hashed, err := pkgauth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashed
	}

	return s.userRepo.Update(ctx, user)
}

// UpdateProfile changes the caller's own username or password. A password
// change must present the current password; existing sessions stay valid.
func (s *UserService) UpdateProfile(ctx context.Context, p *auth.Principal, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, p.Tenant, p.UserID)
	if err != nil {
		return nil, err
	}

	if req.Password != "" && !pkgauth.CheckPassword(user.Password, req.CurrentPassword) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.applyAccountUpdate(ctx, user, req.Username, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("userID", user.ID).Msg("Profile updated")
	return user, nil
}

// UpdateManaged renames a tenant user or resets their password on behalf of
// an admin. Role and tenant stay as created.
func (s *UserService) UpdateManaged(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, p.Tenant, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyAccountUpdate(ctx, user, req.Username, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("tenant", p.Tenant).
		Int64("userID", user.ID).
		Str("updatedBy", p.Username).
		Msg("User updated")

	return user, nil
}

// Get retrieves a tenant user by id
func (s *UserService) Get(ctx context.Context, p *auth.Principal, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, p.Tenant, id)
}

// Delete removes a tenant user. Users still referenced by courses or logs
// are rejected rather than cascaded.
func (s *UserService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	if id == p.UserID {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "cannot delete your own account")
	}

	if err := s.userRepo.Delete(ctx, p.Tenant, id); err != nil {
		return err
	}

	s.logger.Info().Str("tenant", p.Tenant).Int64("userID", id).Str("deletedBy", p.Username).Msg("User deleted")
	return nil
}

// Dashboard summarizes what the caller can see: course and log counts under
// their own scope, plus per-role user counts for admins.
func (s *UserService) Dashboard(ctx context.Context, p *auth.Principal) (*dto.DashboardResponse, error) {
	scope := repositories.ScopeFor(p)

	courses, err := s.courseRepo.CountForScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("error counting courses: %w", err)
	}

	logs, err := s.logRepo.CountForScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("error counting logs: %w", err)
	}

	counts := map[string]int{
		"courses": courses,
		"logs":    logs,
	}

	if p.Role == models.RoleAdmin {
		byRole, err := s.userRepo.CountByRole(ctx, p.Tenant)
		if err != nil {
			return nil, fmt.Errorf("error counting users: %w", err)
		}
		for role, n := range byRole {
			counts["users_"+string(role)] = n
		}
	}

	return &dto.DashboardResponse{
		Role:   p.Role,
		Tenant: p.Tenant,
		Counts: counts,
	}, nil
}
