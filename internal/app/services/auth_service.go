package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	"github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/mertkaya/courselog/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AuthService handles login, student self-registration and session revocation
type AuthService struct {
	userRepo   UserStore
	tokens     TokenRevoker
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, tokens TokenRevoker, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateCredentials checks the shape of a username/password pair
func (s *AuthService) validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidationFailed)
	}
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// Login authenticates a user within a tenant and issues a session token.
// An unknown username and a wrong password are indistinguishable to the
// caller; both report invalid credentials.
func (s *AuthService) Login(ctx context.Context, tenant string, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := s.validateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, tenant, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user for login: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, tenant, user.ID); err != nil {
		// Not worth failing the login over.
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("tenant", tenant).Str("username", user.Username).Msg("User logged in")

	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      dto.NewUserInfo(user),
	}, nil
}

// Signup registers a new student account within a tenant. Self-registration
// only ever creates students; staff accounts come from the managed creation
// path.
func (s *AuthService) Signup(ctx context.Context, tenant string, req *dto.SignupRequest) (*dto.TokenResponse, error) {
	if err := s.validateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}
	if !validation.ValidStudentID(req.StudentID) {
		return nil, apperrors.ErrInvalidStudentID
	}

	taken, err := s.userRepo.UsernameExists(ctx, tenant, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	taken, err = s.userRepo.StudentIDExists(ctx, tenant, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error checking student ID: %w", err)
	}
	if taken {
		return nil, apperrors.ErrStudentIDTaken
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	studentID := req.StudentID
	user := &models.User{
		Username:  req.Username,
		Password:  hashed,
		Role:      models.RoleStudent,
		Tenant:    tenant,
		StudentID: &studentID,
	}

	// The database constraints still back the pre-checks, so a concurrent
	// signup with the same username loses with the same error.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("tenant", tenant).Str("username", user.Username).Msg("Student registered")

	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      dto.NewUserInfo(user),
	}, nil
}

// Logout revokes the session token by its jti for the token's remaining
// lifetime. Logging out twice is harmless.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.tokens == nil {
		return nil
	}

	ttl := claims.RemainingLife()
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}

	s.logger.Info().Str("username", claims.Username).Msg("User logged out")
	return nil
}

// SessionRevoked reports whether the token id was revoked by a logout.
// Without a revocation store every session counts as live; a store error
// counts as revoked so callers fail closed.
func (s *AuthService) SessionRevoked(ctx context.Context, jti string) bool {
	if s.tokens == nil {
		return false
	}

	revoked, err := s.tokens.IsRevoked(ctx, jti)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to check token revocation")
		return true
	}
	return revoked
}

// Me retrieves the authenticated user's current record
func (s *AuthService) Me(ctx context.Context, tenant string, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, tenant, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}
