package services

import (
	"context"
	"time"

	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/repositories"
)

// Repository interfaces consumed by the services. The pgx-backed
// implementations live in the repositories package; tests substitute
// in-memory fakes.

// UserStore is the user persistence surface used by services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, tenant string, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, tenant, username string) (*models.User, error)
	UsernameExists(ctx context.Context, tenant, username string) (bool, error)
	StudentIDExists(ctx context.Context, tenant, studentID string) (bool, error)
	ListByRole(ctx context.Context, tenant string, role models.Role) ([]*models.User, error)
	ListAll(ctx context.Context, tenant string) ([]*models.User, error)
	CountByRole(ctx context.Context, tenant string) (map[models.Role]int, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, tenant string, userID int64) error
	Delete(ctx context.Context, tenant string, id int64) error
}

// CourseStore is the course persistence surface used by services
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, scope repositories.Scope, id int64) (*models.Course, error)
	GetByIDInTenant(ctx context.Context, tenant string, id int64) (*models.Course, error)
	ListForScope(ctx context.Context, scope repositories.Scope) ([]*models.Course, error)
	ListAvailable(ctx context.Context, tenant string, studentID int64) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	SetTeacher(ctx context.Context, tenant string, courseID int64, teacherID *int64) error
	AddStudent(ctx context.Context, courseID, userID int64) error
	RemoveStudent(ctx context.Context, courseID, userID int64) error
	AddTA(ctx context.Context, courseID, userID int64) error
	RemoveTA(ctx context.Context, courseID, userID int64) error
	IsStudentEnrolled(ctx context.Context, courseID, userID int64) (bool, error)
	ListMembers(ctx context.Context, courseID int64, kind string) ([]*models.User, error)
	Delete(ctx context.Context, tenant string, id int64) error
	CountForScope(ctx context.Context, scope repositories.Scope) (int, error)
}

// LogStore is the log persistence surface used by services
type LogStore interface {
	Create(ctx context.Context, log *models.Log) error
	GetByID(ctx context.Context, scope repositories.Scope, id int64) (*models.Log, error)
	List(ctx context.Context, scope repositories.Scope, filter repositories.LogFilter) ([]*models.Log, error)
	Update(ctx context.Context, tenant string, id int64, content string) error
	Delete(ctx context.Context, tenant string, id int64) error
	CountForScope(ctx context.Context, scope repositories.Scope) (int, error)
}

// TokenRevoker records session token ids until they would have expired anyway
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
