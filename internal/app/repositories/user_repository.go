package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	"github.com/mertkaya/courselog/internal/pkg/dberrors"
	"github.com/mertkaya/courselog/internal/pkg/logger"
)

// Unique constraint names from the users table.
const (
	constraintUsernameTenant  = "users_username_tenant_key"
	constraintStudentIDTenant = "users_tenant_student_id_key"
)

const userColumns = "id, username, password, role, tenant, student_id, created_at, updated_at, last_login_at"

// UserRepository handles user database operations. Every query is intersected
// with a tenant predicate; there is no way to read a user row without naming
// the tenant it must belong to.
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Password, &user.Role, &user.Tenant,
		&user.StudentID, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user and sets its id. Uniqueness of (username, tenant)
// and (tenant, student_id) is enforced by database constraints, so concurrent
// creates cannot slip past the pre-checks done by the service layer.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("username", "password", "role", "tenant", "student_id").
		Values(user.Username, user.Password, user.Role, user.Tenant, user.StudentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintUsernameTenant) {
			return apperrors.ErrUsernameTaken
		}
		if dberrors.IsDuplicateConstraintError(err, constraintStudentIDTenant) {
			return apperrors.ErrStudentIDTaken
		}
		logger.Error().Err(err).Str("tenant", user.Tenant).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id within a tenant
func (r *UserRepository) GetByID(ctx context.Context, tenant string, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id, "tenant": tenant}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by (username, tenant)
func (r *UserRepository) GetByUsername(ctx context.Context, tenant, username string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"username": username, "tenant": tenant}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by username query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("tenant", tenant).Msg("Error scanning user row by username")
		return nil, fmt.Errorf("error getting user by username: %w", err)
	}

	return user, nil
}

// UsernameExists checks if a username is taken within a tenant
func (r *UserRepository) UsernameExists(ctx context.Context, tenant, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND tenant = $2)`,
		username, tenant).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}

	return exists, nil
}

// StudentIDExists checks if a student identifier is taken within a tenant
func (r *UserRepository) StudentIDExists(ctx context.Context, tenant, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE tenant = $1 AND student_id = $2)`,
		tenant, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student ID: %w", err)
	}

	return exists, nil
}

// ListByRole retrieves all users with a role within a tenant
func (r *UserRepository) ListByRole(ctx context.Context, tenant string, role models.Role) ([]*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"tenant": tenant, "role": role}).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	return r.queryUsers(ctx, sql, args)
}

// ListAll retrieves all users within a tenant
func (r *UserRepository) ListAll(ctx context.Context, tenant string) ([]*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"tenant": tenant}).
		OrderBy("role ASC", "username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	return r.queryUsers(ctx, sql, args)
}

func (r *UserRepository) queryUsers(ctx context.Context, sql string, args []interface{}) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// CountByRole returns per-role user counts within a tenant. Roles with no
// users report zero rather than being absent.
func (r *UserRepository) CountByRole(ctx context.Context, tenant string) (map[models.Role]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT role, COUNT(*) FROM users WHERE tenant = $1 GROUP BY role`, tenant)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Role]int, len(models.AllRoles))
	for _, role := range models.AllRoles {
		counts[role] = 0
	}
	for rows.Next() {
		var role models.Role
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("error scanning user count row: %w", err)
		}
		counts[role] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user count rows: %w", err)
	}

	return counts, nil
}

// Update persists username and password changes for a user within its
// tenant. Other columns never change after creation. The (username, tenant)
// constraint catches renames that race past the service-layer check.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("username", user.Username).
		Set("password", user.Password).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID, "tenant": user.Tenant}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintUsernameTenant) {
			return apperrors.ErrUsernameTaken
		}
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, tenant string, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login_at = $1 WHERE id = $2 AND tenant = $3`,
		time.Now(), userID, tenant)
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}

	return nil
}

// Delete removes a user within a tenant. Out-of-tenant ids report not found.
func (r *UserRepository) Delete(ctx context.Context, tenant string, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM users WHERE id = $1 AND tenant = $2`, id, tenant)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserHasDependencies
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error executing delete user query")
		return fmt.Errorf("error deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
