package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	"github.com/mertkaya/courselog/internal/pkg/dberrors"
	"github.com/mertkaya/courselog/internal/pkg/logger"
)

const logColumns = "l.id, l.content, l.course_id, l.student_id, l.created_by, l.tenant, l.created_at, l.updated_at, s.username, c.username"

// LogFilter narrows a log listing beyond the role scope
type LogFilter struct {
	CourseID  *int64
	StudentID *int64
}

// LogRepository handles log entry database operations. Visibility mirrors the
// course scoping: admins see everything in the tenant, staff see logs of
// courses they belong to, students see only logs written about them.
type LogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *pgxpool.Pool) *LogRepository {
	return &LogRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLog(row pgx.Row) (*models.Log, error) {
	log := &models.Log{}
	err := row.Scan(
		&log.ID, &log.Content, &log.CourseID, &log.StudentID, &log.CreatedBy,
		&log.Tenant, &log.CreatedAt, &log.UpdatedAt, &log.StudentUsername, &log.CreatorUsername)
	if err != nil {
		return nil, err
	}
	return log, nil
}

// logVisibilityPredicate restricts which log rows the scope may see
func logVisibilityPredicate(scope Scope) squirrel.Sqlizer {
	tenantEq := squirrel.Eq{"l.tenant": scope.Tenant}

	switch scope.Role {
	case models.RoleAdmin:
		return tenantEq
	case models.RoleTeacher:
		return squirrel.And{tenantEq, squirrel.Expr(
			"EXISTS (SELECT 1 FROM courses co WHERE co.id = l.course_id AND co.teacher_id = ?)", scope.UserID)}
	case models.RoleTA:
		return squirrel.And{tenantEq, squirrel.Expr(
			"EXISTS (SELECT 1 FROM course_tas ct WHERE ct.course_id = l.course_id AND ct.user_id = ?)", scope.UserID)}
	default:
		return squirrel.And{tenantEq, squirrel.Eq{"l.student_id": scope.UserID}}
	}
}

// Create inserts a new log entry and sets its id
func (r *LogRepository) Create(ctx context.Context, log *models.Log) error {
	sql, args, err := r.sb.Insert("logs").
		Columns("content", "course_id", "student_id", "created_by", "tenant").
		Values(log.Content, log.CourseID, log.StudentID, log.CreatedBy, log.Tenant).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create log query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("tenant", log.Tenant).Msg("Error executing create log query")
		return fmt.Errorf("error creating log: %w", err)
	}

	return nil
}

// GetByID retrieves a log entry visible to the scope
func (r *LogRepository) GetByID(ctx context.Context, scope Scope, id int64) (*models.Log, error) {
	sql, args, err := r.sb.Select(logColumns).
		From("logs l").
		Join("users s ON s.id = l.student_id").
		Join("users c ON c.id = l.created_by").
		Where(squirrel.And{squirrel.Eq{"l.id": id}, logVisibilityPredicate(scope)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get log query: %w", err)
	}

	log, err := scanLog(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLogNotFound
		}
		logger.Error().Err(err).Int64("logID", id).Msg("Error scanning log row")
		return nil, fmt.Errorf("error getting log by ID: %w", err)
	}

	return log, nil
}

// List retrieves log entries visible to the scope, newest first, optionally
// narrowed by course or student
func (r *LogRepository) List(ctx context.Context, scope Scope, filter LogFilter) ([]*models.Log, error) {
	conditions := squirrel.And{logVisibilityPredicate(scope)}
	if filter.CourseID != nil {
		conditions = append(conditions, squirrel.Eq{"l.course_id": *filter.CourseID})
	}
	if filter.StudentID != nil {
		conditions = append(conditions, squirrel.Eq{"l.student_id": *filter.StudentID})
	}

	sql, args, err := r.sb.Select(logColumns).
		From("logs l").
		Join("users s ON s.id = l.student_id").
		Join("users c ON c.id = l.created_by").
		Where(conditions).
		OrderBy("l.created_at DESC", "l.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list logs query")
		return nil, fmt.Errorf("error querying logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.Log{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning log row: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}

	return logs, nil
}

// Update rewrites the content of a log entry within a tenant
func (r *LogRepository) Update(ctx context.Context, tenant string, id int64, content string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE logs SET content = $1, updated_at = NOW() WHERE id = $2 AND tenant = $3`,
		content, id, tenant)
	if err != nil {
		logger.Error().Err(err).Int64("logID", id).Msg("Error executing update log query")
		return fmt.Errorf("error updating log: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLogNotFound
	}

	return nil
}

// Delete removes a log entry within a tenant
func (r *LogRepository) Delete(ctx context.Context, tenant string, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM logs WHERE id = $1 AND tenant = $2`, id, tenant)
	if err != nil {
		logger.Error().Err(err).Int64("logID", id).Msg("Error executing delete log query")
		return fmt.Errorf("error deleting log: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLogNotFound
	}

	return nil
}

// CountForScope returns how many log entries the scope can see
func (r *LogRepository) CountForScope(ctx context.Context, scope Scope) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("logs l").
		Where(logVisibilityPredicate(scope)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count logs query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting logs: %w", err)
	}

	return count, nil
}
