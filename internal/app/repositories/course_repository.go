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

const constraintCourseCodeTenant = "courses_tenant_course_code_key"

const courseColumns = "c.id, c.course_code, c.display_name, c.description, c.tenant, c.teacher_id, c.created_at, c.updated_at"

// CourseRepository handles course and membership database operations. Reads
// are filtered by the caller's scope; membership writes rely on the junction
// tables' primary keys for idempotence, so two concurrent enrolls cannot both
// succeed.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID, &course.CourseCode, &course.DisplayName, &course.Description,
		&course.Tenant, &course.TeacherID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// visibilityPredicate returns the squirrel condition restricting which courses
// the scope may see. Admins see every course in the tenant; teachers see
// courses they teach; TAs and students see courses they are members of.
func visibilityPredicate(scope Scope) squirrel.Sqlizer {
	tenantEq := squirrel.Eq{"c.tenant": scope.Tenant}

	switch scope.Role {
	case models.RoleAdmin:
		return tenantEq
	case models.RoleTeacher:
		return squirrel.And{tenantEq, squirrel.Eq{"c.teacher_id": scope.UserID}}
	case models.RoleTA:
		return squirrel.And{tenantEq, squirrel.Expr(
			"EXISTS (SELECT 1 FROM course_tas ct WHERE ct.course_id = c.id AND ct.user_id = ?)", scope.UserID)}
	default:
		return squirrel.And{tenantEq, squirrel.Expr(
			"EXISTS (SELECT 1 FROM course_students cs WHERE cs.course_id = c.id AND cs.user_id = ?)", scope.UserID)}
	}
}

// Create inserts a new course and sets its id
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("course_code", "display_name", "description", "tenant", "teacher_id").
		Values(course.CourseCode, course.DisplayName, course.Description, course.Tenant, course.TeacherID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintCourseCodeTenant) {
			return apperrors.ErrCourseCodeTaken
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("tenant", course.Tenant).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByIDInTenant retrieves a course by id inside a tenant without any role
// predicate. Services use this for membership mutations, where the caller's
// right to touch the course is checked explicitly rather than through
// visibility.
func (r *CourseRepository) GetByIDInTenant(ctx context.Context, tenant string, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses c").
		Where(squirrel.Eq{"c.id": id, "c.tenant": tenant}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// GetByID retrieves a course visible to the scope. A course that exists but
// falls outside the scope reports not found, same as one that doesn't exist.
func (r *CourseRepository) GetByID(ctx context.Context, scope Scope, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses c").
		Where(squirrel.And{squirrel.Eq{"c.id": id}, visibilityPredicate(scope)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	if err := r.loadMembers(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// ListForScope retrieves the courses visible to the scope
func (r *CourseRepository) ListForScope(ctx context.Context, scope Scope) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses c").
		Where(visibilityPredicate(scope)).
		OrderBy("c.course_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	return r.queryCourses(ctx, sql, args)
}

// ListAvailable retrieves tenant courses the student is not yet enrolled in
func (r *CourseRepository) ListAvailable(ctx context.Context, tenant string, studentID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses c").
		Where(squirrel.And{
			squirrel.Eq{"c.tenant": tenant},
			squirrel.Expr("NOT EXISTS (SELECT 1 FROM course_students cs WHERE cs.course_id = c.id AND cs.user_id = ?)", studentID),
		}).
		OrderBy("c.course_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list available courses query: %w", err)
	}

	return r.queryCourses(ctx, sql, args)
}

func (r *CourseRepository) queryCourses(ctx context.Context, sql string, args []interface{}) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// loadMembers populates the TA and student id lists of a course
func (r *CourseRepository) loadMembers(ctx context.Context, course *models.Course) error {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, 'ta' FROM course_tas WHERE course_id = $1
		UNION ALL
		SELECT user_id, 'student' FROM course_students WHERE course_id = $1`, course.ID)
	if err != nil {
		return fmt.Errorf("error querying course members: %w", err)
	}
	defer rows.Close()

	course.TAIDs = []int64{}
	course.StudentIDs = []int64{}
	for rows.Next() {
		var userID int64
		var kind string
		if err := rows.Scan(&userID, &kind); err != nil {
			return fmt.Errorf("error scanning course member row: %w", err)
		}
		if kind == "ta" {
			course.TAIDs = append(course.TAIDs, userID)
		} else {
			course.StudentIDs = append(course.StudentIDs, userID)
		}
	}

	return rows.Err()
}

// Update applies mutable course fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("course_code", course.CourseCode).
		Set("display_name", course.DisplayName).
		Set("description", course.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": course.ID, "tenant": course.Tenant}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintCourseCodeTenant) {
			return apperrors.ErrCourseCodeTaken
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// SetTeacher assigns (or clears, with nil) the course teacher
func (r *CourseRepository) SetTeacher(ctx context.Context, tenant string, courseID int64, teacherID *int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses SET teacher_id = $1, updated_at = NOW() WHERE id = $2 AND tenant = $3`,
		teacherID, courseID, tenant)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing set teacher query")
		return fmt.Errorf("error setting course teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// AddStudent enrolls a student. The junction table's primary key makes the
// insert a no-op race: the second of two concurrent enrolls gets a duplicate
// key error, reported as already enrolled.
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO course_students (course_id, user_id) VALUES ($1, $2)`, courseID, userID)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("courseID", courseID).Int64("userID", userID).Msg("Error executing enroll query")
		return fmt.Errorf("error enrolling student: %w", err)
	}

	return nil
}

// RemoveStudent unenrolls a student. Removing a non-member is a conflict.
func (r *CourseRepository) RemoveStudent(ctx context.Context, courseID, userID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM course_students WHERE course_id = $1 AND user_id = $2`, courseID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("userID", userID).Msg("Error executing unenroll query")
		return fmt.Errorf("error unenrolling student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}

	return nil
}

// AddTA assigns a TA to a course
func (r *CourseRepository) AddTA(ctx context.Context, courseID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO course_tas (course_id, user_id) VALUES ($1, $2)`, courseID, userID)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyAssigned
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Int64("courseID", courseID).Int64("userID", userID).Msg("Error executing add TA query")
		return fmt.Errorf("error assigning TA: %w", err)
	}

	return nil
}

// RemoveTA removes a TA from a course
func (r *CourseRepository) RemoveTA(ctx context.Context, courseID, userID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM course_tas WHERE course_id = $1 AND user_id = $2`, courseID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("userID", userID).Msg("Error executing remove TA query")
		return fmt.Errorf("error removing TA: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotAssigned
	}

	return nil
}

// IsStudentEnrolled checks course membership for a student
func (r *CourseRepository) IsStudentEnrolled(ctx context.Context, courseID, userID int64) (bool, error) {
	var enrolled bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM course_students WHERE course_id = $1 AND user_id = $2)`,
		courseID, userID).Scan(&enrolled)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return enrolled, nil
}

// ListMembers retrieves course member users of one kind ("ta" or "student")
func (r *CourseRepository) ListMembers(ctx context.Context, courseID int64, kind string) ([]*models.User, error) {
	table := "course_students"
	if kind == "ta" {
		table = "course_tas"
	}

	sql, args, err := r.sb.Select("u.id, u.username, u.password, u.role, u.tenant, u.student_id, u.created_at, u.updated_at, u.last_login_at").
		From(table + " m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.course_id": courseID}).
		OrderBy("u.username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying course members: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return users, nil
}

// Delete removes a course and its memberships
func (r *CourseRepository) Delete(ctx context.Context, tenant string, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM courses WHERE id = $1 AND tenant = $2`, id, tenant)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// CountForScope returns how many courses the scope can see
func (r *CourseRepository) CountForScope(ctx context.Context, scope Scope) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("courses c").
		Where(visibilityPredicate(scope)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}

	return count, nil
}
