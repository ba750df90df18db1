package services

import (
	"context"
	"testing"
	"time"

	"github.com/mertkaya/courselog/internal/app/auth"
	"github.com/mertkaya/courselog/internal/app/models"
	pkgauth "github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testEnv wires the services over in-memory fakes with a small populated
// tenant: an admin, two teachers, a TA and a student in uvu, plus one
// teacher in uofu for cross-tenant cases.
type testEnv struct {
	users   *fakeUserStore
	courses *fakeCourseStore
	logs    *fakeLogStore
	tokens  *fakeTokenRevoker

	authSvc   *AuthService
	userSvc   *UserService
	courseSvc *CourseService
	logSvc    *LogService

	admin       *models.User
	teacher     *models.User
	teacher2    *models.User
	ta          *models.User
	student     *models.User
	otherTenant *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserStore()
	courses := newFakeCourseStore(users)
	logs := newFakeLogStore(courses)
	tokens := newFakeTokenRevoker()

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})

	lgr := zerolog.Nop()

	env := &testEnv{
		users:     users,
		courses:   courses,
		logs:      logs,
		tokens:    tokens,
		authSvc:   NewAuthService(users, tokens, jwtService, lgr),
		userSvc:   NewUserService(users, courses, logs, lgr),
		courseSvc: NewCourseService(courses, users, lgr),
		logSvc:    NewLogService(logs, courses, users, lgr),
	}

	env.admin = env.addUser(t, "uvu", "admin", models.RoleAdmin, "")
	env.teacher = env.addUser(t, "uvu", "teacher1", models.RoleTeacher, "")
	env.teacher2 = env.addUser(t, "uvu", "teacher2", models.RoleTeacher, "")
	env.ta = env.addUser(t, "uvu", "ta1", models.RoleTA, "")
	env.student = env.addUser(t, "uvu", "student1", models.RoleStudent, "10000001")
	env.otherTenant = env.addUser(t, "uofu", "teacher1", models.RoleTeacher, "")

	return env
}

func (e *testEnv) addUser(t *testing.T, tenant, username string, role models.Role, studentID string) *models.User {
	t.Helper()

	u := &models.User{
		Username: username,
		Password: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Role:     role,
		Tenant:   tenant,
	}
	if studentID != "" {
		sid := studentID
		u.StudentID = &sid
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) addCourse(t *testing.T, tenant, code string, teacherID *int64) *models.Course {
	t.Helper()

	c := &models.Course{
		CourseCode:  code,
		DisplayName: code,
		Tenant:      tenant,
		TeacherID:   teacherID,
	}
	require.NoError(t, e.courses.Create(context.Background(), c))
	return c
}

func principalFor(u *models.User) *auth.Principal {
	return &auth.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Tenant:   u.Tenant,
	}
}
