package services

import (
	"context"
	"sort"
	"time"

	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/repositories"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
)

// In-memory store fakes. They mirror the Postgres repositories' observable
// behavior: tenant predicates on every read, sentinel errors on conflicts,
// membership sets guarded against duplicates.

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Tenant == user.Tenant && u.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
		if u.Tenant == user.Tenant && u.StudentID != nil && user.StudentID != nil && *u.StudentID == *user.StudentID {
			return apperrors.ErrStudentIDTaken
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, tenant string, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || u.Tenant != tenant {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, tenant, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Tenant == tenant && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) UsernameExists(_ context.Context, tenant, username string) (bool, error) {
	for _, u := range f.users {
		if u.Tenant == tenant && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) StudentIDExists(_ context.Context, tenant, studentID string) (bool, error) {
	for _, u := range f.users {
		if u.Tenant == tenant && u.StudentID != nil && *u.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ListByRole(_ context.Context, tenant string, role models.Role) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		if u.Tenant == tenant && u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) ListAll(_ context.Context, tenant string) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		if u.Tenant == tenant {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) CountByRole(_ context.Context, tenant string) (map[models.Role]int, error) {
	counts := map[models.Role]int{}
	for _, role := range models.AllRoles {
		counts[role] = 0
	}
	for _, u := range f.users {
		if u.Tenant == tenant {
			counts[u.Role]++
		}
	}
	return counts, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	u, ok := f.users[user.ID]
	if !ok || u.Tenant != user.Tenant {
		return apperrors.ErrUserNotFound
	}
	for _, other := range f.users {
		if other.ID != user.ID && other.Tenant == user.Tenant && other.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
	}
	u.Username = user.Username
	u.Password = user.Password
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, tenant string, userID int64) error {
	if u, ok := f.users[userID]; ok && u.Tenant == tenant {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, tenant string, id int64) error {
	u, ok := f.users[id]
	if !ok || u.Tenant != tenant {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeCourseStore struct {
	nextID   int64
	courses  map[int64]*models.Course
	tas      map[int64]map[int64]bool
	students map[int64]map[int64]bool
	users    *fakeUserStore
}

func newFakeCourseStore(users *fakeUserStore) *fakeCourseStore {
	return &fakeCourseStore{
		courses:  map[int64]*models.Course{},
		tas:      map[int64]map[int64]bool{},
		students: map[int64]map[int64]bool{},
		users:    users,
	}
}

func (f *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	for _, c := range f.courses {
		if c.Tenant == course.Tenant && c.CourseCode == course.CourseCode {
			return apperrors.ErrCourseCodeTaken
		}
	}
	f.nextID++
	course.ID = f.nextID
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	cp := *course
	f.courses[course.ID] = &cp
	f.tas[course.ID] = map[int64]bool{}
	f.students[course.ID] = map[int64]bool{}
	return nil
}

func (f *fakeCourseStore) visible(scope repositories.Scope, c *models.Course) bool {
	if c.Tenant != scope.Tenant {
		return false
	}
	switch scope.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return c.TeacherID != nil && *c.TeacherID == scope.UserID
	case models.RoleTA:
		return f.tas[c.ID][scope.UserID]
	default:
		return f.students[c.ID][scope.UserID]
	}
}

func (f *fakeCourseStore) GetByID(_ context.Context, scope repositories.Scope, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok || !f.visible(scope, c) {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	for uid := range f.tas[id] {
		cp.TAIDs = append(cp.TAIDs, uid)
	}
	for uid := range f.students[id] {
		cp.StudentIDs = append(cp.StudentIDs, uid)
	}
	return &cp, nil
}

func (f *fakeCourseStore) GetByIDInTenant(_ context.Context, tenant string, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok || c.Tenant != tenant {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) ListForScope(ctx context.Context, scope repositories.Scope) ([]*models.Course, error) {
	out := []*models.Course{}
	for _, c := range f.courses {
		if f.visible(scope, c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseStore) ListAvailable(_ context.Context, tenant string, studentID int64) ([]*models.Course, error) {
	out := []*models.Course{}
	for _, c := range f.courses {
		if c.Tenant == tenant && !f.students[c.ID][studentID] {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	c, ok := f.courses[course.ID]
	if !ok || c.Tenant != course.Tenant {
		return apperrors.ErrCourseNotFound
	}
	c.CourseCode = course.CourseCode
	c.DisplayName = course.DisplayName
	c.Description = course.Description
	return nil
}

func (f *fakeCourseStore) SetTeacher(_ context.Context, tenant string, courseID int64, teacherID *int64) error {
	c, ok := f.courses[courseID]
	if !ok || c.Tenant != tenant {
		return apperrors.ErrCourseNotFound
	}
	c.TeacherID = teacherID
	return nil
}

func (f *fakeCourseStore) AddStudent(_ context.Context, courseID, userID int64) error {
	if f.students[courseID][userID] {
		return apperrors.ErrAlreadyEnrolled
	}
	f.students[courseID][userID] = true
	return nil
}

func (f *fakeCourseStore) RemoveStudent(_ context.Context, courseID, userID int64) error {
	if !f.students[courseID][userID] {
		return apperrors.ErrNotEnrolled
	}
	delete(f.students[courseID], userID)
	return nil
}

func (f *fakeCourseStore) AddTA(_ context.Context, courseID, userID int64) error {
	if f.tas[courseID][userID] {
		return apperrors.ErrAlreadyAssigned
	}
	f.tas[courseID][userID] = true
	return nil
}

func (f *fakeCourseStore) RemoveTA(_ context.Context, courseID, userID int64) error {
	if !f.tas[courseID][userID] {
		return apperrors.ErrNotAssigned
	}
	delete(f.tas[courseID], userID)
	return nil
}

func (f *fakeCourseStore) IsStudentEnrolled(_ context.Context, courseID, userID int64) (bool, error) {
	return f.students[courseID][userID], nil
}

func (f *fakeCourseStore) ListMembers(_ context.Context, courseID int64, kind string) ([]*models.User, error) {
	set := f.students[courseID]
	if kind == "ta" {
		set = f.tas[courseID]
	}
	out := []*models.User{}
	for uid := range set {
		if u, ok := f.users.users[uid]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseStore) Delete(_ context.Context, tenant string, id int64) error {
	c, ok := f.courses[id]
	if !ok || c.Tenant != tenant {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	delete(f.tas, id)
	delete(f.students, id)
	return nil
}

func (f *fakeCourseStore) CountForScope(ctx context.Context, scope repositories.Scope) (int, error) {
	courses, _ := f.ListForScope(ctx, scope)
	return len(courses), nil
}

type fakeLogStore struct {
	nextID  int64
	logs    map[int64]*models.Log
	courses *fakeCourseStore
}

func newFakeLogStore(courses *fakeCourseStore) *fakeLogStore {
	return &fakeLogStore{logs: map[int64]*models.Log{}, courses: courses}
}

func (f *fakeLogStore) visible(scope repositories.Scope, l *models.Log) bool {
	if l.Tenant != scope.Tenant {
		return false
	}
	switch scope.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		c, ok := f.courses.courses[l.CourseID]
		return ok && c.TeacherID != nil && *c.TeacherID == scope.UserID
	case models.RoleTA:
		return f.courses.tas[l.CourseID][scope.UserID]
	default:
		return l.StudentID == scope.UserID
	}
}

func (f *fakeLogStore) Create(_ context.Context, log *models.Log) error {
	f.nextID++
	log.ID = f.nextID
	log.CreatedAt = time.Now()
	log.UpdatedAt = log.CreatedAt
	cp := *log
	f.logs[log.ID] = &cp
	return nil
}

func (f *fakeLogStore) GetByID(_ context.Context, scope repositories.Scope, id int64) (*models.Log, error) {
	l, ok := f.logs[id]
	if !ok || !f.visible(scope, l) {
		return nil, apperrors.ErrLogNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLogStore) List(_ context.Context, scope repositories.Scope, filter repositories.LogFilter) ([]*models.Log, error) {
	out := []*models.Log{}
	for _, l := range f.logs {
		if !f.visible(scope, l) {
			continue
		}
		if filter.CourseID != nil && l.CourseID != *filter.CourseID {
			continue
		}
		if filter.StudentID != nil && l.StudentID != *filter.StudentID {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeLogStore) Update(_ context.Context, tenant string, id int64, content string) error {
	l, ok := f.logs[id]
	if !ok || l.Tenant != tenant {
		return apperrors.ErrLogNotFound
	}
	l.Content = content
	return nil
}

func (f *fakeLogStore) Delete(_ context.Context, tenant string, id int64) error {
	l, ok := f.logs[id]
	if !ok || l.Tenant != tenant {
		return apperrors.ErrLogNotFound
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeLogStore) CountForScope(ctx context.Context, scope repositories.Scope) (int, error) {
	logs, _ := f.List(ctx, scope, repositories.LogFilter{})
	return len(logs), nil
}

type fakeTokenRevoker struct {
	revoked map[string]bool
}

func newFakeTokenRevoker() *fakeTokenRevoker {
	return &fakeTokenRevoker{revoked: map[string]bool{}}
}

func (f *fakeTokenRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		f.revoked[jti] = true
	}
	return nil
}

func (f *fakeTokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}
