package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	User   *UserRepository
	Course *CourseRepository
	Log    *LogRepository
}

// NewRepositories creates all repositories over one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:   NewUserRepository(db),
		Course: NewCourseRepository(db),
		Log:    NewLogRepository(db),
	}
}
