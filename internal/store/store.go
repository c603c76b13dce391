// Package store persists users, their learning records and the shared
// catalog. Services depend on the interfaces declared here; the GORM store
// backs production and the in-memory store backs tests and local runs.
package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserStore loads and saves whole user documents. SaveUser writes the
// learning record (courses and skills) together with the profile in one
// statement; there is no version check, the last save wins.
type UserStore interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type CatalogStore interface {
	FindCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
	ListCourses(ctx context.Context, level string) ([]models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	FindDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error)
	FindDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	CreateDepartment(ctx context.Context, dept *models.Department) error
	DeleteDepartment(ctx context.Context, id uuid.UUID) error

	// ListSkills returns every skill, or only those of departmentID when it
	// is not nil.
	ListSkills(ctx context.Context, departmentID *uuid.UUID) ([]models.Skill, error)
	CreateSkill(ctx context.Context, skill *models.Skill) error
}

type RecordStore interface {
	CompletionsByEmployee(ctx context.Context, employeeID string) ([]models.CourseCompletion, error)
	CreateCompletion(ctx context.Context, completion *models.CourseCompletion) error
	CertificationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Certification, error)
	CreateCertification(ctx context.Context, cert *models.Certification) error
}

type Store interface {
	UserStore
	CatalogStore
	RecordStore

	// Transaction runs fn against a store bound to a single transaction.
	// Any error returned by fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
