package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// --- users ---

func (s *GormStore) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Department").First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Department").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Department").Where("employee_id = ?", employeeID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Preload("Department").Order("created_at ASC").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

// SaveUser writes every column of the row, including the embedded courses
// and skills, in a single UPDATE.
func (s *GormStore) SaveUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		return fmt.Errorf("save user: %w", translate(err))
	}
	return nil
}

// DeleteUser removes the row outright so its email and employee code can
// be issued again.
func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- catalog ---

func (s *GormStore) FindCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (s *GormStore) CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, translate(err)
}

func (s *GormStore) ListCourses(ctx context.Context, level string) ([]models.Course, error) {
	var courses []models.Course
	q := s.db.WithContext(ctx).Order("title ASC")
	if level != "" {
		q = q.Where("level = ?", level)
	}
	err := q.Find(&courses).Error
	return courses, translate(err)
}

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return translate(s.db.WithContext(ctx).Create(course).Error)
}

func (s *GormStore) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var dept models.Department
	if err := s.db.WithContext(ctx).First(&dept, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

func (s *GormStore) FindDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	var dept models.Department
	if err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&dept).Error; err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

func (s *GormStore) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	err := s.db.WithContext(ctx).Order("name ASC").Find(&depts).Error
	return depts, translate(err)
}

func (s *GormStore) CreateDepartment(ctx context.Context, dept *models.Department) error {
	return translate(s.db.WithContext(ctx).Create(dept).Error)
}

func (s *GormStore) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ForDepartment returns a GORM scope that filters by department_id.
func ForDepartment(departmentID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("department_id = ?", departmentID)
	}
}

func (s *GormStore) ListSkills(ctx context.Context, departmentID *uuid.UUID) ([]models.Skill, error) {
	var skills []models.Skill
	q := s.db.WithContext(ctx).Order("name ASC")
	if departmentID != nil {
		q = q.Scopes(ForDepartment(*departmentID))
	}
	err := q.Find(&skills).Error
	return skills, translate(err)
}

func (s *GormStore) CreateSkill(ctx context.Context, skill *models.Skill) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(skill).Error)
}

// --- records ---

func (s *GormStore) CompletionsByEmployee(ctx context.Context, employeeID string) ([]models.CourseCompletion, error) {
	var completions []models.CourseCompletion
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("completion_date ASC").
		Find(&completions).Error
	return completions, translate(err)
}

func (s *GormStore) CreateCompletion(ctx context.Context, completion *models.CourseCompletion) error {
	return translate(s.db.WithContext(ctx).Create(completion).Error)
}

func (s *GormStore) CertificationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Certification, error) {
	var certs []models.Certification
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, translate(err)
}

func (s *GormStore) CreateCertification(ctx context.Context, cert *models.Certification) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(cert).Error)
}
