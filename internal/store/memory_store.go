package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. Values are copied on the
// way in and on the way out, so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*models.User
	userOrder   []uuid.UUID
	courses     map[uuid.UUID]models.Course
	departments map[uuid.UUID]models.Department
	skills      map[uuid.UUID]models.Skill
	completions []models.CourseCompletion
	certs       []models.Certification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uuid.UUID]*models.User),
		courses:     make(map[uuid.UUID]models.Course),
		departments: make(map[uuid.UUID]models.Department),
		skills:      make(map[uuid.UUID]models.Skill),
	}
}

type memorySnapshot struct {
	users       map[uuid.UUID]*models.User
	userOrder   []uuid.UUID
	courses     map[uuid.UUID]models.Course
	departments map[uuid.UUID]models.Department
	skills      map[uuid.UUID]models.Skill
	completions []models.CourseCompletion
	certs       []models.Certification
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memorySnapshot{
		users:       make(map[uuid.UUID]*models.User, len(s.users)),
		userOrder:   append([]uuid.UUID(nil), s.userOrder...),
		courses:     make(map[uuid.UUID]models.Course, len(s.courses)),
		departments: make(map[uuid.UUID]models.Department, len(s.departments)),
		skills:      make(map[uuid.UUID]models.Skill, len(s.skills)),
		completions: append([]models.CourseCompletion(nil), s.completions...),
		certs:       append([]models.Certification(nil), s.certs...),
	}
	for k, v := range s.users {
		snap.users[k] = v.Clone()
	}
	for k, v := range s.courses {
		snap.courses[k] = v
	}
	for k, v := range s.departments {
		snap.departments[k] = v
	}
	for k, v := range s.skills {
		snap.skills[k] = v
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.userOrder = snap.userOrder
	s.courses = snap.courses
	s.departments = snap.departments
	s.skills = snap.skills
	s.completions = snap.completions
	s.certs = snap.certs
}

// Transaction restores the state captured before fn when fn fails. Writes
// from other goroutines made while fn runs are rolled back with it.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// --- users ---

func (s *MemoryStore) withDepartment(u *models.User) *models.User {
	cp := u.Clone()
	cp.Department = nil
	if u.DepartmentID != nil {
		if dept, ok := s.departments[*u.DepartmentID]; ok {
			cp.Department = &dept
		}
	}
	return cp
}

func (s *MemoryStore) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.withDepartment(u), nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return s.withDepartment(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.EmployeeID == employeeID {
			return s.withDepartment(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, *s.withDepartment(s.users[id]))
	}
	return users, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := s.users[user.ID]; ok {
		return ErrDuplicate
	}
	for _, u := range s.users {
		if u.Email == user.Email || u.EmployeeID == user.EmployeeID {
			return ErrDuplicate
		}
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	s.users[user.ID] = user.Clone()
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, u := range s.users {
		if id != user.ID && (u.Email == user.Email || u.EmployeeID == user.EmployeeID) {
			return ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	for i, uid := range s.userOrder {
		if uid == id {
			s.userOrder = append(s.userOrder[:i:i], s.userOrder[i+1:]...)
			break
		}
	}
	return nil
}

// --- catalog ---

func (s *MemoryStore) FindCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (s *MemoryStore) ListCourses(ctx context.Context, level string) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if level == "" || c.Level == level {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Title < courses[j].Title })
	return courses, nil
}

func (s *MemoryStore) CreateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := course.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := s.courses[course.ID]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	course.CreatedAt, course.UpdatedAt = now, now
	s.courses[course.ID] = *course
	return nil
}

func (s *MemoryStore) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *MemoryStore) FindDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *MemoryStore) FindDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if strings.EqualFold(d.Name, name) {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListDepartments(ctx context.Context) ([]models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	depts := make([]models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		depts = append(depts, d)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
	return depts, nil
}

func (s *MemoryStore) CreateDepartment(ctx context.Context, dept *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := dept.BeforeCreate(nil); err != nil {
		return err
	}
	for _, d := range s.departments {
		if d.ID == dept.ID || d.Name == dept.Name || d.Slug == dept.Slug {
			return ErrDuplicate
		}
	}
	now := time.Now()
	dept.CreatedAt, dept.UpdatedAt = now, now
	s.departments[dept.ID] = *dept
	return nil
}

func (s *MemoryStore) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return ErrNotFound
	}
	delete(s.departments, id)
	return nil
}

func (s *MemoryStore) ListSkills(ctx context.Context, departmentID *uuid.UUID) ([]models.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	skills := make([]models.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		if departmentID == nil || sk.DepartmentID == *departmentID {
			skills = append(skills, sk)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

func (s *MemoryStore) CreateSkill(ctx context.Context, skill *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := skill.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := s.skills[skill.ID]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	skill.CreatedAt, skill.UpdatedAt = now, now
	stored := *skill
	stored.Department = nil
	s.skills[skill.ID] = stored
	return nil
}

// --- records ---

func (s *MemoryStore) CompletionsByEmployee(ctx context.Context, employeeID string) ([]models.CourseCompletion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CourseCompletion
	for _, c := range s.completions {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletionDate.Before(out[j].CompletionDate) })
	return out, nil
}

func (s *MemoryStore) CreateCompletion(ctx context.Context, completion *models.CourseCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := completion.BeforeCreate(nil); err != nil {
		return err
	}
	completion.CreatedAt = time.Now()
	s.completions = append(s.completions, *completion)
	return nil
}

func (s *MemoryStore) CertificationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Certification
	for _, c := range s.certs {
		if c.UserID != userID {
			continue
		}
		if course, ok := s.courses[c.CourseID]; ok {
			c.Course = &course
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func (s *MemoryStore) CreateCertification(ctx context.Context, cert *models.Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := cert.BeforeCreate(nil); err != nil {
		return err
	}
	for _, c := range s.certs {
		if c.UserID == cert.UserID && c.CourseID == cert.CourseID {
			return ErrDuplicate
		}
	}
	cert.CreatedAt = time.Now()
	stored := *cert
	stored.Course = nil
	s.certs = append(s.certs, stored)
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
