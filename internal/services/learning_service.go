package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/google/uuid"
)

// LearningService manages a user's learning bucket. Every mutation loads
// the user, changes the in-memory copy and persists it with one save, so
// a failed save leaves nothing behind.
type LearningService struct {
	store store.Store
	now   func() time.Time
}

func NewLearningService(s store.Store) *LearningService {
	return &LearningService{store: s, now: time.Now}
}

func (s *LearningService) AddCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseEnrollment, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindCourse(ctx, courseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if user.FindEnrollment(courseID) >= 0 {
		return nil, ErrCourseAlreadyInBucket
	}

	enrollment := models.CourseEnrollment{
		CourseID: courseID,
		Progress: 0,
		Type:     models.DefaultEnrollmentType,
	}
	user.Courses = append(user.Courses, enrollment)

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *LearningService) UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, progress int) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}

	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return err
	}

	idx := user.FindEnrollment(courseID)
	if idx < 0 {
		return ErrCourseNotInBucket
	}
	user.Courses[idx].Progress = progress

	return s.store.SaveUser(ctx, user)
}

func (s *LearningService) MarkComplete(ctx context.Context, userID, courseID uuid.UUID) error {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return err
	}

	idx := user.FindEnrollment(courseID)
	if idx < 0 {
		return ErrCourseNotInBucket
	}
	now := s.now()
	user.Courses[idx].CompletionDate = &now

	return s.store.SaveUser(ctx, user)
}

// SubmitToSupervisor records the score and completion date of an enrollment
// and merges the selected skills into the user's skill set. Skills already
// present keep their position; new ones are appended in the order given.
func (s *LearningService) SubmitToSupervisor(ctx context.Context, userID, courseID uuid.UUID, req *dto.SubmitToSupervisorRequest) error {
	if req.Score != nil && (*req.Score < 0 || *req.Score > 100) {
		return ErrInvalidScore
	}

	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return err
	}

	idx := user.FindEnrollment(courseID)
	if idx < 0 {
		return ErrCourseNotInBucket
	}

	completedAt := s.now()
	if req.CompletionDate != nil {
		completedAt = *req.CompletionDate
	}
	user.Courses[idx].Score = req.Score
	user.Courses[idx].CompletionDate = &completedAt

	for _, skill := range req.SelectedSkills {
		skill = strings.TrimSpace(skill)
		if skill == "" || user.HasSkill(skill) {
			continue
		}
		user.Skills = append(user.Skills, skill)
	}

	return s.store.SaveUser(ctx, user)
}

// --- queries ---

// ListCourses returns the catalog, optionally narrowed to one level.
func (s *LearningService) ListCourses(ctx context.Context, level string) ([]models.Course, error) {
	courses, err := s.store.ListCourses(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *LearningService) resolveCourses(ctx context.Context, enrollments []models.CourseEnrollment) ([]dto.EnrollmentResponse, error) {
	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	courses, err := s.store.CoursesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	byID := make(map[uuid.UUID]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	resp := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		item := dto.EnrollmentResponse{
			CourseID:       e.CourseID,
			Progress:       e.Progress,
			Type:           e.Type,
			Score:          e.Score,
			CompletionDate: e.CompletionDate,
			IsVerified:     e.IsVerified,
		}
		if c, ok := byID[e.CourseID]; ok {
			item.Course = &c
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *LearningService) GetLearningBucket(ctx context.Context, userID uuid.UUID) ([]dto.EnrollmentResponse, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveCourses(ctx, user.Courses)
}

func (s *LearningService) GetVerifiedCourses(ctx context.Context, userID uuid.UUID) ([]dto.EnrollmentResponse, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	verified := make([]models.CourseEnrollment, 0, len(user.Courses))
	for _, e := range user.Courses {
		if e.IsVerified {
			verified = append(verified, e)
		}
	}
	return s.resolveCourses(ctx, verified)
}

func (s *LearningService) GetScores(ctx context.Context, userID uuid.UUID) ([]dto.ScoreResponse, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	scores := make([]dto.ScoreResponse, 0, len(user.Courses))
	for _, e := range user.Courses {
		scores = append(scores, dto.ScoreResponse{
			CourseID:       e.CourseID,
			Score:          e.Score,
			Progress:       e.Progress,
			IsVerified:     e.IsVerified,
			CompletionDate: e.CompletionDate,
		})
	}
	return scores, nil
}

// GetUserSkills resolves each entry of the skill set against the skill
// catalog, by id first and then by case-insensitive name. Entries with no
// catalog match are returned by name only.
func (s *LearningService) GetUserSkills(ctx context.Context, userID uuid.UUID) ([]dto.SkillResponse, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Skills) == 0 {
		return []dto.SkillResponse{}, nil
	}

	catalog, err := s.store.ListSkills(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	byID := make(map[uuid.UUID]models.Skill, len(catalog))
	byName := make(map[string]models.Skill, len(catalog))
	for _, sk := range catalog {
		byID[sk.ID] = sk
		if _, ok := byName[strings.ToLower(sk.Name)]; !ok {
			byName[strings.ToLower(sk.Name)] = sk
		}
	}

	skills := make([]dto.SkillResponse, 0, len(user.Skills))
	for _, entry := range user.Skills {
		sk, ok := models.Skill{}, false
		if id, err := uuid.Parse(entry); err == nil {
			sk, ok = byID[id]
		}
		if !ok {
			sk, ok = byName[strings.ToLower(entry)]
		}
		if !ok {
			skills = append(skills, dto.SkillResponse{Name: entry})
			continue
		}
		id := sk.ID
		skills = append(skills, dto.SkillResponse{
			ID:          &id,
			Name:        sk.Name,
			Description: sk.Description,
			Level:       sk.Level,
		})
	}
	return skills, nil
}

func (s *LearningService) GetSkillsByDepartment(ctx context.Context, userID uuid.UUID) ([]dto.DepartmentSkillResponse, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if user.DepartmentID == nil {
		return nil, ErrDepartmentNotFound
	}

	dept, err := s.store.FindDepartment(ctx, *user.DepartmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	skills, err := s.store.ListSkills(ctx, &dept.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	resp := make([]dto.DepartmentSkillResponse, 0, len(skills))
	for _, sk := range skills {
		resp = append(resp, dto.DepartmentSkillResponse{
			ID:             sk.ID,
			Name:           sk.Name,
			Description:    sk.Description,
			Level:          sk.Level,
			DepartmentID:   dept.ID,
			DepartmentName: dept.Name,
		})
	}
	return resp, nil
}

func (s *LearningService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := findUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	deptName := ""
	if user.Department != nil {
		deptName = user.Department.Name
	}

	return &dto.ProfileResponse{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		Role:           user.Role,
		DepartmentName: deptName,
		EmployeeID:     user.EmployeeID,
		Designation:    user.Designation,
		Points:         user.Points,
		Progress:       Progress(user.Points),
	}, nil
}

func (s *LearningService) GetCertifications(ctx context.Context, userID uuid.UUID) ([]models.Certification, error) {
	if _, err := findUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	certs, err := s.store.CertificationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load certifications: %w", err)
	}
	if certs == nil {
		certs = []models.Certification{}
	}
	return certs, nil
}
