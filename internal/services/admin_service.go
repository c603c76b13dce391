package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
)

const (
	generatedPasswordLength = 8
	passwordAlphabet        = "abcdefghijklmnopqrstuvwxyz0123456789"
	employeeCodeAttempts    = 5
)

type AdminService struct {
	store store.Store
	cfg   *config.Config
	now   func() time.Time
}

func NewAdminService(s store.Store, cfg *config.Config) *AdminService {
	return &AdminService{store: s, cfg: cfg, now: time.Now}
}

// --- employees ---

// CreateEmployee registers an employee account. Missing email and password
// are generated; the returned credentials are the only place the plain
// password ever appears.
func (s *AdminService) CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeCredentials, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		email = s.generateEmail(req.FirstName, req.LastName)
	}
	return s.createEmployee(ctx, req, email)
}

func (s *AdminService) createEmployee(ctx context.Context, req *dto.CreateEmployeeRequest, email string) (*dto.EmployeeCredentials, error) {
	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	deptID, err := s.resolveDepartment(ctx, req.Department)
	if err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		if password, err = generatePassword(); err != nil {
			return nil, err
		}
	} else if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	code, err := s.newEmployeeCode(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Password:     hash,
		Role:         models.RoleEmployee,
		EmployeeID:   code,
		DepartmentID: deptID,
		Designation:  strings.TrimSpace(req.Designation),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("employee created", "user_id", user.ID, "employee_id", code)

	return &dto.EmployeeCredentials{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		EmployeeID: code,
		Email:      email,
		Password:   password,
	}, nil
}

// BulkCreateEmployees creates every row it can. Rows repeating an email
// already seen in the same upload are skipped; failed rows are reported
// with their 1-based position.
func (s *AdminService) BulkCreateEmployees(ctx context.Context, rows []dto.CreateEmployeeRequest) *dto.BulkUploadResponse {
	resp := &dto.BulkUploadResponse{
		Created: []dto.EmployeeCredentials{},
		Errors:  []dto.BulkRowError{},
	}
	seen := make(map[string]bool, len(rows))

	for i := range rows {
		row := &rows[i]
		email := normalizeEmail(row.Email)
		if email == "" {
			email = s.generateEmail(row.FirstName, row.LastName)
		}
		if seen[email] {
			resp.Errors = append(resp.Errors, dto.BulkRowError{
				Row: i + 1, Email: email, Message: "duplicate email in upload, row skipped",
			})
			continue
		}
		seen[email] = true

		creds, err := s.createEmployee(ctx, row, email)
		if err != nil {
			msg := err.Error()
			if !isDomainError(err) {
				slog.Error("bulk upload row failed", "row", i+1, "error", err)
				msg = "failed to create employee"
			}
			resp.Errors = append(resp.Errors, dto.BulkRowError{Row: i + 1, Email: email, Message: msg})
			continue
		}
		resp.Created = append(resp.Created, *creds)
	}
	return resp
}

func (s *AdminService) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	resp := make([]dto.EmployeeResponse, 0, len(users))
	for _, u := range users {
		deptName := ""
		if u.Department != nil {
			deptName = u.Department.Name
		}
		resp = append(resp, dto.EmployeeResponse{
			ID:             u.ID,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Email:          u.Email,
			Role:           u.Role,
			EmployeeID:     u.EmployeeID,
			DepartmentName: deptName,
			Designation:    u.Designation,
			Points:         u.Points,
			CourseCount:    len(u.Courses),
		})
	}
	return resp, nil
}

func (s *AdminService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func (s *AdminService) generateEmail(first, last string) string {
	local := slug.Make(first) + "." + slug.Make(last)
	local = strings.Trim(local, ".")
	if local == "" {
		local = "employee"
	}
	return local + "@" + s.cfg.EmailDomain
}

// newEmployeeCode returns EMP followed by the current unix milliseconds and
// a number below 100, retrying when the code is already taken.
func (s *AdminService) newEmployeeCode(ctx context.Context) (string, error) {
	for i := 0; i < employeeCodeAttempts; i++ {
		code := fmt.Sprintf("EMP%d%d", s.now().UnixMilli(), mrand.IntN(100))
		_, err := s.store.FindUserByEmployeeID(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check employee code: %w", err)
		}
	}
	return "", errors.New("could not allocate a unique employee code")
}

func generatePassword() (string, error) {
	b := make([]byte, generatedPasswordLength)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}

// resolveDepartment accepts a department id or name. An empty value means
// no department.
func (s *AdminService) resolveDepartment(ctx context.Context, ref string) (*uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}

	var (
		dept *models.Department
		err  error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		dept, err = s.store.FindDepartment(ctx, id)
	} else {
		dept, err = s.store.FindDepartmentByName(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}
	return &dept.ID, nil
}

// --- departments & skills ---

func (s *AdminService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	depts, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

func (s *AdminService) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.store.FindDepartmentByName(ctx, name); err == nil {
		return nil, ErrDepartmentExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check department: %w", err)
	}

	dept := &models.Department{Name: name, Slug: slug.Make(name)}
	if err := s.store.CreateDepartment(ctx, dept); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDepartmentExists
		}
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func (s *AdminService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteDepartment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

func (s *AdminService) ListSkills(ctx context.Context, departmentID *uuid.UUID) ([]models.Skill, error) {
	skills, err := s.store.ListSkills(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

func (s *AdminService) CreateSkill(ctx context.Context, req *dto.CreateSkillRequest) (*models.Skill, error) {
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, ErrDepartmentNotFound
	}
	if _, err := s.store.FindDepartment(ctx, deptID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	skill := &models.Skill{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Level:        req.Level,
		DepartmentID: deptID,
	}
	if err := s.store.CreateSkill(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return skill, nil
}

// --- catalog ---

func (s *AdminService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	tags := append([]string{}, req.Skills...)
	if req.SkillsCSV != "" {
		tags = append(tags, strings.Split(req.SkillsCSV, ",")...)
	}

	skills := datatypes.JSONSlice[string]{}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, tag)
	}

	course := &models.Course{
		Partner:         strings.TrimSpace(req.Partner),
		Title:           strings.TrimSpace(req.Title),
		Skills:          skills,
		Rating:          req.Rating,
		ReviewCount:     req.ReviewCount,
		Level:           req.Level,
		CertificateType: req.CertificateType,
		Duration:        req.Duration,
		CreditEligible:  req.CreditEligible,
	}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *AdminService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// --- verification ---

// VerifyEnrollment accepts an enrollment on behalf of a supervisor. The
// first verification awards points and records the completion event and
// the certificate; repeating it changes nothing.
func (s *AdminService) VerifyEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*dto.VerifyEnrollmentResponse, error) {
	var resp *dto.VerifyEnrollmentResponse

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		user, err := findUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		idx := user.FindEnrollment(courseID)
		if idx < 0 {
			return ErrCourseNotInBucket
		}

		now := s.now()
		e := &user.Courses[idx]
		first := !e.IsVerified
		if e.CompletionDate == nil {
			e.CompletionDate = &now
		}
		e.IsVerified = true

		awarded := 0
		if first {
			awarded = s.cfg.PointsPerVerification
			user.Points += awarded
		}

		if err := tx.SaveUser(ctx, user); err != nil {
			return err
		}

		if first {
			if err := tx.CreateCompletion(ctx, &models.CourseCompletion{
				CourseID:       courseID,
				EmployeeID:     user.EmployeeID,
				CompletionDate: *e.CompletionDate,
			}); err != nil {
				return fmt.Errorf("failed to record completion: %w", err)
			}
			if err := tx.CreateCertification(ctx, &models.Certification{
				UserID:   user.ID,
				CourseID: courseID,
				Score:    e.Score,
				IssuedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to issue certification: %w", err)
			}
		}

		resp = &dto.VerifyEnrollmentResponse{
			Message:       "Course verified successfully",
			Enrollment:    *e,
			PointsAwarded: awarded,
			Points:        user.Points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("enrollment verified", "user_id", userID, "course_id", courseID, "points_awarded", resp.PointsAwarded)
	return resp, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrEmailTaken, ErrDepartmentNotFound, ErrWeakPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
