package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdminService(f *fixture) *AdminService {
	svc := NewAdminService(f.store, testConfig())
	svc.now = func() time.Time { return f.fixedAt }
	return svc
}

var employeeCode = regexp.MustCompile(`^EMP\d{13}\d{1,2}$`)

func TestCreateEmployeeGeneratesCredentials(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	creds, err := svc.CreateEmployee(f.ctx, &dto.CreateEmployeeRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Department:  "engineering",
		Designation: "Analyst",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace@company.com", creds.Email)
	assert.Len(t, creds.Password, 8)
	assert.Regexp(t, employeeCode, creds.EmployeeID)

	u, err := f.store.FindUserByEmail(f.ctx, "ada.lovelace@company.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, u.Role)
	require.NotNil(t, u.DepartmentID)
	assert.Equal(t, f.dept.ID, *u.DepartmentID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(creds.Password)))
}

func TestCreateEmployeeExplicitValues(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	creds, err := svc.CreateEmployee(f.ctx, &dto.CreateEmployeeRequest{
		FirstName:  "Mary Ann",
		LastName:   "O'Neil",
		Department: f.dept.ID.String(),
		Email:      "MA@Company.com",
		Password:   "chosen-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "ma@company.com", creds.Email)
	assert.Equal(t, "chosen-password", creds.Password)
}

func TestCreateEmployeeErrors(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	_, err := svc.CreateEmployee(f.ctx, &dto.CreateEmployeeRequest{FirstName: "Grace", LastName: "Hopper"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.CreateEmployee(f.ctx, &dto.CreateEmployeeRequest{FirstName: "Alan", LastName: "Turing", Department: "Marketing"})
	assert.ErrorIs(t, err, ErrDepartmentNotFound)

	_, err = svc.CreateEmployee(f.ctx, &dto.CreateEmployeeRequest{FirstName: "Alan", LastName: "Turing", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestBulkCreateEmployees(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	resp := svc.BulkCreateEmployees(f.ctx, []dto.CreateEmployeeRequest{
		{FirstName: "Ada", LastName: "Lovelace", Department: "Engineering"},
		{FirstName: "ada", LastName: "lovelace"},
		{FirstName: "Grace", LastName: "Hopper"},
		{FirstName: "Alan", LastName: "Turing", Department: "Nowhere"},
		{FirstName: "Linus", LastName: "Torvalds"},
	})

	require.Len(t, resp.Created, 2)
	assert.Equal(t, "ada.lovelace@company.com", resp.Created[0].Email)
	assert.Equal(t, "linus.torvalds@company.com", resp.Created[1].Email)
	assert.NotEqual(t, resp.Created[0].EmployeeID, resp.Created[1].EmployeeID)

	require.Len(t, resp.Errors, 3)
	assert.Equal(t, 2, resp.Errors[0].Row)
	assert.Equal(t, 3, resp.Errors[1].Row)
	assert.Equal(t, ErrEmailTaken.Error(), resp.Errors[1].Message)
	assert.Equal(t, 4, resp.Errors[2].Row)
	assert.Equal(t, ErrDepartmentNotFound.Error(), resp.Errors[2].Message)
}

func TestListAndDeleteEmployees(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	list, err := svc.ListEmployees(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Engineering", list[0].DepartmentName)

	require.NoError(t, svc.DeleteEmployee(f.ctx, f.user.ID))
	assert.ErrorIs(t, svc.DeleteEmployee(f.ctx, f.user.ID), ErrEmployeeNotFound)
}

func TestDepartmentsAndSkills(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	dept, err := svc.CreateDepartment(f.ctx, &dto.CreateDepartmentRequest{Name: " Human Resources "})
	require.NoError(t, err)
	assert.Equal(t, "Human Resources", dept.Name)
	assert.Equal(t, "human-resources", dept.Slug)

	_, err = svc.CreateDepartment(f.ctx, &dto.CreateDepartmentRequest{Name: "human resources"})
	assert.ErrorIs(t, err, ErrDepartmentExists)

	skill, err := svc.CreateSkill(f.ctx, &dto.CreateSkillRequest{Name: "Recruiting", DepartmentID: dept.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, dept.ID, skill.DepartmentID)

	_, err = svc.CreateSkill(f.ctx, &dto.CreateSkillRequest{Name: "Ghost", DepartmentID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrDepartmentNotFound)

	skills, err := svc.ListSkills(f.ctx, &dept.ID)
	require.NoError(t, err)
	assert.Len(t, skills, 1)

	depts, err := svc.ListDepartments(f.ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 2)

	require.NoError(t, svc.DeleteDepartment(f.ctx, dept.ID))
	assert.ErrorIs(t, svc.DeleteDepartment(f.ctx, dept.ID), ErrDepartmentNotFound)
}

func TestCreateCourseMergesSkills(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	course, err := svc.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Title:     "Data Engineering",
		Skills:    []string{"SQL", "Python"},
		SkillsCSV: "python, Spark ,,SQL",
		Level:     "Intermediate",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL", "Python", "Spark"}, []string(course.Skills))

	require.NoError(t, svc.DeleteCourse(f.ctx, course.ID))
	assert.ErrorIs(t, svc.DeleteCourse(f.ctx, course.ID), ErrCourseNotFound)
}

func TestVerifyEnrollment(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)
	learning := newLearningService(f)

	_, err := learning.AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	score := 91.0
	require.NoError(t, learning.SubmitToSupervisor(f.ctx, f.user.ID, f.goLang.ID, &dto.SubmitToSupervisorRequest{Score: &score}))

	resp, err := svc.VerifyEnrollment(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.PointsAwarded)
	assert.Equal(t, 50, resp.Points)
	assert.True(t, resp.Enrollment.IsVerified)

	// repeat verification awards nothing and records nothing new
	resp, err = svc.VerifyEnrollment(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.PointsAwarded)
	assert.Equal(t, 50, f.reload(t).Points)

	completions, err := f.store.CompletionsByEmployee(f.ctx, "EMP100")
	require.NoError(t, err)
	assert.Len(t, completions, 1)

	certs, err := learning.GetCertifications(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	require.NotNil(t, certs[0].Score)
	assert.Equal(t, 91.0, *certs[0].Score)
	assert.Equal(t, "Go Fundamentals", certs[0].Course.Title)
}

func TestVerifyEnrollmentSetsMissingCompletionDate(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)
	_, err := newLearningService(f).AddCourse(f.ctx, f.user.ID, f.k8s.ID)
	require.NoError(t, err)

	resp, err := svc.VerifyEnrollment(f.ctx, f.user.ID, f.k8s.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Enrollment.CompletionDate)
	assert.True(t, f.fixedAt.Equal(*resp.Enrollment.CompletionDate))
}

func TestVerifyEnrollmentErrors(t *testing.T) {
	f := newFixture(t)
	svc := newAdminService(f)

	_, err := svc.VerifyEnrollment(f.ctx, uuid.New(), f.goLang.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.VerifyEnrollment(f.ctx, f.user.ID, f.goLang.ID)
	assert.ErrorIs(t, err, ErrCourseNotInBucket)
}

func TestVerifyEnrollmentRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	_, err := newLearningService(f).AddCourse(f.ctx, f.user.ID, f.goLang.ID)
	require.NoError(t, err)

	// An existing certificate makes the final insert fail after the user
	// row and completion event were already written.
	require.NoError(t, f.store.CreateCertification(f.ctx, &models.Certification{UserID: f.user.ID, CourseID: f.goLang.ID, IssuedAt: f.fixedAt}))

	_, err = newAdminService(f).VerifyEnrollment(f.ctx, f.user.ID, f.goLang.ID)
	require.Error(t, err)

	u := f.reload(t)
	assert.Equal(t, 0, u.Points)
	assert.False(t, u.Courses[0].IsVerified)
	completions, err := f.store.CompletionsByEmployee(f.ctx, "EMP100")
	require.NoError(t, err)
	assert.Empty(t, completions)
}
