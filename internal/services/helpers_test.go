package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

var errSaveFailed = errors.New("save failed")

// failingSaveStore rejects every user save while serving reads normally.
type failingSaveStore struct {
	*store.MemoryStore
}

func (f *failingSaveStore) SaveUser(ctx context.Context, user *models.User) error {
	return errSaveFailed
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret",
		JWTAccessExpiry:       time.Hour,
		EmailDomain:           "company.com",
		PointsPerVerification: 50,
	}
}

type fixture struct {
	store   *store.MemoryStore
	user    *models.User
	goLang  *models.Course
	k8s     *models.Course
	dept    *models.Department
	ctx     context.Context
	fixedAt time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()

	dept := &models.Department{Name: "Engineering", Slug: "engineering"}
	require.NoError(t, s.CreateDepartment(ctx, dept))

	goLang := &models.Course{Title: "Go Fundamentals", Level: "Beginner", Skills: datatypes.JSONSlice[string]{"Go", "Testing"}}
	k8s := &models.Course{Title: "Kubernetes", Level: "Advanced", Skills: datatypes.JSONSlice[string]{"Kubernetes", "go"}}
	require.NoError(t, s.CreateCourse(ctx, goLang))
	require.NoError(t, s.CreateCourse(ctx, k8s))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace.hopper@company.com",
		Password:     string(hash),
		EmployeeID:   "EMP100",
		DepartmentID: &dept.ID,
		Designation:  "Engineer",
	}
	require.NoError(t, s.CreateUser(ctx, user))

	return &fixture{
		store:   s,
		user:    user,
		goLang:  goLang,
		k8s:     k8s,
		dept:    dept,
		ctx:     ctx,
		fixedAt: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) reload(t *testing.T) *models.User {
	t.Helper()
	u, err := f.store.FindUser(f.ctx, f.user.ID)
	require.NoError(t, err)
	return u
}
