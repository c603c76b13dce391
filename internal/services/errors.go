package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotInBucket  = errors.New("course not found in learning bucket")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrSkillNotFound      = errors.New("skill not found")

	ErrInvalidProgress       = errors.New("progress must be between 0 and 100")
	ErrCourseAlreadyInBucket = errors.New("course already exists in the learning bucket")
	ErrInvalidScore          = errors.New("score must be between 0 and 100")
	ErrWeakPassword          = errors.New("password must be at least 8 characters")
	ErrIncorrectPassword     = errors.New("current password is incorrect")

	ErrEmailTaken       = errors.New("email already registered")
	ErrDepartmentExists = errors.New("department already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access denied")

	ErrRecommendationUnavailable = errors.New("recommendations are currently unavailable")
)

// Viewer identifies the caller of an operation that reads another user's
// data.
type Viewer struct {
	UserID uuid.UUID
	Admin  bool
}

func (v Viewer) canView(u *models.User) bool {
	return v.Admin || v.UserID == u.ID
}

func findUser(ctx context.Context, users store.UserStore, id uuid.UUID) (*models.User, error) {
	user, err := users.FindUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func findEmployee(ctx context.Context, users store.UserStore, employeeID string) (*models.User, error) {
	user, err := users.FindUserByEmployeeID(ctx, employeeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	return user, nil
}
