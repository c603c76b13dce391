package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService struct {
	users store.UserStore
	cfg   *config.Config
}

func NewAuthService(users store.UserStore, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		Role:    user.Role,
		ID:      user.ID,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hash

	return s.users.SaveUser(ctx, user)
}

// SeedAdmin makes sure the configured administrator account exists. An
// existing account with that email is promoted; its password is left alone.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}
	email := normalizeEmail(s.cfg.AdminEmail)

	existing, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		existing.Role = models.RoleAdmin
		slog.Info("promoting configured user to admin", "email", email)
		return s.users.SaveUser(ctx, existing)
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := hashPassword(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName:  "System",
		LastName:   "Administrator",
		Email:      email,
		Password:   hash,
		Role:       models.RoleAdmin,
		EmployeeID: "ADMIN",
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("seeded admin account", "email", email)
	return nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
