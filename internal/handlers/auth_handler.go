package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err, "login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.JWTAccessExpiry),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, &req); err != nil {
		return serviceError(c, err, "change password")
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated successfully"})
}
