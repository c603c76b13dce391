package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return mc, nil
}

// GetUserID extracts the user UUID from the JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, err := claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := mc["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

// GetViewer returns the caller resolved by ResolveUser or AdminRequired.
func GetViewer(c *fiber.Ctx) (services.Viewer, error) {
	v, ok := c.Locals(viewerLocal).(services.Viewer)
	if !ok {
		return services.Viewer{}, errors.New("caller not resolved")
	}
	return v, nil
}
