package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

const viewerLocal = "viewer"

// ResolveUser loads the token's user from the store and keeps the result
// for GetViewer. Accounts deleted after the token was issued are rejected,
// and the admin flag comes from the stored role, never from the token.
func ResolveUser(users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := resolveViewer(c, users); err != nil {
			return err
		}
		return c.Next()
	}
}

// AdminRequired admits callers whose stored role is admin. A demotion or
// deletion takes effect immediately, even for tokens issued earlier.
func AdminRequired(users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer, err := resolveViewer(c, users)
		if err != nil {
			return err
		}
		if !viewer.Admin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

func resolveViewer(c *fiber.Ctx, users store.UserStore) (services.Viewer, error) {
	if v, ok := c.Locals(viewerLocal).(services.Viewer); ok {
		return v, nil
	}

	userID, err := GetUserID(c)
	if err != nil {
		return services.Viewer{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	user, err := users.FindUser(c.UserContext(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return services.Viewer{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	if err != nil {
		return services.Viewer{}, err
	}

	v := services.Viewer{UserID: user.ID, Admin: user.IsAdmin()}
	c.Locals(viewerLocal, v)
	return v, nil
}
