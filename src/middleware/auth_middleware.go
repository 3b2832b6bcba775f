package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
)

// ProtectRoute checks the bearer token, loads the account and attaches it to
// the request context as "user". Every core operation downstream takes the
// actor identity from there, never from the request body.
func ProtectRoute(users services.UserStore, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return lib.ErrorResponse(c, apperrors.Unauthorized("token missing"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return lib.ErrorResponse(c, apperrors.Unauthorized("malformed token"))
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := lib.VerifyJWT(token, jwtSecret)
		if err != nil {
			return lib.ErrorResponse(c, apperrors.Unauthorized("invalid or expired token"))
		}

		userID, ok := claims["userId"].(string)
		if !ok {
			return lib.ErrorResponse(c, apperrors.Unauthorized("invalid token"))
		}

		objectID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return lib.ErrorResponse(c, apperrors.Unauthorized("invalid token"))
		}

		user, err := users.FindByID(c.Context(), objectID)
		if err != nil || user == nil {
			return lib.ErrorResponse(c, apperrors.Unauthorized("user not found"))
		}

		user.Password = ""
		c.Locals("user", *user)

		return c.Next()
	}
}
