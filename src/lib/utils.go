package lib

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
)

// Payload is the inner half of the response envelope. On failure Data holds
// the stable ErrorKind string instead of a document.
type Payload struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ApiResponse struct {
	StatusCode int     `json:"statusCode"`
	Message    string  `json:"message"`
	Payload    Payload `json:"payload"`
}

// SuccessResponse writes the envelope for a successful operation.
func SuccessResponse(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(ApiResponse{
		StatusCode: status,
		Message:    message,
		Payload:    Payload{Success: true, Data: data},
	})
}

// ErrorResponse maps an application error onto the envelope. The ErrorKind
// string in payload.data is stable; the message is for humans.
func ErrorResponse(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)
	return c.Status(code.HTTPStatus()).JSON(ApiResponse{
		StatusCode: code.HTTPStatus(),
		Message:    apperrors.MessageOf(err),
		Payload:    Payload{Success: false, Data: code.Kind()},
	})
}

// GenerateJWT mints an HS256 bearer token for the given user.
func GenerateJWT(userID primitive.ObjectID, secret string, expiresIn time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyJWT verifies and decodes a bearer token, returning its claims.
func VerifyJWT(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
}

// NewRoomToken returns a fresh 128-bit random identifier scoping one call's
// signaling exchange.
func NewRoomToken() string {
	return uuid.NewString()
}
