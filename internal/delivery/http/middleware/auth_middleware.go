package middleware

import (
	"errors"
	"strings"

	"user-service/internal/pkg/apperror"
	"user-service/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const ctxIdentityKey = "identity"

// Identity is the authenticated caller attached to the request. ID is whatever the
// token carried; handlers validate its format.
type Identity struct {
	ID    string
	Email string
}

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperror.Unauthorized("Unauthorized")
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return apperror.Unauthorized("Token expired").WithCause(err)
			}
			return apperror.Unauthorized("Invalid token").WithCause(err)
		}

		SetIdentity(c, Identity{ID: claims.UserID, Email: claims.Email})
		return c.Next()
	}
}

func SetIdentity(c fiber.Ctx, id Identity) {
	c.Locals(ctxIdentityKey, id)
}

func IdentityFrom(c fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(ctxIdentityKey).(Identity)
	return id, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
