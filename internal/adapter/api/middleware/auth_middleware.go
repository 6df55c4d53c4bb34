package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"carelink/internal/domain/entity"
	"carelink/internal/infrastructure/auth"
	"carelink/pkg/errors"
	"carelink/pkg/response"
)

type AuthMiddleware struct {
	verifier *auth.Verifier
}

func NewAuthMiddleware(verifier *auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate verifies the bearer credential and stores the resulting
// principal on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		principal, err := m.verifier.Verify(parts[1])
		if err != nil {
			return response.Error(c, err)
		}

		c.Set("principal", principal)

		return next(c)
	}
}

// PrincipalFromContext returns the principal stored by Authenticate.
func PrincipalFromContext(c echo.Context) (entity.Principal, bool) {
	principal, ok := c.Get("principal").(entity.Principal)
	return principal, ok
}
