package middleware

import (
	"context"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// AnonymousMiddleware scopes every request to the single local user. Used
// when the server runs without an identity provider.
func AnonymousMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), SubjectKey, "local")
			ctx = context.WithValue(ctx, UserIDKey, domain.AnonymousUserID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
