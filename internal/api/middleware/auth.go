package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/resource-api/internal/api/metrics"
	"github.com/authgate/resource-api/internal/core/access"
	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

type contextKey string

const authContextKey contextKey = "authgate_auth_context"

// WithAuthContext attaches ac to ctx.
func WithAuthContext(ctx context.Context, ac domain.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// AuthContextFrom returns the AuthContext attached to ctx, or the anonymous
// context when none was attached.
func AuthContextFrom(ctx context.Context) domain.AuthContext {
	if ac, ok := ctx.Value(authContextKey).(domain.AuthContext); ok {
		return ac
	}
	return domain.Anonymous()
}

// Auth resolves the caller identity for a route class and stores it in the
// request context. A missing Authorization header yields the anonymous
// context; a header that is present but invalid fails with 401. On classes
// that do not authenticate, headers are ignored entirely.
func Auth(authn ports.TokenAuthenticator, class *access.RouteClass, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ac := domain.Anonymous()

			authHeader := req.Header.Get(echo.HeaderAuthorization)
			if class.Authenticated && authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
					metrics.TokenRejectionsTotal.WithLabelValues("malformed").Inc()
					return fmt.Errorf("%w: invalid authorization header", domain.ErrTokenMalformed)
				}

				resolved, err := authn.Authenticate(strings.TrimSpace(parts[1]))
				if err != nil {
					reason := rejectionReason(err)
					metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
					log.Debug().Str("reason", reason).Str("route_class", class.Name).Msg("bearer token rejected")
					return err
				}
				ac = resolved
			}

			c.SetRequest(req.WithContext(WithAuthContext(req.Context(), ac)))
			return next(c)
		}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	default:
		return "malformed"
	}
}
