package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/resource-api/internal/api/metrics"
	"github.com/authgate/resource-api/internal/core/access"
	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

// Gate enforces a route class's capability matrix before any handler runs.
type Gate struct {
	class *access.RouteClass
	audit ports.AuditSink
	log   zerolog.Logger
}

// NewGate creates a Gate for class. audit may be nil.
func NewGate(class *access.RouteClass, audit ports.AuditSink, log zerolog.Logger) *Gate {
	return &Gate{class: class, audit: audit, log: log}
}

// RequireAction allows the request through only when the caller's role is
// granted action. The resource type is taken from the ":model" path param.
func (g *Gate) RequireAction(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac := AuthContextFrom(c.Request().Context())
			resource := c.Param("model")

			d := g.class.Authorize(ac, action, resource)
			if d.Allowed {
				metrics.GateDecisionsTotal.WithLabelValues(g.class.Name, string(action), "allow").Inc()
				return next(c)
			}

			decision := "forbidden"
			if errors.Is(d.Reason, domain.ErrUnauthorized) {
				decision = "unauthorized"
			}
			metrics.GateDecisionsTotal.WithLabelValues(g.class.Name, string(action), decision).Inc()

			g.log.Info().
				Str("route_class", g.class.Name).
				Str("username", ac.Subject).
				Str("role", string(d.Role)).
				Str("action", string(action)).
				Str("model", resource).
				Msg("access denied")

			if g.audit != nil {
				g.audit.Enqueue(domain.AuthEvent{
					Kind:       domain.EventAccessDenied,
					Username:   ac.Subject,
					Role:       d.Role,
					Action:     action,
					Model:      resource,
					RouteClass: g.class.Name,
					Reason:     decision,
					Timestamp:  time.Now().UTC(),
				})
			}
			return d.Reason
		}
	}
}
