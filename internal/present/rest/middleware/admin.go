package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/starcharter/orbits/internal/domain"
	"github.com/starcharter/orbits/internal/present/rest/presenter"
)

var tracer = otel.Tracer("admin")

// adminHeaderNames are the accepted credential header synonyms, checked
// in order; the first present value wins. Header lookup is
// case-insensitive.
var adminHeaderNames = []string{
	"x-orbits-admin",
	"x-admin-secret",
	"x-admin-password",
	"admin",
	"admin_password",
	"admin-password",
}

type AdminMiddleware struct {
	config domain.Config
}

func NewAdminMiddleware(config domain.Config) *AdminMiddleware {
	return &AdminMiddleware{
		config: config,
	}
}

// RequireAdmin gates mutating operations behind the shared admin
// secret. The comparison is constant-time. Runs before any request
// validation or persistence.
func (m *AdminMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Admin.Middleware.RequireAdmin")
		defer span.End()

		var provided string
		for _, name := range adminHeaderNames {
			if value := c.Request().Header.Get(name); value != "" {
				provided = value
				span.SetAttributes(attribute.String("header", name))
				break
			}
		}

		if m.config.AdminSecret == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(m.config.AdminSecret)) != 1 {
			span.RecordError(domain.ErrAuthMissing)
			return presenter.Error(c, domain.ErrAuthMissing)
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
