package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// serviceAccountMiddleware guards the privacy endpoints: only the host's
// compliance orchestrator, calling with a service-account session, may
// drive them.
func serviceAccountMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsService {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// sessionUserMiddleware rejects guest sessions; the block and its settings
// are for logged-in users only.
func sessionUserMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.Guest {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
