package httpmid

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fmateoc/entity-matching/internal/platform/reqcontext"
)

// Context tags every request's context with a request ID, method, route,
// and remote IP so downstream logging and tracing can correlate a health
// or readiness probe back to the request that produced it.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = reqcontext.SetRequestID(ctx, requestID)
			ctx = reqcontext.SetMethod(ctx, req.Method)
			ctx = reqcontext.SetRoute(ctx, req.URL.Path)
			ctx = reqcontext.SetRemoteIP(ctx, c.RealIP())

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
