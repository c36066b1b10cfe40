package router

import (
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/handler"
	"hotelbook/internal/model"
	"hotelbook/internal/observability"
	"hotelbook/internal/service"
)

// Authenticate resolves the session credential to a user and stores it in the
// context. With roles given, the user must hold one of them.
func Authenticate(identity service.IdentityService, roles ...model.Role) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + handler.SessionCookieName,
		ContextKey:  handler.ContextUserKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return identity.Authorize(c.Request().Context(), auth, roles...)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *apperrors.Error
			if errors.As(err, &appErr) {
				return appErr
			}
			return apperrors.ErrUnauthenticated
		},
	})
}

// Metrics records request counts and latency per route.
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			status = statusOf(err)
		}
		route := c.Path()
		if route == "" {
			route = c.Request().URL.Path
		}
		observability.ObserveHTTP(route, c.Request().Method, status, time.Since(start))
		return err
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(l zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURIPath:   true,
		LogRoutePath: true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			if v.Error != nil {
				status = statusOf(v.Error)
			}
			ev := l.Info()
			if status >= http.StatusInternalServerError {
				ev = l.Error().Err(v.Error)
			}
			ev.Str("route", v.RoutePath).
				Str("path", v.URIPath).
				Str("method", v.Method).
				Int("status", status).
				Dur("duration", v.Latency).
				Str("remote", v.RemoteIP).
				Str("ua", v.UserAgent).
				Str("request_id", v.RequestID).
				Msg("http_request")
			return nil
		},
	})
}

// statusOf returns the status the error handler will answer with.
func statusOf(err error) int {
	status, _ := errorResponse(err)
	return status
}
