package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
)

// ContextUserKey is where the auth middleware stores the caller.
const ContextUserKey = "user"

// SessionCookieName names the cookie carrying the session token.
const SessionCookieName = "token"

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// success writes {"success": true, ...payload}.
func success(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

// currentUser returns the caller resolved by the auth middleware.
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	if !ok || user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

// sessionToken reads the credential from the Authorization header or the
// session cookie.
func sessionToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (cfg CookieConfig) sameSite() http.SameSite {
	// Browsers drop SameSite=None cookies that are not Secure.
	if cfg.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (cfg CookieConfig) set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
		MaxAge:   int(cfg.TTL.Seconds()),
		Expires:  time.Now().Add(cfg.TTL),
	})
}

func (cfg CookieConfig) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// bindAndValidate binds the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.FromValidator(err)
	}
	return nil
}
