package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bodega/internal/guard"
	"github.com/Skotchmaster/bodega/internal/transport"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

const SessionContextKey = "admin_session"

var (
	errAnonymous    = errors.New("no admin session")
	errSessionStore = errors.New("session store")
)

type SessionHTTP struct {
	Guard        *guard.Guard
	CookieSecure bool
}

func sessionToken(c echo.Context) string {
	ck, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (h *SessionHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, _, err := h.Guard.Login(ctx, req.Password)
	if err != nil {
		if errors.Is(err, guard.ErrWrongPassword) {
			l.Warn("login_error", "status", 401, "reason", "wrong password")
			return echo.NewHTTPError(http.StatusUnauthorized, guard.WrongPasswordMessage)
		}
		l.Error("login_error", "status", 500, "reason", "cannot open session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot open session")
	}

	c.SetCookie(CreateCookie(SessionCookie, token, sessionPath, h.CookieSecure, time.Now().Add(sessionCookieTTL)))
	return c.JSON(http.StatusOK, transport.SessionResponse{Authenticated: true})
}

func (h *SessionHTTP) Status(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.status")

	s, err := h.Guard.Init(ctx, sessionToken(c))
	if err != nil {
		l.Error("session_status_error", "status", 500, "reason", "cannot read session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read session")
	}
	return c.JSON(http.StatusOK, transport.SessionResponse{Authenticated: s.Authenticated()})
}

func (h *SessionHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.logout")

	s, err := h.Guard.Init(ctx, sessionToken(c))
	if err == nil {
		_, err = h.Guard.Logout(ctx, s)
	}
	if err != nil {
		l.Error("logout_error", "status", 500, "reason", "cannot close session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot close session")
	}

	c.SetCookie(DeleteCookie(SessionCookie, sessionPath, h.CookieSecure))
	return c.NoContent(http.StatusNoContent)
}

// RequireAdmin lets a request through only when its session cookie maps to
// a live admin session.
func RequireAdmin(g *guard.Guard) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + SessionCookie,
		ContextKey:  SessionContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			s, err := g.Init(c.Request().Context(), auth)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errSessionStore, err)
			}
			if !s.Authenticated() {
				return nil, errAnonymous
			}
			return s, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "require_admin")
			if errors.Is(err, errSessionStore) {
				l.Error("unauthorized", "status", 500, "reason", "cannot verify session", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot verify session")
			}
			l.Warn("unauthorized", "status", 401, "reason", "no admin session", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "No autorizado.")
		},
	})
}
