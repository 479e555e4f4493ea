package httpserver

import (
	"net/http"
	"time"
)

const (
	SessionCookie = "adminSession"
	sessionPath   = "/api/v1/admin"
	// Browsers cap cookie lifetimes at about 400 days.
	sessionCookieTTL = 400 * 24 * time.Hour
)

func CreateCookie(name, value, path string, secure bool, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
