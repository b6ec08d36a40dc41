package auth

import (
	"net/http"
	"time"
)

// Cookie names
const (
	// CookieName carries the session token; its presence is the credential marker
	CookieName = "MOONPULL_SESSION"
	// LegacyCookieName is cleared on logout alongside CookieName
	LegacyCookieName = "jwt"
)

// SessionCookie builds the cookie that carries token for ttl
func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that deletes name from the browser
func ExpiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookies expires both session cookies on w
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, ExpiredCookie(CookieName, secure))
	http.SetCookie(w, ExpiredCookie(LegacyCookieName, secure))
}
