package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

const sessionTTL = 30 * 24 * time.Hour

const userIDKey = "user_id"

// SessionClaims is the payload of the session token. The user id is the
// sole authorization signal in the system.
type SessionClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// NewSessionCookie mints a signed session cookie for the given user id.
func NewSessionCookie(userID int, key []byte) (*http.Cookie, error) {
	expiresAt := time.Now().Add(sessionTTL)
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearSessionCookie returns a cookie that expires the session immediately.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Session returns an Echo middleware that resolves the session cookie into a
// user id on the request context. It never rejects a request: each handler
// decides what a missing or unverifiable identity means for its route.
func Session(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims := &SessionClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !tkn.Valid {
				// Tampered or expired cookie reads the same as no cookie.
				return next(c)
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// SessionUserID returns the user id the session cookie resolved to, if any.
func SessionUserID(c echo.Context) (int, bool) {
	id, ok := c.Get(userIDKey).(int)
	return id, ok
}
