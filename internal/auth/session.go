package auth

import (
	"context"
	"net/http"
	"time"
)

const (
	// SessionCookie carries the signed HS256 token.
	SessionCookie = "psicoapp_session"
	sessionTTL    = 12 * time.Hour
)

type ctxKey int

const claimsKey ctxKey = iota

// Sessions issues session cookies and guards routes by role. It replaces
// the old decorator-style role gate with an explicit guard that takes the
// required role as a parameter.
type Sessions struct {
	secret string
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: secret}
}

func (s *Sessions) Issue(w http.ResponseWriter, sub, name, role string) error {
	now := time.Now()
	token, err := SignHS256(Claims{
		Sub:  sub,
		Name: name,
		Role: role,
		Iat:  now.Unix(),
		Exp:  now.Add(sessionTTL).Unix(),
	}, s.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return nil
}

func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Current returns the verified claims for the request, or nil when the
// visitor is anonymous or the cookie is invalid.
func (s *Sessions) Current(r *http.Request) *Claims {
	if claims, ok := r.Context().Value(claimsKey).(*Claims); ok {
		return claims
	}
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := ParseAndVerifyHS256(cookie.Value, s.secret)
	if err != nil {
		return nil
	}
	return claims
}

// RequireRole wraps a handler so only sessions carrying one of the given
// roles pass; everyone else is redirected to login. The verified claims
// ride the request context for the wrapped handler.
func (s *Sessions) RequireRole(onDenied http.HandlerFunc, roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := s.Current(r)
			if claims == nil || !roleAllowed(claims.Role, roles) {
				onDenied(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
