package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/edvin/storefront/internal/storefront"
)

type contextKey string

const SessionKey contextKey = "storefront_session"

const (
	cookiePrefix    = "shop_"
	CookieSessionID = cookiePrefix + "session-id"
	cookieMaxAge    = 48 * time.Hour
)

// Session attaches the browser's storefront session to the request,
// issuing a session cookie on first contact.
func Session(sessions *storefront.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(CookieSessionID); err == nil {
				id = c.Value
			}

			sess, created := sessions.Get(r.Context(), id, r.Header.Get("Accept-Language"))
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieSessionID,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session attached by Session, or nil.
func GetSession(ctx context.Context) *storefront.Session {
	sess, _ := ctx.Value(SessionKey).(*storefront.Session)
	return sess
}
