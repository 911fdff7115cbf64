package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/dml-mx/facturacion-portal-go/internal/config"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type contextKey string

const (
	PortalSessionCookie = "portal_session"
	// FlowCookie carries the pending-order token between the search
	// step and the invoice submission.
	FlowCookie = "invoice_flow"
)

const PortalUserContextKey contextKey = "portalUser"

func GetPortalUser(ctx context.Context) *model.PortalUser {
	if user, ok := ctx.Value(PortalUserContextKey).(*model.PortalUser); ok {
		return user
	}
	return nil
}

// SessionValidator resolves a raw cookie token to its user.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*model.PortalUser, error)
}

// PortalSessionMiddleware gates the authenticated portal routes. An
// absent, unknown, or expired session is a uniform 401.
type PortalSessionMiddleware struct {
	auth SessionValidator
}

func NewPortalSessionMiddleware(auth SessionValidator) *PortalSessionMiddleware {
	return &PortalSessionMiddleware{auth: auth}
}

func (m *PortalSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(PortalSessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "No autorizado",
			})
			return
		}

		user, err := m.auth.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Error de conexión. Intenta nuevamente.",
			})
			return
		}
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "No autorizado",
			})
			return
		}

		ctx := context.WithValue(r.Context(), PortalUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SetSessionCookie(w http.ResponseWriter, name, token, path string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   path,
		MaxAge: -1,
	})
}

// SessionMaxAge mirrors the server-side session TTL.
const SessionMaxAge = config.SessionTTL
