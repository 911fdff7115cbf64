package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/util"
)

const WebhookTokenHeader = "X-Webhook-Token"

// WebhookTokenMiddleware authenticates callbacks from the workflow
// engine with a shared token. An empty configured token bypasses the
// check, which is only acceptable inside a trusted network.
type WebhookTokenMiddleware struct {
	token string
}

func NewWebhookTokenMiddleware(token string) *WebhookTokenMiddleware {
	return &WebhookTokenMiddleware{token: token}
}

func (m *WebhookTokenMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token == "" {
			log.Warn().Msg("webhook token verification bypassed: WEBHOOK_TOKEN is not configured")
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(WebhookTokenHeader)
		if token == "" {
			log.Warn().Str("path", r.URL.Path).Msg("webhook token middleware: missing token header")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing token",
			})
			return
		}

		if !util.ConstantTimeEqual(m.token, token) {
			log.Warn().Str("path", r.URL.Path).Msg("webhook token middleware: invalid token")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
