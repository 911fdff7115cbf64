package audit

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
	"github.com/dml-mx/facturacion-portal-go/internal/util"
)

// Event types persisted to historial_accesos. The Spanish names are the
// contract with the existing table and its consumers.
const (
	EventLoginSuccess   = "login_exitoso"
	EventLoginFailure   = "login_fallido"
	EventLogout         = "logout"
	EventProfileUpdated = "perfil_actualizado"
)

type Event struct {
	UserID     *int64
	Email      string
	ReceiverID string
	Type       string
	IP         string
	UserAgent  string
	Success    bool
	Message    string
}

// Recorder appends authentication events to historial_accesos and
// mirrors them on the structured log. A failed insert never propagates:
// auditing must not break the login flow itself.
type Recorder struct {
	history repository.AccessHistoryRepository
}

func NewRecorder(history repository.AccessHistoryRepository) *Recorder {
	return &Recorder{history: history}
}

func (r *Recorder) Record(ctx context.Context, event Event) {
	err := r.history.Record(ctx, model.RecordAccessParams{
		UsuarioID:  event.UserID,
		Email:      event.Email,
		ReceiverID: event.ReceiverID,
		TipoEvento: event.Type,
		IPAddress:  event.IP,
		UserAgent:  event.UserAgent,
		Exitoso:    event.Success,
		Mensaje:    event.Message,
	})
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("failed to persist access event")
	}

	logger := log.With().
		Str("audit", "access").
		Str("event_type", event.Type).
		Str("email", event.Email).
		Bool("success", event.Success).
		Logger()
	if event.UserID != nil {
		logger = logger.With().Int64("user_id", *event.UserID).Logger()
	}
	if event.ReceiverID != "" {
		logger = logger.With().Str("receiver_id", util.MaskSecret(event.ReceiverID)).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	logger.Info().Msg(event.Message)
}

// RecordFromRequest fills IP and user agent from the request before
// recording.
func (r *Recorder) RecordFromRequest(req *http.Request, event Event) {
	event.IP = GetClientIP(req)
	event.UserAgent = req.UserAgent()
	r.Record(req.Context(), event)
}

func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
