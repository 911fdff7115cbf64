package model

import (
	"time"
)

// AccessEvent is an append-only row of historial_accesos. Written once
// per authentication event, never mutated.
type AccessEvent struct {
	ID         int64     `db:"id" json:"id"`
	UsuarioID  *int64    `db:"usuario_id" json:"usuarioId,omitempty"`
	Email      string    `db:"email" json:"email"`
	ReceiverID string    `db:"receiver_id" json:"-"`
	TipoEvento string    `db:"tipo_evento" json:"tipoEvento"`
	IPAddress  *string   `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent  *string   `db:"user_agent" json:"-"`
	Exitoso    bool      `db:"exitoso" json:"exitoso"`
	Mensaje    string    `db:"mensaje" json:"mensaje"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type RecordAccessParams struct {
	UsuarioID  *int64
	Email      string
	ReceiverID string
	TipoEvento string
	IPAddress  string
	UserAgent  string
	Exitoso    bool
	Mensaje    string
}
