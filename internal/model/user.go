package model

import (
	"time"
)

// PortalUser is a customer account in usuarios_portal. Accounts are
// created by the workflow engine after a successful invoice request;
// the portal only authenticates and updates them.
type PortalUser struct {
	ID               int64      `db:"id" json:"id"`
	Email            string     `db:"email" json:"email"`
	ReceiverID       string     `db:"receiver_id" json:"-"`
	Nombre           string     `db:"nombre" json:"nombre"`
	Telefono         *string    `db:"telefono" json:"telefono,omitempty"`
	RFC              *string    `db:"rfc" json:"rfc,omitempty"`
	RazonSocial      *string    `db:"razon_social" json:"razonSocial,omitempty"`
	DomicilioFiscal  *string    `db:"domicilio_fiscal" json:"domicilioFiscal,omitempty"`
	Activo           bool       `db:"activo" json:"activo"`
	IntentosFallidos int        `db:"intentos_fallidos" json:"-"`
	BloqueadoHasta   *time.Time `db:"bloqueado_hasta" json:"-"`
	UltimoAcceso     *time.Time `db:"ultimo_acceso" json:"ultimoAcceso,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsLocked reports whether the account is under a temporary lockout.
func (u *PortalUser) IsLocked(now time.Time) bool {
	return u.BloqueadoHasta != nil && u.BloqueadoHasta.After(now)
}

type UpdateProfileParams struct {
	Nombre          string
	Telefono        string
	RFC             string
	RazonSocial     string
	DomicilioFiscal string
}
