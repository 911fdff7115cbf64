package model

import (
	"time"
)

// Notification is a row of notificaciones, created by the workflow
// engine (and by the webhook receiver on status callbacks). The user
// only flips the read flag.
type Notification struct {
	ID         int64      `db:"id" json:"id"`
	UsuarioID  int64      `db:"usuario_id" json:"-"`
	FacturaID  *int64     `db:"factura_id" json:"facturaId,omitempty"`
	Titulo     string     `db:"titulo" json:"titulo"`
	Mensaje    string     `db:"mensaje" json:"mensaje"`
	Leida      bool       `db:"leida" json:"leida"`
	FechaLeida *time.Time `db:"fecha_leida" json:"fechaLeida,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`

	// Joined from facturas for the list view.
	OrderID     *string `db:"order_id" json:"orderId,omitempty"`
	InvoiceName *string `db:"invoice_name" json:"invoiceName,omitempty"`
}

type CreateNotificationParams struct {
	UsuarioID int64
	FacturaID *int64
	Titulo    string
	Mensaje   string
}
