package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type NotificationRepository interface {
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	// MarkRead flips the read flag for a notification the user owns and
	// reports whether a row was actually updated.
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
	Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error)
}

type notificationRepo struct {
	db sqlxDB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT
			n.*,
			f.order_id,
			f.invoice_name
		FROM notificaciones n
		LEFT JOIN facturas f ON n.factura_id = f.id
		WHERE n.usuario_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notificaciones
		WHERE usuario_id = $1 AND leida = FALSE
	`, userID)
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notificaciones
		SET leida = TRUE, fecha_leida = NOW()
		WHERE id = $1 AND usuario_id = $2
	`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *notificationRepo) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.GetContext(ctx, &notification, `
		INSERT INTO notificaciones (usuario_id, factura_id, titulo, mensaje)
		VALUES ($1, $2, $3, $4)
		RETURNING id, usuario_id, factura_id, titulo, mensaje, leida, fecha_leida, created_at
	`, params.UsuarioID, params.FacturaID, params.Titulo, params.Mensaje)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
