package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type AccessHistoryRepository interface {
	Record(ctx context.Context, params model.RecordAccessParams) error
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.AccessEvent, error)
}

type accessHistoryRepo struct {
	db sqlxDB
}

func NewAccessHistoryRepository(db *sqlx.DB) AccessHistoryRepository {
	return &accessHistoryRepo{db: db}
}

func (r *accessHistoryRepo) Record(ctx context.Context, params model.RecordAccessParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO historial_accesos
			(usuario_id, email, receiver_id, tipo_evento, ip_address, user_agent, exitoso, mensaje)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
	`, params.UsuarioID, params.Email, params.ReceiverID, params.TipoEvento,
		params.IPAddress, params.UserAgent, params.Exitoso, params.Mensaje)
	return err
}

func (r *accessHistoryRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.AccessEvent, error) {
	var events []model.AccessEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM historial_accesos
		WHERE usuario_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}
