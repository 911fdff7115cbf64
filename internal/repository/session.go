package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type SessionRepository interface {
	Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	db sqlxDB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error) {
	var session model.PortalSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO portal_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.TokenHash, params.UserID, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error) {
	var session model.PortalSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM portal_sessions
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE id = $1`, id)
	return err
}

func (r *sessionRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE user_id = $1`, userID)
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
