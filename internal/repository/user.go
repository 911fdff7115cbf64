package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.PortalUser, error)
	FindByID(ctx context.Context, id int64) (*model.PortalUser, error)
	ResetFailedAttempts(ctx context.Context, id int64) error
	// IncrementFailedAttempts bumps the counter and returns the new value.
	IncrementFailedAttempts(ctx context.Context, id int64) (int, error)
	SetLockout(ctx context.Context, id int64, until time.Time) error
	UpdateLastAccess(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, params model.UpdateProfileParams) (*model.PortalUser, error)
}

type userRepo struct {
	db sqlxDB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.PortalUser, error) {
	var user model.PortalUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM usuarios_portal WHERE email = $1
	`, email)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*model.PortalUser, error) {
	var user model.PortalUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM usuarios_portal WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) ResetFailedAttempts(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE usuarios_portal
		SET intentos_fallidos = 0, bloqueado_hasta = NULL
		WHERE id = $1
	`, id)
	return err
}

func (r *userRepo) IncrementFailedAttempts(ctx context.Context, id int64) (int, error) {
	var attempts int
	err := r.db.GetContext(ctx, &attempts, `
		UPDATE usuarios_portal
		SET intentos_fallidos = intentos_fallidos + 1
		WHERE id = $1
		RETURNING intentos_fallidos
	`, id)
	return attempts, err
}

func (r *userRepo) SetLockout(ctx context.Context, id int64, until time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE usuarios_portal SET bloqueado_hasta = $2 WHERE id = $1
	`, id, until)
	return err
}

func (r *userRepo) UpdateLastAccess(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE usuarios_portal SET ultimo_acceso = NOW() WHERE id = $1
	`, id)
	return err
}

func (r *userRepo) UpdateProfile(ctx context.Context, id int64, params model.UpdateProfileParams) (*model.PortalUser, error) {
	var user model.PortalUser
	err := r.db.GetContext(ctx, &user, `
		UPDATE usuarios_portal SET
			nombre = $2,
			telefono = $3,
			rfc = $4,
			razon_social = $5,
			domicilio_fiscal = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Nombre, params.Telefono, params.RFC, params.RazonSocial, params.DomicilioFiscal)
	return HandleNotFound(&user, err)
}
