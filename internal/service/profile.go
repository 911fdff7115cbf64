package service

import (
	"context"
	"strings"

	"github.com/dml-mx/facturacion-portal-go/internal/audit"
	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
)

type ProfileView struct {
	Usuario   *model.PortalUser   `json:"usuario"`
	Historial []model.AccessEvent `json:"historial"`
}

const profileHistoryLimit = 10

type ProfileService struct {
	users    repository.UserRepository
	history  repository.AccessHistoryRepository
	recorder *audit.Recorder
}

func NewProfileService(
	users repository.UserRepository,
	history repository.AccessHistoryRepository,
	recorder *audit.Recorder,
) *ProfileService {
	return &ProfileService{users: users, history: history, recorder: recorder}
}

// Get returns the profile together with the recent access history.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*ProfileView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("Usuario no encontrado.")
	}

	history, err := s.history.ListByUserID(ctx, userID, profileHistoryLimit)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &ProfileView{Usuario: user, Historial: history}, nil
}

// Update rewrites the editable profile fields. RFC is uppercased the
// way tax ids are printed.
func (s *ProfileService) Update(ctx context.Context, userID int64, params model.UpdateProfileParams, ip, userAgent string) (*model.PortalUser, error) {
	params.Nombre = strings.TrimSpace(params.Nombre)
	params.Telefono = strings.TrimSpace(params.Telefono)
	params.RFC = strings.ToUpper(strings.TrimSpace(params.RFC))
	params.RazonSocial = strings.TrimSpace(params.RazonSocial)
	params.DomicilioFiscal = strings.TrimSpace(params.DomicilioFiscal)

	if params.Nombre == "" {
		return nil, apperrors.MissingRequired("El nombre es requerido.")
	}

	user, err := s.users.UpdateProfile(ctx, userID, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("Usuario no encontrado.")
	}

	s.recorder.Record(ctx, audit.Event{
		UserID:     &user.ID,
		Email:      user.Email,
		ReceiverID: user.ReceiverID,
		Type:       audit.EventProfileUpdated,
		IP:         ip,
		UserAgent:  userAgent,
		Success:    true,
		Message:    "Perfil actualizado",
	})

	return user, nil
}
