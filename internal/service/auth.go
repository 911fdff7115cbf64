package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/audit"
	"github.com/dml-mx/facturacion-portal-go/internal/config"
	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
	"github.com/dml-mx/facturacion-portal-go/internal/util"
)

// LoginRequest carries the portal credential pair and the request
// metadata the audit trail records.
type LoginRequest struct {
	Email      string
	ReceiverID string
	IP         string
	UserAgent  string
}

// AuthService implements the portal credential check, lockout policy,
// and server-held sessions. Every attempt, good or bad, lands in the
// audit trail. Rejection messages never reveal whether the email
// exists.
type AuthService struct {
	users         repository.UserRepository
	sessions      repository.SessionRepository
	recorder      *audit.Recorder
	sessionSecret string
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	recorder *audit.Recorder,
	sessionSecret string,
) *AuthService {
	return &AuthService{
		users:         users,
		sessions:      sessions,
		recorder:      recorder,
		sessionSecret: sessionSecret,
	}
}

// Login validates the credential pair and, on success, creates a
// session. The returned token goes into the cookie; only its HMAC is
// stored.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.PortalUser, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	receiverID := strings.TrimSpace(req.ReceiverID)

	if email == "" || receiverID == "" {
		return nil, "", apperrors.MissingRequired("Email y Receiver ID son requeridos.")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("user lookup failed during login")
		return nil, "", apperrors.Database(err)
	}
	if user == nil {
		s.recordFailure(ctx, nil, email, receiverID, req, "Credenciales incorrectas")
		return nil, "", apperrors.Unauthorized("Credenciales incorrectas.")
	}

	// A locked account rejects the attempt before the credential is
	// even compared.
	now := time.Now()
	if user.IsLocked(now) {
		minutes := int(time.Until(*user.BloqueadoHasta).Minutes()) + 1
		s.recordFailure(ctx, &user.ID, email, receiverID, req, "Cuenta bloqueada")
		return nil, "", apperrors.AccountLocked(minutes)
	}

	if !user.Activo {
		s.recordFailure(ctx, &user.ID, email, receiverID, req, "Cuenta inactiva")
		return nil, "", apperrors.AccountDisabled()
	}

	if !util.ConstantTimeEqual(receiverID, user.ReceiverID) {
		s.registerFailedAttempt(ctx, user)
		s.recordFailure(ctx, &user.ID, email, receiverID, req, "Credenciales incorrectas")
		return nil, "", apperrors.Unauthorized("Credenciales incorrectas.")
	}

	if err := s.users.ResetFailedAttempts(ctx, user.ID); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to reset failed attempts")
	}
	if err := s.users.UpdateLastAccess(ctx, user.ID); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update last access")
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, "", apperrors.Internal("No se pudo iniciar sesión. Intenta nuevamente.")
	}

	_, err = s.sessions.Create(ctx, model.CreatePortalSessionParams{
		TokenHash: util.HmacSHA256(s.sessionSecret, token),
		UserID:    user.ID,
		ExpiresAt: now.Add(config.SessionTTL),
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create session")
		return nil, "", apperrors.Database(err)
	}

	s.recorder.Record(ctx, audit.Event{
		UserID:     &user.ID,
		Email:      email,
		ReceiverID: receiverID,
		Type:       audit.EventLoginSuccess,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
		Success:    true,
		Message:    "Login exitoso",
	})

	return user, token, nil
}

// ValidateSession resolves a cookie token to its user, or nil when the
// session is unknown or expired.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.PortalUser, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.FindByTokenHash(ctx, util.HmacSHA256(s.sessionSecret, token))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Activo {
		return nil, nil
	}
	return user, nil
}

// Logout deletes the session row. An unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string, user *model.PortalUser, ip, userAgent string) error {
	session, err := s.sessions.FindByTokenHash(ctx, util.HmacSHA256(s.sessionSecret, token))
	if err != nil {
		return err
	}
	if session != nil {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			return err
		}
	}

	if user != nil {
		s.recorder.Record(ctx, audit.Event{
			UserID:     &user.ID,
			Email:      user.Email,
			ReceiverID: user.ReceiverID,
			Type:       audit.EventLogout,
			IP:         ip,
			UserAgent:  userAgent,
			Success:    true,
			Message:    "Logout",
		})
	}
	return nil
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, user *model.PortalUser) {
	attempts, err := s.users.IncrementFailedAttempts(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to increment failed attempts")
		return
	}
	if attempts >= config.LoginMaxAttempts {
		until := time.Now().Add(config.LockoutDuration)
		if err := s.users.SetLockout(ctx, user.ID, until); err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to set lockout")
			return
		}
		log.Warn().
			Int64("user_id", user.ID).
			Int("attempts", attempts).
			Time("until", until).
			Msg("account locked after repeated failures")
	}
}

func (s *AuthService) recordFailure(ctx context.Context, userID *int64, email, receiverID string, req LoginRequest, reason string) {
	s.recorder.Record(ctx, audit.Event{
		UserID:     userID,
		Email:      email,
		ReceiverID: receiverID,
		Type:       audit.EventLoginFailure,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
		Success:    false,
		Message:    reason,
	})
}
