package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dml-mx/facturacion-portal-go/internal/audit"
	apperrors "github.com/dml-mx/facturacion-portal-go/internal/errors"
	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/util"
)

const testSessionSecret = "auth-service-test-secret"

func activeUser() *model.PortalUser {
	return &model.PortalUser{
		ID:         7,
		Email:      "user@example.com",
		ReceiverID: "123456789012",
		Nombre:     "Usuario Prueba",
		Activo:     true,
	}
}

func newAuthService(users *mockUserRepo, sessions *mockSessionRepo, history *mockAccessHistoryRepo) *AuthService {
	return NewAuthService(users, sessions, audit.NewRecorder(history), testSessionSecret)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success creates a session and resets counters", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		users.On("FindByEmail", ctx, "user@example.com").Return(activeUser(), nil)
		users.On("ResetFailedAttempts", ctx, int64(7)).Return(nil)
		users.On("UpdateLastAccess", ctx, int64(7)).Return(nil)
		sessions.On("Create", ctx, mock.MatchedBy(func(p model.CreatePortalSessionParams) bool {
			return p.UserID == 7 && p.ExpiresAt.After(time.Now().Add(23*time.Hour))
		})).Return(&model.PortalSession{ID: "s1", UserID: 7}, nil)
		history.On("Record", ctx, mock.MatchedBy(func(p model.RecordAccessParams) bool {
			return p.TipoEvento == audit.EventLoginSuccess && p.Exitoso
		})).Return(nil)

		user, token, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "User@Example.com",
			ReceiverID: "123456789012",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Len(t, token, 64)

		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("unknown email gets the generic rejection", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)
		history.On("Record", ctx, mock.MatchedBy(func(p model.RecordAccessParams) bool {
			return p.TipoEvento == audit.EventLoginFailure && p.UsuarioID == nil
		})).Return(nil)

		_, _, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "nobody@example.com",
			ReceiverID: "123456789012",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, "Credenciales incorrectas.", appErr.Message)
	})

	t.Run("wrong receiver id gets the same generic rejection", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		users.On("FindByEmail", ctx, "user@example.com").Return(activeUser(), nil)
		users.On("IncrementFailedAttempts", ctx, int64(7)).Return(1, nil)
		history.On("Record", ctx, mock.Anything).Return(nil)

		_, _, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "user@example.com",
			ReceiverID: "999999999999",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, "Credenciales incorrectas.", appErr.Message)
	})

	t.Run("fifth failure locks the account", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		users.On("FindByEmail", ctx, "user@example.com").Return(activeUser(), nil)
		users.On("IncrementFailedAttempts", ctx, int64(7)).Return(5, nil)
		users.On("SetLockout", ctx, int64(7), mock.AnythingOfType("time.Time")).Return(nil)
		history.On("Record", ctx, mock.Anything).Return(nil)

		_, _, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "user@example.com",
			ReceiverID: "wrong",
		})
		require.Error(t, err)
		users.AssertCalled(t, "SetLockout", ctx, int64(7), mock.AnythingOfType("time.Time"))
	})

	t.Run("locked account rejects even the correct credential", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		locked := activeUser()
		until := time.Now().Add(10 * time.Minute)
		locked.BloqueadoHasta = &until

		users.On("FindByEmail", ctx, "user@example.com").Return(locked, nil)
		history.On("Record", ctx, mock.Anything).Return(nil)

		_, _, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "user@example.com",
			ReceiverID: "123456789012",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAccountLocked, appErr.Code)
		assert.Contains(t, appErr.Message, "bloqueada")
		users.AssertNotCalled(t, "IncrementFailedAttempts", ctx, int64(7))
		sessions.AssertNotCalled(t, "Create")
	})

	t.Run("expired lockout no longer blocks", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		wasLocked := activeUser()
		until := time.Now().Add(-time.Minute)
		wasLocked.BloqueadoHasta = &until

		users.On("FindByEmail", ctx, "user@example.com").Return(wasLocked, nil)
		users.On("ResetFailedAttempts", ctx, int64(7)).Return(nil)
		users.On("UpdateLastAccess", ctx, int64(7)).Return(nil)
		sessions.On("Create", ctx, mock.Anything).Return(&model.PortalSession{ID: "s1"}, nil)
		history.On("Record", ctx, mock.Anything).Return(nil)

		_, _, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "user@example.com",
			ReceiverID: "123456789012",
		})
		require.NoError(t, err)
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		inactive := activeUser()
		inactive.Activo = false

		users.On("FindByEmail", ctx, "user@example.com").Return(inactive, nil)
		history.On("Record", ctx, mock.Anything).Return(nil)

		_, _, err := newAuthService(users, sessions, history).Login(ctx, LoginRequest{
			Email:      "user@example.com",
			ReceiverID: "123456789012",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeAccountDisabled, appErr.Code)
	})

	t.Run("missing fields are rejected without a lookup", func(t *testing.T) {
		users := new(mockUserRepo)

		_, _, err := newAuthService(users, new(mockSessionRepo), new(mockAccessHistoryRepo)).Login(ctx, LoginRequest{
			Email: "user@example.com",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeMissingRequired, appErr.Code)
		users.AssertNotCalled(t, "FindByEmail")
	})
}

func TestValidateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token resolves the user", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)

		token := "raw-cookie-token"
		hash := util.HmacSHA256(testSessionSecret, token)
		sessions.On("FindByTokenHash", ctx, hash).Return(&model.PortalSession{ID: "s1", UserID: 7}, nil)
		users.On("FindByID", ctx, int64(7)).Return(activeUser(), nil)

		user, err := newAuthService(users, sessions, new(mockAccessHistoryRepo)).ValidateSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("unknown token resolves to nil", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByTokenHash", ctx, mock.Anything).Return(nil, nil)

		user, err := newAuthService(new(mockUserRepo), sessions, new(mockAccessHistoryRepo)).ValidateSession(ctx, "bogus")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("deactivated user invalidates the session", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)

		inactive := activeUser()
		inactive.Activo = false
		sessions.On("FindByTokenHash", ctx, mock.Anything).Return(&model.PortalSession{UserID: 7}, nil)
		users.On("FindByID", ctx, int64(7)).Return(inactive, nil)

		user, err := newAuthService(users, sessions, new(mockAccessHistoryRepo)).ValidateSession(ctx, "token")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("empty token short-circuits", func(t *testing.T) {
		sessions := new(mockSessionRepo)

		user, err := newAuthService(new(mockUserRepo), sessions, new(mockAccessHistoryRepo)).ValidateSession(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, user)
		sessions.AssertNotCalled(t, "FindByTokenHash")
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session and records the event", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		history := new(mockAccessHistoryRepo)

		sessions.On("FindByTokenHash", ctx, mock.Anything).Return(&model.PortalSession{ID: "s1", UserID: 7}, nil)
		sessions.On("Delete", ctx, "s1").Return(nil)
		history.On("Record", ctx, mock.MatchedBy(func(p model.RecordAccessParams) bool {
			return p.TipoEvento == audit.EventLogout
		})).Return(nil)

		err := newAuthService(new(mockUserRepo), sessions, history).Logout(ctx, "token", activeUser(), "1.2.3.4", "test-agent")
		require.NoError(t, err)
		sessions.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		sessions.On("FindByTokenHash", ctx, mock.Anything).Return(nil, nil)

		err := newAuthService(new(mockUserRepo), sessions, new(mockAccessHistoryRepo)).Logout(ctx, "bogus", nil, "", "")
		require.NoError(t, err)
		sessions.AssertNotCalled(t, "Delete")
	})
}
