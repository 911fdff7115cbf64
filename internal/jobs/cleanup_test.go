package jobs

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dml-mx/facturacion-portal-go/internal/model"
	"github.com/dml-mx/facturacion-portal-go/internal/storage"
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PortalSession), args.Error(1)
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PortalSession), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestCleanup(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	stale, err := store.SaveTemp(strings.NewReader("x"), "old.pdf")
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	sessions := new(mockSessionRepo)
	sessions.On("DeleteExpired", mock.Anything).Return(int64(3), nil)

	job := NewCleanupJob(sessions, store, time.Minute)
	job.cleanup()

	sessions.AssertExpectations(t)
	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))
}
