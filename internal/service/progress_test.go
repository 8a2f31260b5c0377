package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorolev/playsave/internal/models"
	"github.com/dkorolev/playsave/internal/repository"
)

type mockProgressRepo struct {
	UpsertProgressFunc func(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error
	GetProgressFunc    func(ctx context.Context, userID int64) (*models.Progress, error)
}

func (m *mockProgressRepo) UpsertProgress(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error {
	return m.UpsertProgressFunc(ctx, userID, level, coins, enemiesDefeated)
}
func (m *mockProgressRepo) GetProgress(ctx context.Context, userID int64) (*models.Progress, error) {
	return m.GetProgressFunc(ctx, userID)
}

func TestProgressSave_ForwardsArguments(t *testing.T) {
	var gotUserID, gotLevel, gotCoins int64
	var gotEnemies *int64
	repo := &mockProgressRepo{
		UpsertProgressFunc: func(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error {
			gotUserID, gotLevel, gotCoins, gotEnemies = userID, level, coins, enemiesDefeated
			return nil
		},
	}
	svc := NewProgressService(repo)

	enemies := int64(9)
	require.NoError(t, svc.Save(context.Background(), 7, 3, 42, &enemies))
	assert.Equal(t, int64(7), gotUserID)
	assert.Equal(t, int64(3), gotLevel)
	assert.Equal(t, int64(42), gotCoins)
	require.NotNil(t, gotEnemies)
	assert.Equal(t, int64(9), *gotEnemies)
}

func TestProgressSave_Error(t *testing.T) {
	wantErr := errors.New("db error")
	repo := &mockProgressRepo{
		UpsertProgressFunc: func(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error {
			return wantErr
		},
	}
	svc := NewProgressService(repo)

	err := svc.Save(context.Background(), 7, 3, 42, nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestProgressGet_Success(t *testing.T) {
	repo := &mockProgressRepo{
		GetProgressFunc: func(ctx context.Context, userID int64) (*models.Progress, error) {
			return &models.Progress{UserID: userID, Level: 3, Coins: 42, EnemiesDefeated: 9}, nil
		},
	}
	svc := NewProgressService(repo)

	p, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Level)
	assert.Equal(t, int64(42), p.Coins)
	assert.Equal(t, int64(9), p.EnemiesDefeated)
}

func TestProgressGet_NotFound(t *testing.T) {
	repo := &mockProgressRepo{
		GetProgressFunc: func(ctx context.Context, userID int64) (*models.Progress, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewProgressService(repo)

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
