package service

import (
	"context"

	"github.com/dkorolev/playsave/internal/models"
)

// ProgressRepository defines the persistence operations required by the
// progress service.
type ProgressRepository interface {
	// UpsertProgress atomically creates or overwrites the progress row for
	// userID. A nil enemiesDefeated preserves the stored value.
	UpsertProgress(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error
	// GetProgress fetches the progress row for userID, or
	// repository.ErrNotFound when none exists.
	GetProgress(ctx context.Context, userID int64) (*models.Progress, error)
}

// ProgressService implements saving and reading game progress.
type ProgressService struct {
	repo ProgressRepository
}

// NewProgressService constructs a ProgressService using the provided
// repository.
func NewProgressService(repo ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo}
}

// Save stores the progress for userID. Last write wins; concurrent saves
// for the same user are serialized by the store's atomic upsert.
func (s *ProgressService) Save(ctx context.Context, userID, level, coins int64, enemiesDefeated *int64) error {
	return s.repo.UpsertProgress(ctx, userID, level, coins, enemiesDefeated)
}

// Get returns the progress for userID, or repository.ErrNotFound.
func (s *ProgressService) Get(ctx context.Context, userID int64) (*models.Progress, error) {
	return s.repo.GetProgress(ctx, userID)
}
