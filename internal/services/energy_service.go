package services

import (
	"context"
	"errors"
	"fmt"

	"eden-api/internal/clock"
	"eden-api/internal/models"
	"eden-api/internal/repository"

	"gorm.io/gorm"
)

// EnergyService regenerates a user's energy from elapsed wall-clock time,
// capped at the rank's maximum.
type EnergyService struct {
	repo  *repository.Repository
	ranks *RankTable
	clock clock.Clock
}

// NewEnergyService creates a new EnergyService
func NewEnergyService(repo *repository.Repository, ranks *RankTable, clk clock.Clock) *EnergyService {
	return &EnergyService{repo: repo, ranks: ranks, clock: clk}
}

// SyncEnergy credits energy regenerated since the last sync and advances the
// sync timestamp. Runs as one row-locked transaction so two concurrent syncs
// cannot both credit the same elapsed interval. Calling it again with no
// elapsed time is a no-op.
func (s *EnergyService) SyncEnergy(ctx context.Context, userID int64) (*models.Stats, error) {
	var out models.Stats

	err := s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		rank, err := s.userRank(tx, userID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		elapsed := now.Sub(activity.LastSyncEnergy)
		if elapsed < 0 {
			// clock skew, treat as no elapsed time
			elapsed = 0
		}

		energy := stats.Energy + elapsed.Seconds()*rank.EnergyPerSec
		if energy > rank.MaxEnergy {
			energy = rank.MaxEnergy
		}

		stats.Energy = energy
		activity.LastSyncEnergy = now

		if err := tx.Save(stats).Error; err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}
		if err := tx.Save(activity).Error; err != nil {
			return fmt.Errorf("failed to save activity: %w", err)
		}

		out = *stats
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	return &out, nil
}

// Replenish spends one stored replenishment to refill energy to the rank
// maximum. Fails with ErrInvalidState when the user has none left.
func (s *EnergyService) Replenish(ctx context.Context, userID int64) (*models.Stats, error) {
	var out models.Stats

	err := s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		if stats.Replenishments <= 0 {
			return fmt.Errorf("no replenishments left: %w", ErrInvalidState)
		}

		rank, err := s.userRank(tx, userID)
		if err != nil {
			return err
		}

		stats.Replenishments--
		stats.Energy = rank.MaxEnergy
		activity.LastSyncEnergy = s.clock.Now()

		if err := tx.Save(stats).Error; err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}
		if err := tx.Save(activity).Error; err != nil {
			return fmt.Errorf("failed to save activity: %w", err)
		}

		out = *stats
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	return &out, nil
}

func (s *EnergyService) userRank(tx *gorm.DB, userID int64) (models.Rank, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return models.Rank{}, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return s.ranks.MustGet(user.RankID)
}

// wrapMissingUser maps a missing stats/activity row onto the engine taxonomy.
func wrapMissingUser(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("user state missing: %w", ErrNotFound)
	}
	return err
}
