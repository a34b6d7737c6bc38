package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"eden-api/internal/models"
	"eden-api/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardCacheKey = "leaderboard:top"

// LeaderboardService maintains the weekly ranking over earned_week_coins.
// Ordering is descending by coins, ties broken by earliest registration, then
// by user id for determinism. A small redis cache fronts GetTop; the cache is
// optional and skipped when no client is configured.
type LeaderboardService struct {
	repo     *repository.Repository
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewLeaderboardService creates a new LeaderboardService. cache may be nil.
func NewLeaderboardService(repo *repository.Repository, cache *redis.Client, cacheTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// RecordEarnings adds delta to the user's weekly total and re-derives the
// leaderboard, inside the user's row lock.
func (s *LeaderboardService) RecordEarnings(ctx context.Context, userID int64, delta int64) error {
	err := s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		if err := s.RecordEarningsTx(tx, stats, delta); err != nil {
			return err
		}
		return tx.Save(stats).Error
	})
	if err != nil {
		return wrapMissingUser(err)
	}

	s.invalidateCache(ctx)
	return nil
}

// RecordEarningsTx applies delta to an already-locked stats row and rebuilds
// the leaderboard within the caller's transaction. The caller persists stats
// and invalidates the cache after commit.
func (s *LeaderboardService) RecordEarningsTx(tx *gorm.DB, stats *models.Stats, delta int64) error {
	stats.EarnedWeekCoins += delta

	// The recompute below reads stats rows; make this user's new total
	// visible to it first.
	if err := tx.Model(&models.Stats{}).Where("user_id = ?", stats.UserID).
		Update("earned_week_coins", stats.EarnedWeekCoins).Error; err != nil {
		return fmt.Errorf("failed to update weekly coins: %w", err)
	}

	return s.recomputePlacesTx(tx)
}

// recomputePlacesTx fully re-derives the Leader rows from stats. Users who
// were on the board before a weekly reset stay on it at zero, ranked after
// the current earners.
func (s *LeaderboardService) recomputePlacesTx(tx *gorm.DB) error {
	type row struct {
		UserID          int64
		EarnedWeekCoins int64
	}

	var rows []row
	if err := tx.Table("stats").
		Select("stats.user_id, stats.earned_week_coins").
		Joins("JOIN activities ON activities.user_id = stats.user_id").
		Joins("LEFT JOIN leaders ON leaders.user_id = stats.user_id").
		Where("stats.earned_week_coins > 0 OR leaders.user_id IS NOT NULL").
		Order("stats.earned_week_coins DESC, activities.reg_date ASC, stats.user_id ASC").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("failed to rank weekly earners: %w", err)
	}

	if err := tx.Where("1 = 1").Delete(&models.Leader{}).Error; err != nil {
		return fmt.Errorf("failed to clear leaders: %w", err)
	}

	for i, r := range rows {
		leader := models.Leader{
			Place:           int64(i + 1),
			UserID:          r.UserID,
			EarnedWeekCoins: r.EarnedWeekCoins,
		}
		if err := tx.Create(&leader).Error; err != nil {
			return fmt.Errorf("failed to create leader row: %w", err)
		}
	}

	return nil
}

// GetTop returns the first n leaders by place. Read-only.
func (s *LeaderboardService) GetTop(ctx context.Context, n int) ([]models.Leader, error) {
	if cached, ok := s.cachedTop(ctx, n); ok {
		return cached, nil
	}

	var leaders []models.Leader
	if err := s.repo.DB().WithContext(ctx).
		Order("place ASC").Limit(n).Find(&leaders).Error; err != nil {
		return nil, fmt.Errorf("failed to load leaders: %w", err)
	}

	s.storeTop(ctx, leaders)
	return leaders, nil
}

// GetPlace returns the user's Leader row, or ErrNotFound when the user is
// not on the board.
func (s *LeaderboardService) GetPlace(ctx context.Context, userID int64) (*models.Leader, error) {
	var leader models.Leader
	if err := s.repo.DB().WithContext(ctx).Where("user_id = ?", userID).First(&leader).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no leaderboard entry for user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return &leader, nil
}

// ResetWeek zeroes every user's weekly total and the Leader rows' snapshots.
// Leader rows keep their places until the next earning event re-derives the
// ranking. Invoked by the week-boundary trigger, not by request handlers.
func (s *LeaderboardService) ResetWeek(ctx context.Context) error {
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Stats{}).Where("earned_week_coins <> 0").
			Update("earned_week_coins", 0).Error; err != nil {
			return fmt.Errorf("failed to reset weekly coins: %w", err)
		}
		if err := tx.Model(&models.Leader{}).Where("earned_week_coins <> 0").
			Update("earned_week_coins", 0).Error; err != nil {
			return fmt.Errorf("failed to zero leader snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx)
	log.Println("[Leaderboard] Weekly leaderboard reset")
	return nil
}

// InvalidateCache drops the cached top after an out-of-band leaderboard
// mutation (mining claim commits outside this service).
func (s *LeaderboardService) InvalidateCache(ctx context.Context) {
	s.invalidateCache(ctx)
}

func (s *LeaderboardService) cachedTop(ctx context.Context, n int) ([]models.Leader, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var leaders []models.Leader
	if err := json.Unmarshal(data, &leaders); err != nil {
		return nil, false
	}
	if len(leaders) < n {
		return nil, false
	}
	return leaders[:n], true
}

func (s *LeaderboardService) storeTop(ctx context.Context, leaders []models.Leader) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(leaders)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, leaderboardCacheKey, data, s.cacheTTL).Err(); err != nil {
		log.Printf("[Leaderboard] Warning: cache store failed: %v", err)
	}
}

func (s *LeaderboardService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		log.Printf("[Leaderboard] Warning: cache invalidation failed: %v", err)
	}
}
