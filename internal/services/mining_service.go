package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"eden-api/internal/clock"
	"eden-api/internal/models"
	"eden-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MiningService is the per-user session state machine:
// IDLE -> RUNNING (Start) -> CLAIMABLE (session end passes) -> IDLE (Claim).
// The state is derived from activity.is_active_mining plus the stored
// next_mining timestamp; nothing ticks in the background.
type MiningService struct {
	repo                *repository.Repository
	ranks               *RankTable
	clock               clock.Clock
	leaderboard         *LeaderboardService
	duration            time.Duration
	inspirationCooldown time.Duration
}

// NewMiningService creates a new MiningService
func NewMiningService(repo *repository.Repository, ranks *RankTable, clk clock.Clock,
	leaderboard *LeaderboardService, duration, inspirationCooldown time.Duration) *MiningService {
	return &MiningService{
		repo:                repo,
		ranks:               ranks,
		clock:               clk,
		leaderboard:         leaderboard,
		duration:            duration,
		inspirationCooldown: inspirationCooldown,
	}
}

// ClaimResult is the outcome of a successful claim.
type ClaimResult struct {
	Earned       int64           `json:"earned"`
	BoostApplied bool            `json:"boost_applied"`
	Stats        models.Stats    `json:"stats"`
	Activity     models.Activity `json:"activity"`
}

// Start begins a mining session. Allowed only from IDLE: no session running
// and the stored next_mining timestamp already passed.
func (s *MiningService) Start(ctx context.Context, userID int64) (*models.Activity, error) {
	var out models.Activity

	err := s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		if activity.IsActiveMining {
			return fmt.Errorf("mining session already running: %w", ErrConflict)
		}

		now := s.clock.Now()
		if now.Before(activity.NextMining) {
			return fmt.Errorf("mining available at %s: %w", activity.NextMining.Format(time.RFC3339), ErrNotReady)
		}

		activity.IsActiveMining = true
		activity.NextMining = now.Add(s.duration)

		if err := tx.Save(activity).Error; err != nil {
			return fmt.Errorf("failed to save activity: %w", err)
		}

		out = *activity
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	log.Printf("[Mining] User %d started a session ending at %s", userID, out.NextMining.Format(time.RFC3339))
	return &out, nil
}

// Claim settles a finished session. Fails with ErrNotReady before the session
// end, and with ErrInvalidState when no session is running (never started, or
// already claimed) — a retried claim cannot double-credit.
func (s *MiningService) Claim(ctx context.Context, userID int64, useInspiration bool) (*ClaimResult, error) {
	var out ClaimResult

	err := s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		if !activity.IsActiveMining {
			return fmt.Errorf("no active mining session: %w", ErrInvalidState)
		}

		now := s.clock.Now()
		if now.Before(activity.NextMining) {
			return fmt.Errorf("session ends at %s: %w", activity.NextMining.Format(time.RFC3339), ErrNotReady)
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return fmt.Errorf("failed to load user %d: %w", userID, err)
		}
		rank, err := s.ranks.MustGet(user.RankID)
		if err != nil {
			return err
		}

		boost := decimal.NewFromInt(1)
		boosted := false
		if useInspiration && stats.Inspirations > 0 && !now.Before(activity.NextInspiration) {
			boost = decimal.NewFromInt(2)
			boosted = true
			stats.Inspirations--
			activity.NextInspiration = now.Add(s.inspirationCooldown)
		}

		earned := decimal.NewFromFloat(rank.PressForce).
			Mul(decimal.NewFromFloat(s.duration.Minutes())).
			Mul(boost).
			Round(0).IntPart()

		stats.Coins += earned
		activity.IsActiveMining = false

		// earned_week_coins and the Leader rows move in the same transaction
		if err := s.leaderboard.RecordEarningsTx(tx, stats, earned); err != nil {
			return err
		}

		if err := tx.Save(stats).Error; err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}
		if err := tx.Save(activity).Error; err != nil {
			return fmt.Errorf("failed to save activity: %w", err)
		}

		out = ClaimResult{
			Earned:       earned,
			BoostApplied: boosted,
			Stats:        *stats,
			Activity:     *activity,
		}
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	s.leaderboard.InvalidateCache(ctx)
	log.Printf("[Mining] User %d claimed %d coins (boost=%v)", userID, out.Earned, out.BoostApplied)
	return &out, nil
}
