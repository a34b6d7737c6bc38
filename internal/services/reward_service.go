package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"eden-api/internal/clock"
	"eden-api/internal/models"
	"eden-api/internal/repository"

	"gorm.io/gorm"
)

// Payload is the bundle a single reward grants.
type Payload struct {
	Amount         int64
	Inspirations   int64
	Replenishments int64
}

// RewardService issues one-time and recurring rewards and keeps the
// append-only reward ledger. Idempotency is keyed by (user, trigger, period):
// the daily reward by calendar day, the referral reward by the referred
// user's one-time registration.
type RewardService struct {
	repo     *repository.Repository
	clock    clock.Clock
	daily    Payload
	referral Payload
}

// NewRewardService creates a new RewardService
func NewRewardService(repo *repository.Repository, clk clock.Clock, daily, referral Payload) *RewardService {
	return &RewardService{repo: repo, clock: clk, daily: daily, referral: referral}
}

// GrantDailyReward grants the daily login reward if the user has not received
// one today in the reference timezone. Returns (nil, nil) when the reward was
// already granted today; repeated calls within one calendar day are no-ops.
func (s *RewardService) GrantDailyReward(ctx context.Context, userID int64) (*models.Reward, error) {
	var out *models.Reward

	err := s.repo.WithUserLock(ctx, userID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		now := s.clock.Now()
		loc := s.clock.Location()

		if !clock.StartOfDay(activity.LastDailyReward, loc).Before(clock.StartOfDay(now, loc)) {
			// already rewarded today
			return nil
		}

		reward, err := s.grantTx(tx, stats, userID, models.RewardTypeDaily, s.daily)
		if err != nil {
			return err
		}

		activity.LastDailyReward = now
		activity.LastLoginDate = now
		activity.ActiveDays++

		if err := tx.Save(stats).Error; err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}
		if err := tx.Save(activity).Error; err != nil {
			return fmt.Errorf("failed to save activity: %w", err)
		}

		out = reward
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	if out != nil {
		log.Printf("[Rewards] Daily reward granted to user %d", userID)
	}
	return out, nil
}

// GrantReferralReward looks up the referrer behind code, credits them the
// referral payload and bumps their invited_friends counter. The new user's
// registration is a one-time event, which is what makes this at-most-once.
// Returns the created ledger row; reward.UserID is the referrer.
func (s *RewardService) GrantReferralReward(ctx context.Context, newUserID int64, code string) (*models.Reward, error) {
	referrer, err := s.repo.GetUserByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("referral code %q: %w", code, ErrNotFound)
		}
		return nil, err
	}

	if referrer.ID == newUserID {
		return nil, fmt.Errorf("cannot refer yourself: %w", ErrConflict)
	}

	var out *models.Reward

	// Lock scope is the referrer's own row set so this cannot race with the
	// referrer's concurrent energy or mining operations.
	err = s.repo.WithUserLock(ctx, referrer.ID, func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error {
		reward, err := s.grantTx(tx, stats, referrer.ID, models.RewardTypeReferral, s.referral)
		if err != nil {
			return err
		}

		stats.InvitedFriends++

		if err := tx.Save(stats).Error; err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", newUserID).
			Update("referrer_id", referrer.ID).Error; err != nil {
			return fmt.Errorf("failed to set referrer: %w", err)
		}

		out = reward
		return nil
	})
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	log.Printf("[Rewards] Referral reward granted to user %d for inviting user %d", referrer.ID, newUserID)
	return out, nil
}

// GetRewards returns the user's reward ledger, newest first.
func (s *RewardService) GetRewards(ctx context.Context, userID int64) ([]models.Reward, error) {
	return s.repo.GetRewards(ctx, userID)
}

// grantTx appends a ledger row and applies the payload to the in-memory
// stats. The caller persists stats within the same transaction.
func (s *RewardService) grantTx(tx *gorm.DB, stats *models.Stats, userID int64, rewardType string, p Payload) (*models.Reward, error) {
	reward := models.Reward{
		UserID:         userID,
		Type:           rewardType,
		Amount:         p.Amount,
		Inspirations:   p.Inspirations,
		Replenishments: p.Replenishments,
	}

	if err := tx.Create(&reward).Error; err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}

	stats.Coins += p.Amount
	stats.Inspirations += p.Inspirations
	stats.Replenishments += p.Replenishments

	return &reward, nil
}
