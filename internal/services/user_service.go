package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eden-api/internal/clock"
	"eden-api/internal/models"
	"eden-api/internal/repository"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"gorm.io/gorm"
)

// UserService handles registration and the login/refresh touch path. The
// bot-issued token is opaque: it is stored reversibly encoded and compared
// for equality, nothing more.
type UserService struct {
	repo    *repository.Repository
	rewards *RewardService
	energy  *EnergyService
	clock   clock.Clock
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository, rewards *RewardService, energy *EnergyService, clk clock.Clock) *UserService {
	return &UserService{repo: repo, rewards: rewards, energy: energy, clock: clk}
}

// Snapshot is the up-to-date view of a user returned after every auth touch.
type Snapshot struct {
	User     models.User     `json:"user"`
	Stats    models.Stats    `json:"stats"`
	Activity models.Activity `json:"activity"`
}

// Register creates User, Stats and Activity in one transaction, keyed by the
// Telegram chat id. A second registration for the same chat id fails with
// ErrConflict and writes nothing. A supplied referral code credits the
// referrer exactly once; an unknown code fails the registration with
// ErrNotFound.
func (s *UserService) Register(ctx context.Context, chatID int64, country, token, referralCode string) (*Snapshot, error) {
	now := s.clock.Now()

	user := models.User{
		ID:           chatID,
		RankID:       1,
		Country:      country,
		Token:        base58.Encode([]byte(token)),
		ReferralCode: uuid.NewString(),
	}

	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.First(&existing, chatID).Error; err == nil {
			return fmt.Errorf("user %d already registered: %w", chatID, ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		stats := models.Stats{UserID: chatID, Coins: 1000, Energy: 2000}
		if err := tx.Create(&stats).Error; err != nil {
			return fmt.Errorf("failed to create stats: %w", err)
		}

		// Timers are seeded so the first daily reward, mining session and
		// inspiration are immediately available.
		activity := models.Activity{
			UserID:          chatID,
			RegDate:         now,
			LastLoginDate:   now,
			LastDailyReward: now.Add(-35 * time.Hour),
			LastSyncEnergy:  now,
			NextInspiration: now.Add(-24 * time.Hour),
			NextMining:      now.Add(-24 * time.Hour),
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Users] New user registered: chat_id=%d country=%s", chatID, country)

	if referralCode != "" {
		if _, err := s.rewards.GrantReferralReward(ctx, chatID, referralCode); err != nil {
			return nil, err
		}
	}

	if _, err := s.rewards.GrantDailyReward(ctx, chatID); err != nil {
		return nil, err
	}

	return s.snapshot(ctx, chatID)
}

// Login authenticates a chat id by bot token, then runs the standard touch
// path: daily reward check followed by an energy sync.
func (s *UserService) Login(ctx context.Context, chatID int64, token string) (*Snapshot, error) {
	user, err := s.repo.GetUser(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", chatID, ErrNotFound)
		}
		return nil, err
	}

	if user.Token != base58.Encode([]byte(token)) {
		return nil, fmt.Errorf("token mismatch for user %d: %w", chatID, ErrInvalidToken)
	}

	return s.Touch(ctx, chatID)
}

// Touch applies the daily reward check and energy sync for an already
// authenticated user and returns the fresh snapshot. Used by login and by
// token refresh.
func (s *UserService) Touch(ctx context.Context, userID int64) (*Snapshot, error) {
	if _, err := s.rewards.GrantDailyReward(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.energy.SyncEnergy(ctx, userID); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, userID)
}

// GetSnapshot returns the current view without side effects.
func (s *UserService) GetSnapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	return s.snapshot(ctx, userID)
}

func (s *UserService) snapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, wrapMissingUser(err)
	}
	activity, err := s.repo.GetActivity(ctx, userID)
	if err != nil {
		return nil, wrapMissingUser(err)
	}

	return &Snapshot{User: *user, Stats: *stats, Activity: *activity}, nil
}
