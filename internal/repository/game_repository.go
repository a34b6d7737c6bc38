package repository

import (
	"context"

	"eden-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the transactional access the game engines need. Every
// read-modify-write over a user's state goes through WithUserLock so two
// concurrent requests for the same user serialize instead of losing updates.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying connection for plain reads.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithUserLock runs fn inside a transaction holding SELECT ... FOR UPDATE on
// the user's stats and activity rows. The lock scope is a single user's row
// set; no cross-user locks are taken. On sqlite the locking clause is a no-op
// and the transaction itself serializes writers.
func (r *Repository) WithUserLock(ctx context.Context, userID int64, fn func(tx *gorm.DB, stats *models.Stats, activity *models.Activity) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stats models.Stats
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&stats).Error; err != nil {
			return err
		}

		var activity models.Activity
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&activity).Error; err != nil {
			return err
		}

		return fn(tx, &stats, &activity)
	})
}

// GetUser retrieves a user by chat id.
func (r *Repository) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByReferralCode retrieves a user by their unique referral code.
func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetStats retrieves a user's stats without locking.
func (r *Repository) GetStats(ctx context.Context, userID int64) (*models.Stats, error) {
	var stats models.Stats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetActivity retrieves a user's activity without locking.
func (r *Repository) GetActivity(ctx context.Context, userID int64) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetRewards returns a user's reward ledger, newest first.
func (r *Repository) GetRewards(ctx context.Context, userID int64) ([]models.Reward, error) {
	var rewards []models.Reward
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}
