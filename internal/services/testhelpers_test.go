package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eden-api/internal/database"
	"eden-api/internal/models"
	"eden-api/internal/repository"
)

// fakeClock is a settable Clock pinned to the reference timezone.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
}

func newFakeClock(t *testing.T) *fakeClock {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return &fakeClock{
		now: time.Date(2024, 5, 14, 12, 0, 0, 0, loc),
		loc: loc,
	}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Location() *time.Location {
	return f.loc
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func (f *fakeClock) Set(to time.Time) {
	f.mu.Lock()
	f.now = to.In(f.loc)
	f.mu.Unlock()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory DB keeps the schema alive across the pooled
	// connections gorm opens; the name isolates tests from each other.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := database.MigrateAll(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	if err := database.SeedRanks(db); err != nil {
		t.Fatalf("failed to seed ranks: %v", err)
	}

	return db
}

const (
	testMiningDuration      = 3 * time.Hour
	testInspirationCooldown = 8 * time.Hour
)

var (
	testDailyPayload    = Payload{Amount: 500, Inspirations: 1, Replenishments: 1}
	testReferralPayload = Payload{Amount: 5000}
)

type testEnv struct {
	db          *gorm.DB
	repo        *repository.Repository
	ranks       *RankTable
	clk         *fakeClock
	rewards     *RewardService
	energy      *EnergyService
	leaderboard *LeaderboardService
	mining      *MiningService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	repo := repository.NewRepository(db)

	ranks, err := LoadRankTable(db)
	if err != nil {
		t.Fatalf("failed to load rank table: %v", err)
	}

	clk := newFakeClock(t)
	rewards := NewRewardService(repo, clk, testDailyPayload, testReferralPayload)
	energy := NewEnergyService(repo, ranks, clk)
	leaderboard := NewLeaderboardService(repo, nil, 0)
	mining := NewMiningService(repo, ranks, clk, leaderboard, testMiningDuration, testInspirationCooldown)

	return &testEnv{
		db:          db,
		repo:        repo,
		ranks:       ranks,
		clk:         clk,
		rewards:     rewards,
		energy:      energy,
		leaderboard: leaderboard,
		mining:      mining,
	}
}

// createUser inserts a user with freshly-registered state: all timers
// immediately available, default stats.
func (e *testEnv) createUser(t *testing.T, chatID int64) *models.User {
	t.Helper()

	now := e.clk.Now()
	user := models.User{
		ID:           chatID,
		RankID:       1,
		Country:      "NL",
		Token:        base58.Encode([]byte("bot-token")),
		ReferralCode: uuid.NewString(),
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	stats := models.Stats{UserID: chatID, Coins: 1000, Energy: 2000}
	if err := e.db.Create(&stats).Error; err != nil {
		t.Fatalf("failed to create stats: %v", err)
	}

	activity := models.Activity{
		UserID:          chatID,
		RegDate:         now,
		LastLoginDate:   now,
		LastDailyReward: now.Add(-35 * time.Hour),
		LastSyncEnergy:  now,
		NextInspiration: now.Add(-24 * time.Hour),
		NextMining:      now.Add(-24 * time.Hour),
	}
	if err := e.db.Create(&activity).Error; err != nil {
		t.Fatalf("failed to create activity: %v", err)
	}

	return &user
}

func (e *testEnv) getStats(t *testing.T, chatID int64) models.Stats {
	t.Helper()
	var stats models.Stats
	if err := e.db.Where("user_id = ?", chatID).First(&stats).Error; err != nil {
		t.Fatalf("failed to load stats: %v", err)
	}
	return stats
}

func (e *testEnv) getActivity(t *testing.T, chatID int64) models.Activity {
	t.Helper()
	var activity models.Activity
	if err := e.db.Where("user_id = ?", chatID).First(&activity).Error; err != nil {
		t.Fatalf("failed to load activity: %v", err)
	}
	return activity
}

func (e *testEnv) updateStats(t *testing.T, chatID int64, fields map[string]interface{}) {
	t.Helper()
	if err := e.db.Model(&models.Stats{}).Where("user_id = ?", chatID).
		Updates(fields).Error; err != nil {
		t.Fatalf("failed to update stats: %v", err)
	}
}

func (e *testEnv) updateActivity(t *testing.T, chatID int64, fields map[string]interface{}) {
	t.Helper()
	if err := e.db.Model(&models.Activity{}).Where("user_id = ?", chatID).
		Updates(fields).Error; err != nil {
		t.Fatalf("failed to update activity: %v", err)
	}
}

func (e *testEnv) rewardCount(t *testing.T, chatID int64, rewardType string) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&models.Reward{}).
		Where("user_id = ? AND type = ?", chatID, rewardType).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rewards: %v", err)
	}
	return n
}
