package services

import (
	"context"
	"testing"
	"time"

	"eden-api/internal/models"
)

func TestRecordEarningsOrdersByWeeklyCoins(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, 500)
	b := env.createUser(t, 501)
	c := env.createUser(t, 502)

	ctx := context.Background()
	if err := env.leaderboard.RecordEarnings(ctx, a.ID, 100); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}
	if err := env.leaderboard.RecordEarnings(ctx, b.ID, 300); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}
	if err := env.leaderboard.RecordEarnings(ctx, c.ID, 200); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}

	top, err := env.leaderboard.GetTop(ctx, 3)
	if err != nil {
		t.Fatalf("GetTop failed: %v", err)
	}

	if len(top) != 3 {
		t.Fatalf("expected 3 leaders, got %d", len(top))
	}
	want := []int64{b.ID, c.ID, a.ID}
	for i, leader := range top {
		if leader.UserID != want[i] {
			t.Errorf("place %d: expected user %d, got %d", i+1, want[i], leader.UserID)
		}
		if leader.Place != int64(i+1) {
			t.Errorf("expected place %d, got %d", i+1, leader.Place)
		}
	}
}

func TestRecordEarningsAccumulates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 503)

	ctx := context.Background()
	if err := env.leaderboard.RecordEarnings(ctx, user.ID, 100); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}
	if err := env.leaderboard.RecordEarnings(ctx, user.ID, 50); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}

	stats := env.getStats(t, user.ID)
	if stats.EarnedWeekCoins != 150 {
		t.Errorf("expected weekly coins 150, got %d", stats.EarnedWeekCoins)
	}

	var leader models.Leader
	if err := env.db.Where("user_id = ?", user.ID).First(&leader).Error; err != nil {
		t.Fatalf("expected leader row: %v", err)
	}
	if leader.EarnedWeekCoins != 150 {
		t.Errorf("expected leader snapshot 150, got %d", leader.EarnedWeekCoins)
	}
}

func TestTieBreakByEarliestRegistration(t *testing.T) {
	env := newTestEnv(t)

	late := env.createUser(t, 504)
	env.clk.Advance(-time.Hour) // early registers an hour before late
	early := env.createUser(t, 505)
	env.clk.Advance(time.Hour)

	ctx := context.Background()
	if err := env.leaderboard.RecordEarnings(ctx, late.ID, 100); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}
	if err := env.leaderboard.RecordEarnings(ctx, early.ID, 100); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}

	top, err := env.leaderboard.GetTop(ctx, 2)
	if err != nil {
		t.Fatalf("GetTop failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 leaders, got %d", len(top))
	}
	if top[0].UserID != early.ID {
		t.Errorf("expected earliest-registered user first, got %d", top[0].UserID)
	}
}

func TestResetWeekZeroesTotalsAndKeepsLeaders(t *testing.T) {
	env := newTestEnv(t)
	users := []int64{506, 507, 508}
	ctx := context.Background()

	for i, id := range users {
		env.createUser(t, id)
		if err := env.leaderboard.RecordEarnings(ctx, id, int64(100*(i+1))); err != nil {
			t.Fatalf("RecordEarnings failed: %v", err)
		}
	}

	if err := env.leaderboard.ResetWeek(ctx); err != nil {
		t.Fatalf("ResetWeek failed: %v", err)
	}

	for _, id := range users {
		if stats := env.getStats(t, id); stats.EarnedWeekCoins != 0 {
			t.Errorf("user %d weekly coins not reset: %d", id, stats.EarnedWeekCoins)
		}
	}

	// the three rows survive the reset, all at zero
	top, err := env.leaderboard.GetTop(ctx, 3)
	if err != nil {
		t.Fatalf("GetTop after reset failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 leaders after reset, got %d", len(top))
	}
	for _, leader := range top {
		if leader.EarnedWeekCoins != 0 {
			t.Errorf("user %d snapshot not zeroed: %d", leader.UserID, leader.EarnedWeekCoins)
		}
	}
}

func TestEarningAfterResetKeepsZeroedRows(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, 510)
	b := env.createUser(t, 511)
	ctx := context.Background()

	if err := env.leaderboard.RecordEarnings(ctx, a.ID, 300); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}
	if err := env.leaderboard.RecordEarnings(ctx, b.ID, 100); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}
	if err := env.leaderboard.ResetWeek(ctx); err != nil {
		t.Fatalf("ResetWeek failed: %v", err)
	}

	// the first earning of the new week reorders the board but must not
	// drop the still-zeroed carry-over row
	if err := env.leaderboard.RecordEarnings(ctx, b.ID, 50); err != nil {
		t.Fatalf("RecordEarnings failed: %v", err)
	}

	top, err := env.leaderboard.GetTop(ctx, 2)
	if err != nil {
		t.Fatalf("GetTop failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 leaders, got %d", len(top))
	}
	if top[0].UserID != b.ID || top[0].EarnedWeekCoins != 50 {
		t.Errorf("unexpected first place: user=%d coins=%d", top[0].UserID, top[0].EarnedWeekCoins)
	}
	if top[1].UserID != a.ID || top[1].EarnedWeekCoins != 0 {
		t.Errorf("unexpected second place: user=%d coins=%d", top[1].UserID, top[1].EarnedWeekCoins)
	}
}

func TestGetTopLimitsResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		id := 520 + i
		env.createUser(t, id)
		if err := env.leaderboard.RecordEarnings(ctx, id, 10+i); err != nil {
			t.Fatalf("RecordEarnings failed: %v", err)
		}
	}

	top, err := env.leaderboard.GetTop(ctx, 2)
	if err != nil {
		t.Fatalf("GetTop failed: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("expected 2 leaders, got %d", len(top))
	}
}
