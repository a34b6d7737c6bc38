package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDailyRewardGrantedOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 200)

	reward, err := env.rewards.GrantDailyReward(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GrantDailyReward failed: %v", err)
	}
	if reward == nil {
		t.Fatal("expected a reward on first call")
	}
	if reward.Amount != testDailyPayload.Amount {
		t.Errorf("expected amount %d, got %d", testDailyPayload.Amount, reward.Amount)
	}

	// repeated calls within the same calendar day are no-ops
	for i := 0; i < 3; i++ {
		again, err := env.rewards.GrantDailyReward(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("repeat GrantDailyReward failed: %v", err)
		}
		if again != nil {
			t.Fatal("expected no reward on repeat call within the same day")
		}
	}

	if n := env.rewardCount(t, user.ID, "DAILY"); n != 1 {
		t.Errorf("expected exactly 1 DAILY ledger row, got %d", n)
	}

	stats := env.getStats(t, user.ID)
	if stats.Coins != 1000+testDailyPayload.Amount {
		t.Errorf("expected coins %d, got %d", 1000+testDailyPayload.Amount, stats.Coins)
	}
	if stats.Inspirations != testDailyPayload.Inspirations {
		t.Errorf("expected inspirations %d, got %d", testDailyPayload.Inspirations, stats.Inspirations)
	}
	if stats.Replenishments != testDailyPayload.Replenishments {
		t.Errorf("expected replenishments %d, got %d", testDailyPayload.Replenishments, stats.Replenishments)
	}
}

func TestDailyRewardGrantedAgainAfterMidnight(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 201)

	// 23:50 reference time
	loc := env.clk.Location()
	env.clk.Set(time.Date(2024, 5, 14, 23, 50, 0, 0, loc))

	first, err := env.rewards.GrantDailyReward(context.Background(), user.ID)
	if err != nil || first == nil {
		t.Fatalf("expected first grant, got reward=%v err=%v", first, err)
	}

	// 20 minutes later it is the next calendar day
	env.clk.Advance(20 * time.Minute)

	second, err := env.rewards.GrantDailyReward(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GrantDailyReward after midnight failed: %v", err)
	}
	if second == nil {
		t.Fatal("expected a second grant after the day boundary")
	}

	if n := env.rewardCount(t, user.ID, "DAILY"); n != 2 {
		t.Errorf("expected 2 DAILY ledger rows, got %d", n)
	}
}

func TestDailyRewardBumpsActivityCounters(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 202)

	if _, err := env.rewards.GrantDailyReward(context.Background(), user.ID); err != nil {
		t.Fatalf("GrantDailyReward failed: %v", err)
	}

	activity := env.getActivity(t, user.ID)
	if activity.ActiveDays != 1 {
		t.Errorf("expected active_days 1, got %d", activity.ActiveDays)
	}
}

func TestReferralRewardCreditsReferrerOnce(t *testing.T) {
	env := newTestEnv(t)
	referrer := env.createUser(t, 300)
	referred := env.createUser(t, 301)

	reward, err := env.rewards.GrantReferralReward(context.Background(), referred.ID, referrer.ReferralCode)
	if err != nil {
		t.Fatalf("GrantReferralReward failed: %v", err)
	}
	if reward.UserID != referrer.ID {
		t.Errorf("expected reward for referrer %d, got %d", referrer.ID, reward.UserID)
	}
	if reward.Amount != testReferralPayload.Amount {
		t.Errorf("expected amount %d, got %d", testReferralPayload.Amount, reward.Amount)
	}

	stats := env.getStats(t, referrer.ID)
	if stats.InvitedFriends != 1 {
		t.Errorf("expected invited_friends 1, got %d", stats.InvitedFriends)
	}
	if stats.Coins != 1000+testReferralPayload.Amount {
		t.Errorf("expected coins %d, got %d", 1000+testReferralPayload.Amount, stats.Coins)
	}

	// referred user now points at the referrer
	updated, err := env.repo.GetUser(context.Background(), referred.ID)
	if err != nil {
		t.Fatalf("failed to reload referred user: %v", err)
	}
	if updated.ReferrerID == nil || *updated.ReferrerID != referrer.ID {
		t.Errorf("expected referrer_id %d, got %v", referrer.ID, updated.ReferrerID)
	}
}

func TestReferralRewardUnknownCode(t *testing.T) {
	env := newTestEnv(t)
	referred := env.createUser(t, 302)

	_, err := env.rewards.GrantReferralReward(context.Background(), referred.ID, "no-such-code")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if n := env.rewardCount(t, referred.ID, "REFERRAL"); n != 0 {
		t.Errorf("expected no REFERRAL rows, got %d", n)
	}
}

func TestReferralRewardRejectsSelfReferral(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 303)

	_, err := env.rewards.GrantReferralReward(context.Background(), user.ID, user.ReferralCode)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
