package jobs

import (
	"context"
	"log"
	"time"

	"eden-api/internal/clock"
	"eden-api/internal/services"
)

// WeekResetJob fires the weekly leaderboard reset when the ISO week rolls
// over in the reference timezone. It is the external time trigger the
// leaderboard engine expects; per-user timers stay lazy and are not handled
// here.
type WeekResetJob struct {
	leaderboard *services.LeaderboardService
	clock       clock.Clock
	interval    time.Duration
	stopChan    chan struct{}

	lastYear int
	lastWeek int
}

// NewWeekResetJob creates a new week reset job
func NewWeekResetJob(leaderboard *services.LeaderboardService, clk clock.Clock, interval time.Duration) *WeekResetJob {
	year, week := clock.ISOWeek(clk.Now(), clk.Location())
	return &WeekResetJob{
		leaderboard: leaderboard,
		clock:       clk,
		interval:    interval,
		stopChan:    make(chan struct{}),
		lastYear:    year,
		lastWeek:    week,
	}
}

// Start begins the boundary watch loop
func (j *WeekResetJob) Start() {
	log.Printf("[WeekReset] Starting week reset job (interval: %v)", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkBoundary()
		case <-j.stopChan:
			log.Println("[WeekReset] Stopping week reset job")
			return
		}
	}
}

// Stop stops the loop
func (j *WeekResetJob) Stop() {
	close(j.stopChan)
}

func (j *WeekResetJob) checkBoundary() {
	year, week := clock.ISOWeek(j.clock.Now(), j.clock.Location())
	if year == j.lastYear && week == j.lastWeek {
		return
	}

	if err := j.leaderboard.ResetWeek(context.Background()); err != nil {
		log.Printf("[WeekReset] Error resetting week: %v", err)
		return
	}

	j.lastYear = year
	j.lastWeek = week
}
